package access

import "context"

// Static is an in-process implementation of both checker interfaces, used
// by the standalone server and in tests. Real deployments wire the host
// platform's own permission system in instead.
//
// Capabilities maps actor ID to the capabilities they hold. Grants maps
// actor ID to "op:resource" pairs; the resource part may be "*".
type Static struct {
	Capabilities map[string][]string
	Grants       map[string][]string
}

var _ CapabilityChecker = (*Static)(nil)
var _ PermissionChecker = (*Static)(nil)

func (s *Static) HasCapability(_ context.Context, actor Actor, capability string) bool {
	for _, c := range s.Capabilities[actor.ID] {
		if c == capability {
			return true
		}
	}
	return false
}

func (s *Static) HasPermission(_ context.Context, actor Actor, op, resource string) bool {
	for _, g := range s.Grants[actor.ID] {
		if g == op+":"+resource || g == op+":*" {
			return true
		}
	}
	return false
}

// AllowAll grants every capability and permission to every actor.
type AllowAll struct{}

func (AllowAll) HasCapability(context.Context, Actor, string) bool      { return true }
func (AllowAll) HasPermission(context.Context, Actor, string, string) bool { return true }
