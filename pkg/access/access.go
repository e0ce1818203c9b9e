// Package access composes the host platform's capability and permission
// checks into a single yes/no gate for editor operations.
package access

import "context"

// Capabilities the editor API requires from actors.
const (
	CapabilityUseEditor = "use-editor"
	CapabilityUpload    = "upload-via-editor"
)

// Actor identifies the user behind a request along with the session the
// action token was minted for. It is passed explicitly into every service
// call; nothing in this module reads ambient request state.
type Actor struct {
	ID      string
	Session string
}

// CapabilityChecker is the host's named-capability check.
type CapabilityChecker interface {
	HasCapability(ctx context.Context, actor Actor, capability string) bool
}

// PermissionChecker is the host's resource-level permission check, e.g.
// "update" on a specific document or "create" for an asset MIME type.
type PermissionChecker interface {
	HasPermission(ctx context.Context, actor Actor, op, resource string) bool
}

// Gate combines a capability check with a resource permission check. Both
// must pass; the first denial short-circuits. The result is only ever a
// boolean, never an error used for control flow.
type Gate struct {
	caps  CapabilityChecker
	perms PermissionChecker
}

func NewGate(caps CapabilityChecker, perms PermissionChecker) *Gate {
	return &Gate{caps: caps, perms: perms}
}

// CanOperate reports whether actor holds the named capability and the
// op-level permission on the resource.
func (g *Gate) CanOperate(ctx context.Context, actor Actor, capability, op, resource string) bool {
	if !g.caps.HasCapability(ctx, actor, capability) {
		return false
	}
	return g.perms.HasPermission(ctx, actor, op, resource)
}

// HasCapability exposes the bare capability check for operations that have
// no resource-level component.
func (g *Gate) HasCapability(ctx context.Context, actor Actor, capability string) bool {
	return g.caps.HasCapability(ctx, actor, capability)
}
