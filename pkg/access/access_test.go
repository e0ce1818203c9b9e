package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// countingChecker records how often it is consulted so tests can verify
// the gate short-circuits on the first denial.
type countingChecker struct {
	allowCaps  bool
	allowPerms bool
	capCalls   int
	permCalls  int
}

func (c *countingChecker) HasCapability(context.Context, Actor, string) bool {
	c.capCalls++
	return c.allowCaps
}

func (c *countingChecker) HasPermission(context.Context, Actor, string, string) bool {
	c.permCalls++
	return c.allowPerms
}

func TestGateCanOperate(t *testing.T) {
	ctx := context.Background()
	actor := Actor{ID: "alice", Session: "s1"}

	t.Run("BothPass", func(t *testing.T) {
		c := &countingChecker{allowCaps: true, allowPerms: true}
		g := NewGate(c, c)
		assert.True(t, g.CanOperate(ctx, actor, CapabilityUseEditor, "update", "doc-1"))
	})

	t.Run("CapabilityDenialShortCircuits", func(t *testing.T) {
		c := &countingChecker{allowCaps: false, allowPerms: true}
		g := NewGate(c, c)
		assert.False(t, g.CanOperate(ctx, actor, CapabilityUseEditor, "update", "doc-1"))
		assert.Equal(t, 1, c.capCalls)
		assert.Equal(t, 0, c.permCalls)
	})

	t.Run("PermissionDenial", func(t *testing.T) {
		c := &countingChecker{allowCaps: true, allowPerms: false}
		g := NewGate(c, c)
		assert.False(t, g.CanOperate(ctx, actor, CapabilityUseEditor, "update", "doc-1"))
	})
}

func TestStatic(t *testing.T) {
	ctx := context.Background()
	s := &Static{
		Capabilities: map[string][]string{
			"alice": {CapabilityUseEditor, CapabilityUpload},
			"bob":   {CapabilityUseEditor},
		},
		Grants: map[string][]string{
			"alice": {"update:*", "create:image/png"},
			"bob":   {"update:doc-1"},
		},
	}

	alice := Actor{ID: "alice"}
	bob := Actor{ID: "bob"}

	assert.True(t, s.HasCapability(ctx, alice, CapabilityUpload))
	assert.False(t, s.HasCapability(ctx, bob, CapabilityUpload))
	assert.False(t, s.HasCapability(ctx, Actor{ID: "mallory"}, CapabilityUseEditor))

	assert.True(t, s.HasPermission(ctx, alice, "update", "doc-42"))
	assert.True(t, s.HasPermission(ctx, alice, "create", "image/png"))
	assert.False(t, s.HasPermission(ctx, alice, "create", "image/gif"))
	assert.True(t, s.HasPermission(ctx, bob, "update", "doc-1"))
	assert.False(t, s.HasPermission(ctx, bob, "update", "doc-2"))
}
