package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSigner(t *testing.T) {
	t.Run("RejectShortSecret", func(t *testing.T) {
		_, err := NewSigner("short", 0)
		assert.Error(t, err)
	})

	t.Run("AcceptLongSecret", func(t *testing.T) {
		s, err := NewSigner("0123456789abcdef0123456789abcdef", 0)
		require.NoError(t, err)
		assert.NotNil(t, s)
	})
}

func TestMintAndValidate(t *testing.T) {
	s, err := NewSigner("0123456789abcdef0123456789abcdef", 0)
	require.NoError(t, err)

	tok, err := s.Mint(ScopeDocumentSave, "session-1")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	t.Run("ValidTokenAccepted", func(t *testing.T) {
		assert.True(t, s.Validate(tok, ScopeDocumentSave, "session-1"))
	})

	t.Run("ReusableWithinSession", func(t *testing.T) {
		// Validation is stateless, the same token passes repeatedly.
		assert.True(t, s.Validate(tok, ScopeDocumentSave, "session-1"))
		assert.True(t, s.Validate(tok, ScopeDocumentSave, "session-1"))
	})

	t.Run("RejectWrongScope", func(t *testing.T) {
		assert.False(t, s.Validate(tok, ScopeFileSave, "session-1"))
	})

	t.Run("RejectWrongSession", func(t *testing.T) {
		assert.False(t, s.Validate(tok, ScopeDocumentSave, "session-2"))
	})

	t.Run("RejectEmptyToken", func(t *testing.T) {
		assert.False(t, s.Validate("", ScopeDocumentSave, "session-1"))
	})

	t.Run("RejectMalformedToken", func(t *testing.T) {
		assert.False(t, s.Validate("not.a.token", ScopeDocumentSave, "session-1"))
	})

	t.Run("RejectTamperedToken", func(t *testing.T) {
		parts := strings.Split(tok, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]
		assert.False(t, s.Validate(tampered, ScopeDocumentSave, "session-1"))
	})

	t.Run("RejectForeignSecret", func(t *testing.T) {
		other, err := NewSigner("another-secret-another-secret!!!", 0)
		require.NoError(t, err)
		assert.False(t, other.Validate(tok, ScopeDocumentSave, "session-1"))
	})
}

func TestMintRequiresScopeAndSession(t *testing.T) {
	s, err := NewSigner("0123456789abcdef0123456789abcdef", 0)
	require.NoError(t, err)

	_, err = s.Mint("", "session-1")
	assert.Error(t, err)
	_, err = s.Mint(ScopeAppStore, "")
	assert.Error(t, err)
}

func TestExpiry(t *testing.T) {
	s, err := NewSigner("0123456789abcdef0123456789abcdef", time.Millisecond)
	require.NoError(t, err)

	tok, err := s.Mint(ScopeAppStore, "session-1")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	assert.False(t, s.Validate(tok, ScopeAppStore, "session-1"))
}
