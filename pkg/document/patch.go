package document

import (
	"context"
	"errors"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/quill/pkg/access"
	"github.com/hashicorp-forge/quill/pkg/token"
)

// PatchOutcome is the closed set of results a patch can produce. The API
// layer maps each variant to an HTTP status exactly once.
type PatchOutcome int

const (
	PatchSaved PatchOutcome = iota
	PatchUnauthorized
	PatchNotFound
	PatchStorageFailed
)

// PatchResult carries the outcome plus the updated document on success or
// a log-safe reason on failure. Reasons never reach response bodies
// verbatim; the API layer writes its own uniform envelope.
type PatchResult struct {
	Outcome  PatchOutcome
	Document *Document
	Reason   string
}

// PatchService applies authorized partial updates to a document body.
type PatchService struct {
	store  Store
	gate   *access.Gate
	tokens *token.Signer
	log    hclog.Logger
}

func NewPatchService(store Store, gate *access.Gate, tokens *token.Signer, log hclog.Logger) *PatchService {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &PatchService{store: store, gate: gate, tokens: tokens, log: log.Named("patch")}
}

// Patch replaces the body value of the identified document, keeping its
// encoding profile untouched. The write is last-write-wins: no diffing,
// no conflict detection, one atomic Save against the host store.
//
// Authorization failures (bad token, missing capability or permission)
// collapse into PatchUnauthorized before any state changes. Host storage
// failures after authorization surface as PatchNotFound or
// PatchStorageFailed, never silently swallowed.
func (s *PatchService) Patch(ctx context.Context, actor access.Actor, id string, newValue []byte, tok string) PatchResult {
	if !s.tokens.Validate(tok, token.ScopeDocumentSave, actor.Session) {
		s.log.Warn("rejecting save with invalid action token",
			"actor", actor.ID,
			"document", id,
		)
		return PatchResult{Outcome: PatchUnauthorized}
	}
	if !s.gate.CanOperate(ctx, actor, access.CapabilityUseEditor, "update", id) {
		s.log.Warn("rejecting save without update access",
			"actor", actor.ID,
			"document", id,
		)
		return PatchResult{Outcome: PatchUnauthorized}
	}

	doc, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return PatchResult{Outcome: PatchNotFound, Reason: "document not found"}
		}
		s.log.Error("error reading document", "document", id, "error", err)
		return PatchResult{Outcome: PatchStorageFailed, Reason: "error reading document"}
	}

	// Retain the current encoding profile. Changing how a body is
	// rendered is a deliberate act the host's own edit flow owns, not a
	// side effect of an editor save.
	doc.Body.Value = string(newValue)

	if err := s.store.Save(ctx, doc); err != nil {
		s.log.Error("error saving document", "document", id, "error", err)
		return PatchResult{Outcome: PatchStorageFailed, Reason: "error saving document"}
	}

	s.log.Info("document body saved",
		"actor", actor.ID,
		"document", id,
		"bytes", len(newValue),
	)
	return PatchResult{Outcome: PatchSaved, Document: doc}
}
