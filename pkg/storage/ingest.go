package storage

import (
	"context"
	"errors"
	"io"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/quill/pkg/access"
	"github.com/hashicorp-forge/quill/pkg/token"
)

// Upload is the transient view of one uploaded asset. Body must be the
// request's own multipart stream; ingest never reads from a caller-named
// filesystem path.
type Upload struct {
	Name     string
	MimeType string
	Body     io.Reader
}

func (u Upload) validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.Required,
			validation.By(noPathSeparators)),
		validation.Field(&u.MimeType, validation.Required),
	)
}

func noPathSeparators(v any) error {
	s, _ := v.(string)
	if strings.ContainsAny(s, "/\\") || s == ".." {
		return errors.New("must be a bare filename")
	}
	return nil
}

// Recorder is the host collaborator that owns StoredAsset durability. The
// standalone server records rows in its own database; an embedding host
// records file entities in its entity storage.
type Recorder interface {
	Record(ctx context.Context, asset *StoredAsset) error
}

// IngestOutcome is the closed set of results an ingest can produce.
type IngestOutcome int

const (
	IngestStored IngestOutcome = iota
	IngestUnauthorized
	IngestInvalid
	IngestStorageFailed
)

// IngestResult carries the outcome, the stored asset on success, and a
// log-safe reason otherwise.
type IngestResult struct {
	Outcome IngestOutcome
	Asset   *StoredAsset
	Reason  string
}

// IngestService authorizes an upload, persists it to the selected
// backend, and records the stored reference with the host.
type IngestService struct {
	backends *Backends
	recorder Recorder
	gate     *access.Gate
	tokens   *token.Signer
	log      hclog.Logger
}

func NewIngestService(backends *Backends, recorder Recorder, gate *access.Gate, tokens *token.Signer, log hclog.Logger) *IngestService {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &IngestService{
		backends: backends,
		recorder: recorder,
		gate:     gate,
		tokens:   tokens,
		log:      log.Named("ingest"),
	}
}

// Ingest persists up to the backend named by backendName (empty selects
// the default). Authorization failures return IngestUnauthorized before
// any bytes move. A malformed upload or unknown backend is IngestInvalid.
// Backend and recorder failures are IngestStorageFailed; if the bytes
// were already written when the recorder fails, they are removed again so
// the failed request leaves no orphaned file behind.
func (s *IngestService) Ingest(ctx context.Context, actor access.Actor, up Upload, backendName, tok string) IngestResult {
	if !s.tokens.Validate(tok, token.ScopeFileSave, actor.Session) {
		s.log.Warn("rejecting upload with invalid action token", "actor", actor.ID)
		return IngestResult{Outcome: IngestUnauthorized}
	}
	if !s.gate.HasCapability(ctx, actor, access.CapabilityUseEditor) ||
		!s.gate.CanOperate(ctx, actor, access.CapabilityUpload, "create", up.MimeType) {
		s.log.Warn("rejecting upload without create access",
			"actor", actor.ID,
			"mime_type", up.MimeType,
		)
		return IngestResult{Outcome: IngestUnauthorized}
	}

	if up.Body == nil {
		return IngestResult{Outcome: IngestInvalid, Reason: "no file present"}
	}
	if err := up.validate(); err != nil {
		return IngestResult{Outcome: IngestInvalid, Reason: err.Error()}
	}

	backend, err := s.backends.Select(backendName)
	if err != nil {
		return IngestResult{Outcome: IngestInvalid, Reason: err.Error()}
	}

	asset, err := backend.Write(ctx, up.Name, up.Body)
	if err != nil {
		s.log.Error("error writing asset",
			"backend", backend.Name(),
			"name", up.Name,
			"error", err,
		)
		return IngestResult{Outcome: IngestStorageFailed, Reason: "error writing asset"}
	}
	asset.MimeType = up.MimeType

	if err := s.recorder.Record(ctx, asset); err != nil {
		s.log.Error("error recording asset, removing written bytes",
			"backend", backend.Name(),
			"uri", asset.URI,
			"error", err,
		)
		if rmErr := backend.Remove(ctx, asset.URI); rmErr != nil {
			s.log.Error("error removing orphaned asset",
				"uri", asset.URI,
				"error", rmErr,
			)
		}
		return IngestResult{Outcome: IngestStorageFailed, Reason: "error recording asset"}
	}

	s.log.Info("asset stored",
		"actor", actor.ID,
		"backend", backend.Name(),
		"uri", asset.URI,
		"bytes", asset.Size,
	)
	return IngestResult{Outcome: IngestStored, Asset: asset}
}
