package api

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/hashicorp-forge/quill/internal/server"
	"github.com/hashicorp-forge/quill/pkg/storage"
)

// uploadFieldName is the multipart form field carrying the file.
const uploadFieldName = "file-upload"

// maxUploadBytes caps one uploaded asset.
const maxUploadBytes = 64 << 20

// fileEnvelope is the uniform response shape of the upload endpoint.
// Data holds {file: asset} on success and "" otherwise.
type fileEnvelope struct {
	Status int `json:"status"`
	Data   any `json:"data"`
}

// FileSaveHandler ingests one uploaded asset.
//
// Route: POST /api/v1/files/{token}?file_wrapper={backend}
//
// The file arrives as multipart field "file-upload". file_wrapper picks
// the storage backend; absent means the public backend, unrecognized is
// a validation error rather than a silent fallback. Authorization
// failures are 403, malformed uploads 400, storage failures 500.
func FileSaveHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := srv.Logger

		fail := func(status int, logMsg string, err error) {
			log.Warn(logMsg,
				"method", r.Method,
				"path", r.URL.Path,
				"error", err,
			)
			respondJSON(w, log, status, fileEnvelope{Status: status, Data: ""})
		}

		segments, err := parsePathSegments(r.URL.Path, "/api/v1/files/", 1)
		if err != nil {
			fail(http.StatusForbidden, "file save with malformed path", err)
			return
		}
		tok := segments[0]

		if r.Method != http.MethodPost {
			fail(http.StatusForbidden, "file save with wrong verb", nil)
			return
		}

		actor, ok := srv.Actors.Resolve(r)
		if !ok {
			fail(http.StatusForbidden, "file save without actor", nil)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		// Only the request's own multipart stream feeds the backend.
		// FormFile hands back the uploaded part, never a server path.
		file, header, err := r.FormFile(uploadFieldName)
		if err != nil {
			fail(http.StatusBadRequest, "file save without upload", err)
			return
		}
		defer file.Close()

		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = mime.TypeByExtension(filepath.Ext(header.Filename))
		}
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		res := srv.Assets.Ingest(r.Context(), actor, storage.Upload{
			Name:     header.Filename,
			MimeType: mimeType,
			Body:     file,
		}, r.URL.Query().Get("file_wrapper"), tok)

		switch res.Outcome {
		case storage.IngestStored:
			respondJSON(w, log, http.StatusOK, fileEnvelope{
				Status: http.StatusOK,
				Data:   map[string]any{"file": res.Asset},
			})
		case storage.IngestInvalid:
			fail(http.StatusBadRequest, "file save rejected as invalid", nil)
		case storage.IngestStorageFailed:
			fail(http.StatusInternalServerError, "file save failed in storage", nil)
		default:
			fail(http.StatusForbidden, "file save rejected", nil)
		}
	})
}
