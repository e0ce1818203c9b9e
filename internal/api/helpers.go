package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// respondJSON writes v as the response body with the given status. Every
// handler response goes through here so the envelope mapping lives in
// one place.
func respondJSON(w http.ResponseWriter, log hclog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("error encoding response", "error", err)
	}
}

// parsePathSegments splits the URL path after prefix into exactly want
// non-empty segments.
func parsePathSegments(url, prefix string, want int) ([]string, error) {
	url = strings.TrimPrefix(url, prefix)

	var segments []string
	for _, v := range strings.Split(url, "/") {
		if v != "" {
			segments = append(segments, v)
		}
	}
	if len(segments) != want {
		return nil, fmt.Errorf("invalid URL path")
	}
	return segments, nil
}
