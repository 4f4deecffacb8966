package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jarawa/josaa-predictor/internal/cutoff"
	"github.com/jarawa/josaa-predictor/internal/predict"
	"github.com/jarawa/josaa-predictor/internal/users"
)

// Invalidator lets the import handler drop a cached snapshot after the
// dataset changes.
type Invalidator interface{ Invalidate() }

// ImportHandler replaces the stored cutoff dataset. Accepts either a
// multipart CSV upload under "file" or a JSON body {"url": "..."}; an
// empty URL means the published default.
func ImportHandler(store *cutoff.SQLStore, cache Invalidator, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			records []predict.CutoffRecord
			err     error
		)
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			f, _, ferr := r.FormFile("file")
			if ferr != nil {
				writeError(w, http.StatusBadRequest, "file required")
				return
			}
			defer f.Close()
			records, err = cutoff.ParseCSV(f)
			if err != nil {
				writeError(w, http.StatusBadRequest, "bad csv: "+err.Error())
				return
			}
		} else {
			var req struct {
				URL string `json:"url"`
			}
			if r.ContentLength > 0 {
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					writeError(w, http.StatusBadRequest, "bad json")
					return
				}
			}
			records, err = cutoff.NewHTTPSource(req.URL, nil).Records(r.Context())
			if err != nil {
				log.Error("cutoff fetch failed", "url", req.URL, "error", err)
				writeError(w, http.StatusBadGateway, "fetch failed: "+err.Error())
				return
			}
		}

		if err := store.BulkImport(r.Context(), records); err != nil {
			log.Error("cutoff import failed", "error", err)
			writeError(w, http.StatusInternalServerError, "import failed")
			return
		}
		if cache != nil {
			cache.Invalidate()
		}
		log.Info("cutoff dataset imported", "records", len(records))
		writeJSON(w, http.StatusOK, map[string]int{"imported": len(records)})
	}
}

// ListUsersHandler serves the registered users, admin only.
func ListUsersHandler(store *users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "list users failed")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
