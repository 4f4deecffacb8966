// Package http holds the gateway's HTTP handlers.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jarawa/josaa-predictor/internal/auth"
	"github.com/jarawa/josaa-predictor/internal/cutoff"
	"github.com/jarawa/josaa-predictor/internal/eventlog"
	"github.com/jarawa/josaa-predictor/internal/predict"
)

// PredictionInput mirrors the request shape of the original tool.
type PredictionInput struct {
	JEERank         float64 `json:"jee_rank"`
	Category        string  `json:"category"`
	CollegeType     string  `json:"college_type"`
	PreferredBranch string  `json:"preferred_branch"`
	RoundNo         string  `json:"round_no"`
	MinProbability  float64 `json:"min_probability"`
}

// PredictionOutput is the ordered preference list plus the histogram data
// an external renderer draws the probability distribution from.
type PredictionOutput struct {
	Preferences []predict.ScoredRecord `json:"preferences"`
	PlotData    predict.Histogram      `json:"plot_data"`
	Message     string                 `json:"message,omitempty"`
}

// PredictHandler runs the scoring engine over the current cutoff snapshot.
// "No matches" is a successful, explicitly empty response; only a missing
// dataset or a malformed request produce error statuses.
func PredictHandler(src cutoff.Source, builder *predict.Builder, events *eventlog.Repo, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in PredictionInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		if in.JEERank <= 0 {
			writeError(w, http.StatusBadRequest, "jee_rank must be positive")
			return
		}
		if in.RoundNo == "" {
			writeError(w, http.StatusBadRequest, "round_no required")
			return
		}
		if in.MinProbability < 0 || in.MinProbability > 100 {
			writeError(w, http.StatusBadRequest, "min_probability must be in [0,100]")
			return
		}

		records, err := src.Records(r.Context())
		if err != nil {
			log.Error("cutoff load failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "cutoff data unavailable")
			return
		}

		out := PredictionOutput{Preferences: []predict.ScoredRecord{}, PlotData: predict.Histogram{}}
		shortlist, err := builder.Build(records, in.JEERank, predict.Filter{
			Category:       in.Category,
			CollegeType:    in.CollegeType,
			Branch:         in.PreferredBranch,
			Round:          in.RoundNo,
			MinProbability: in.MinProbability,
		})
		switch {
		case errors.Is(err, predict.ErrNoMatches):
			out.Message = "no colleges match the selected filters"
		case err != nil:
			log.Error("shortlist build failed", "error", err)
			writeError(w, http.StatusInternalServerError, "prediction failed")
			return
		default:
			out.Preferences = shortlist.Preferences
			out.PlotData = shortlist.Distribution
		}

		if events != nil {
			data := eventlog.PredictionData{
				Rank:        in.JEERank,
				Category:    in.Category,
				CollegeType: in.CollegeType,
				Branch:      in.PreferredBranch,
				Round:       in.RoundNo,
				Results:     len(out.Preferences),
			}
			if err := events.Append(r.Context(), eventlog.TypePredictionServed,
				auth.SubjectFromContext(r.Context()), data); err != nil {
				log.Error("event log append failed", "error", err)
			}
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// BranchesHandler serves the "All"-prefixed branch list for UI dropdowns.
func BranchesHandler(src cutoff.Source, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		branches, err := src.Branches(r.Context())
		if err != nil {
			log.Error("branch list failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "cutoff data unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string][]string{"branches": branches})
	}
}
