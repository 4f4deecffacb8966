// Package eventlog keeps an append-only audit trail of served predictions.
package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const TypePredictionServed = "PredictionServed"

type Event struct {
	Offset    int64
	Type      string
	Key       string // user the prediction was served to
	DataJSON  string
	CreatedAt int64
}

// PredictionData is the payload recorded per served prediction.
type PredictionData struct {
	Rank        float64 `json:"rank"`
	Category    string  `json:"category"`
	CollegeType string  `json:"college_type"`
	Branch      string  `json:"branch"`
	Round       string  `json:"round"`
	Results     int     `json:"results"`
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, typ, key string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		typ, key, string(payload), time.Now().Unix())
	return err
}
