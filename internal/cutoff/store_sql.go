package cutoff

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jarawa/josaa-predictor/internal/predict"
)

// SQLStore serves cutoff records from the cutoffs table and supports
// replacing the whole dataset from a freshly parsed CSV.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Records(ctx context.Context) ([]predict.CutoffRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT institute, college_type, location, branch, category, opening_rank, closing_rank, round
		FROM cutoffs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: query cutoffs: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var out []predict.CutoffRecord
	for rows.Next() {
		var r predict.CutoffRecord
		if err := rows.Scan(&r.Institute, &r.CollegeType, &r.Location, &r.Branch,
			&r.Category, &r.OpeningRank, &r.ClosingRank, &r.Round); err != nil {
			return nil, fmt.Errorf("%w: scan cutoff row: %v", ErrUnavailable, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return out, nil
}

func (s *SQLStore) Branches(ctx context.Context) ([]string, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	return BranchList(records), nil
}

// BulkImport replaces the stored dataset with records, atomically.
func (s *SQLStore) BulkImport(ctx context.Context, records []predict.CutoffRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cutoffs`); err != nil {
		return fmt.Errorf("clear cutoffs: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO cutoffs
		(institute, college_type, location, branch, category, opening_rank, closing_rank, round)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Institute, r.CollegeType, r.Location,
			r.Branch, r.Category, r.OpeningRank, r.ClosingRank, r.Round); err != nil {
			return fmt.Errorf("insert cutoff for %s: %w", r.Institute, err)
		}
	}
	return tx.Commit()
}

// Count reports the stored record count, handy for import feedback.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cutoffs`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
