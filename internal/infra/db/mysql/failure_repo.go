package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/bryanwahyu/unit-monitor/internal/domain/failures"
	"github.com/bryanwahyu/unit-monitor/internal/domain/units"
)

type FailureRepository struct {
	db *sql.DB
}

func NewFailureRepository(db *sql.DB) *FailureRepository {
	return &FailureRepository{db: db}
}

const failureColumns = `id, falha_ocorrida, data_falha, ativa, observacao, unidade_id, created_at, updated_at`

func scanFailure(row rowScanner) (*domain.Failure, error) {
	var f domain.Failure
	var day time.Time
	var note sql.NullString
	if err := row.Scan(&f.ID, &f.Description, &day, &f.Active, &note, &f.UnitID, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.Date = domain.DateOf(day)
	f.Note = note.String
	return &f, nil
}

// List with optional unit / status filters, newest first
func (r *FailureRepository) List(ctx context.Context, filter domain.Filter) ([]*domain.Failure, error) {
	query := `SELECT ` + failureColumns + ` FROM falhas`

	var where []string
	var args []any
	if filter.UnitID != nil {
		where = append(where, "unidade_id = ?")
		args = append(args, *filter.UnitID)
	}
	if filter.Active != nil {
		where = append(where, "ativa = ?")
		args = append(args, *filter.Active)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY data_falha DESC, created_at DESC, id ASC;"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()

	out := []*domain.Failure{}
	for rows.Next() {
		f, err := scanFailure(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning failure: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FailureRepository) Get(ctx context.Context, id domain.ID) (*domain.Failure, error) {
	const q = `SELECT ` + failureColumns + ` FROM falhas WHERE id=? LIMIT 1;`
	f, err := scanFailure(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return f, err
}

func (r *FailureRepository) Create(ctx context.Context, f *domain.Failure) error {
	const q = `
INSERT INTO falhas
(falha_ocorrida, data_falha, ativa, observacao, unidade_id, created_at, updated_at)
VALUES (?,?,?,?,?,?,?);`
	res, err := r.db.ExecContext(ctx, q,
		f.Description, f.Date.Time, f.Active, nullIfBlank(f.Note), f.UnitID,
		f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = id
	return nil
}

func (r *FailureRepository) Update(ctx context.Context, f *domain.Failure) error {
	const q = `
UPDATE falhas
SET falha_ocorrida = ?,
    data_falha = ?,
    ativa = ?,
    observacao = ?,
    unidade_id = ?,
    updated_at = ?
WHERE id = ?;`
	res, err := r.db.ExecContext(ctx, q,
		f.Description, f.Date.Time, f.Active, nullIfBlank(f.Note), f.UnitID,
		f.UpdatedAt, f.ID,
	)
	if err != nil {
		return err
	}
	return rowsAffected(res, domain.ErrNotFound)
}

// DeleteByUnit hapus semua falha milik satu unit
func (r *FailureRepository) DeleteByUnit(ctx context.Context, unitID units.ID) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM falhas WHERE unidade_id = ?;`, unitID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
