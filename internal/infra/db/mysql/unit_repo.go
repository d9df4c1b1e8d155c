package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain "github.com/bryanwahyu/unit-monitor/internal/domain/units"
)

type UnitRepository struct {
	db *sql.DB
}

func NewUnitRepository(db *sql.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

const unitColumns = `id, nome_unidade, grupo_unidade, tecnico_unidade, id_unidade, observacoes, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUnit(row rowScanner) (*domain.Unit, error) {
	var u domain.Unit
	var tech, notes sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &u.Group, &tech, &u.ExternalID, &notes, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Technician = tech.String
	u.Notes = notes.String
	return &u, nil
}

// List semua unit, urut nama
func (r *UnitRepository) List(ctx context.Context) ([]*domain.Unit, error) {
	const q = `SELECT ` + unitColumns + ` FROM unidades ORDER BY nome_unidade ASC, id ASC;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying units: %w", err)
	}
	defer rows.Close()

	out := []*domain.Unit{}
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning unit: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UnitRepository) Get(ctx context.Context, id domain.ID) (*domain.Unit, error) {
	const q = `SELECT ` + unitColumns + ` FROM unidades WHERE id=? LIMIT 1;`
	u, err := scanUnit(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return u, err
}

func (r *UnitRepository) Create(ctx context.Context, u *domain.Unit) error {
	const q = `
INSERT INTO unidades
(nome_unidade, grupo_unidade, tecnico_unidade, id_unidade, observacoes, created_at, updated_at)
VALUES (?,?,?,?,?,?,?);`
	res, err := r.db.ExecContext(ctx, q,
		u.Name, u.Group, nullIfBlank(u.Technician), u.ExternalID, nullIfBlank(u.Notes),
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isDuplicate(err) {
			return domain.ErrDuplicateExternalID
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

// Update overwrites every column. The DSN sets clientFoundRows so an
// unchanged row still counts as found.
func (r *UnitRepository) Update(ctx context.Context, u *domain.Unit) error {
	const q = `
UPDATE unidades
SET nome_unidade = ?,
    grupo_unidade = ?,
    tecnico_unidade = ?,
    id_unidade = ?,
    observacoes = ?,
    updated_at = ?
WHERE id = ?;`
	res, err := r.db.ExecContext(ctx, q,
		u.Name, u.Group, nullIfBlank(u.Technician), u.ExternalID, nullIfBlank(u.Notes),
		u.UpdatedAt, u.ID,
	)
	if err != nil {
		if isDuplicate(err) {
			return domain.ErrDuplicateExternalID
		}
		return err
	}
	return rowsAffected(res, domain.ErrNotFound)
}

func (r *UnitRepository) Delete(ctx context.Context, id domain.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM unidades WHERE id = ?;`, id)
	if err != nil {
		return err
	}
	return rowsAffected(res, domain.ErrNotFound)
}
