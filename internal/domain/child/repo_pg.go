package child

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matricare/api/internal/platform/apperr"
	"github.com/matricare/api/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type childRepoPG struct{ pool *pgxpool.Pool }

func NewChildRepoPG(pool *pgxpool.Pool) ChildRepository {
	return &childRepoPG{pool: pool}
}

func (r *childRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const childCols = `id, mother_user_id, full_name, date_of_birth, gender, notes,
	screenings, created_at, updated_at`

func (r *childRepoPG) scan(row pgx.Row) (*Child, error) {
	var ch Child
	err := row.Scan(&ch.ID, &ch.MotherUserID, &ch.FullName, &ch.DateOfBirth,
		&ch.Gender, &ch.Notes, &ch.Screenings, &ch.CreatedAt, &ch.UpdatedAt)
	if db.IsNoRows(err) {
		return nil, apperr.NotFoundf("child not found")
	}
	return &ch, err
}

func (r *childRepoPG) Create(ctx context.Context, ch *Child) error {
	ch.ID = uuid.New()
	if ch.Screenings == nil {
		ch.Screenings = map[string]ScreeningResult{}
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO children (id, mother_user_id, full_name, date_of_birth, gender, notes, screenings)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		ch.ID, ch.MotherUserID, ch.FullName, ch.DateOfBirth, ch.Gender, ch.Notes, ch.Screenings)
	return err
}

func (r *childRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Child, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+childCols+` FROM children WHERE id = $1`, id))
}

func (r *childRepoPG) ListByMother(ctx context.Context, motherUserID uuid.UUID) ([]*Child, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+childCols+` FROM children
		WHERE mother_user_id = $1 ORDER BY created_at ASC`, motherUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Child
	for rows.Next() {
		var ch Child
		if err := rows.Scan(&ch.ID, &ch.MotherUserID, &ch.FullName, &ch.DateOfBirth,
			&ch.Gender, &ch.Notes, &ch.Screenings, &ch.CreatedAt, &ch.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &ch)
	}
	return items, rows.Err()
}

func (r *childRepoPG) Update(ctx context.Context, ch *Child) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE children
		SET full_name = $2, date_of_birth = $3, gender = $4, notes = $5, updated_at = now()
		WHERE id = $1`,
		ch.ID, ch.FullName, ch.DateOfBirth, ch.Gender, ch.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("child not found")
	}
	return nil
}

func (r *childRepoPG) ReplaceScreenings(ctx context.Context, id uuid.UUID, screenings map[string]ScreeningResult) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE children SET screenings = $2, updated_at = now() WHERE id = $1`,
		id, screenings)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("child not found")
	}
	return nil
}

func (r *childRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM children WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("child not found")
	}
	return nil
}
