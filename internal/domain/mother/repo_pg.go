package mother

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

type profileRepoPG struct{ pool *pgxpool.Pool }

func NewProfileRepoPG(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepoPG{pool: pool}
}

func (r *profileRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const profileCols = `id, user_id, full_name, age, pregnancy_stage, pregnancy_week,
	due_date, family_support, mental_health_history, concerns, child_ids,
	created_at, updated_at`

func (r *profileRepoPG) scan(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.UserID, &p.FullName, &p.Age, &p.PregnancyStage,
		&p.PregnancyWeek, &p.DueDate, &p.FamilySupport, &p.MentalHealthHistory,
		&p.Concerns, &p.ChildIDs, &p.CreatedAt, &p.UpdatedAt)
	if db.IsNoRows(err) {
		return nil, apperr.NotFoundf("mother profile not found")
	}
	return &p, err
}

func (r *profileRepoPG) Create(ctx context.Context, p *Profile) error {
	p.ID = uuid.New()
	if p.Concerns == nil {
		p.Concerns = []string{}
	}
	if p.ChildIDs == nil {
		p.ChildIDs = []uuid.UUID{}
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO mother_profiles (id, user_id, full_name, age, pregnancy_stage,
			pregnancy_week, due_date, family_support, mental_health_history,
			concerns, child_ids)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		p.ID, p.UserID, p.FullName, p.Age, p.PregnancyStage, p.PregnancyWeek,
		p.DueDate, p.FamilySupport, p.MentalHealthHistory, p.Concerns, p.ChildIDs)
	if db.IsUniqueViolation(err) {
		return apperr.Conflictf("mother profile already exists")
	}
	return err
}

func (r *profileRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+profileCols+` FROM mother_profiles WHERE user_id = $1`, userID))
}

func (r *profileRepoPG) Update(ctx context.Context, p *Profile) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE mother_profiles
		SET full_name = $2, age = $3, pregnancy_stage = $4, pregnancy_week = $5,
			due_date = $6, family_support = $7, mental_health_history = $8,
			concerns = $9, updated_at = now()
		WHERE user_id = $1`,
		p.UserID, p.FullName, p.Age, p.PregnancyStage, p.PregnancyWeek,
		p.DueDate, p.FamilySupport, p.MentalHealthHistory, p.Concerns)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("mother profile not found")
	}
	return nil
}

func (r *profileRepoPG) AppendChild(ctx context.Context, userID, childID uuid.UUID) error {
	// Guarded append keeps the list a set.
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE mother_profiles
		SET child_ids = array_append(child_ids, $2), updated_at = now()
		WHERE user_id = $1 AND NOT ($2 = ANY(child_ids))`,
		userID, childID)
	return err
}

func (r *profileRepoPG) RemoveChild(ctx context.Context, userID, childID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE mother_profiles
		SET child_ids = array_remove(child_ids, $2), updated_at = now()
		WHERE user_id = $1`,
		userID, childID)
	return err
}
