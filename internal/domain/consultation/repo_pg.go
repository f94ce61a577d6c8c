package consultation

import (
	"context"
	"fmt"

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

type consultationRepoPG struct{ pool *pgxpool.Pool }

func NewConsultationRepoPG(pool *pgxpool.Pool) ConsultationRepository {
	return &consultationRepoPG{pool: pool}
}

func (r *consultationRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const consultationCols = `id, mother_user_id, doctor_user_id, message, urgency,
	status, is_approved, preferred_time, response, responded_at,
	response_time_minutes, rating, feedback, created_at, updated_at`

func scanConsultation(row pgx.Row) (*Consultation, error) {
	var c Consultation
	err := row.Scan(&c.ID, &c.MotherUserID, &c.DoctorUserID, &c.Message,
		&c.Urgency, &c.Status, &c.IsApproved, &c.PreferredTime, &c.Response,
		&c.RespondedAt, &c.ResponseTimeMinutes, &c.Rating, &c.Feedback,
		&c.CreatedAt, &c.UpdatedAt)
	if db.IsNoRows(err) {
		return nil, apperr.NotFoundf("consultation not found")
	}
	return &c, err
}

func (r *consultationRepoPG) Create(ctx context.Context, c *Consultation) error {
	c.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO consultations (id, mother_user_id, doctor_user_id, message, urgency, status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		c.ID, c.MotherUserID, c.DoctorUserID, c.Message, c.Urgency, c.Status).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *consultationRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return scanConsultation(r.conn(ctx).QueryRow(ctx,
		`SELECT `+consultationCols+` FROM consultations WHERE id = $1`, id))
}

func (r *consultationRepoPG) HasPending(ctx context.Context, motherUserID, doctorUserID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM consultations
			WHERE mother_user_id = $1 AND doctor_user_id = $2 AND status = 'pending'
		)`, motherUserID, doctorUserID).Scan(&exists)
	return exists, err
}

func (r *consultationRepoPG) Update(ctx context.Context, c *Consultation) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE consultations
		SET status = $2, is_approved = $3, preferred_time = $4, response = $5,
			responded_at = $6, response_time_minutes = $7, rating = $8,
			feedback = $9, updated_at = now()
		WHERE id = $1`,
		c.ID, c.Status, c.IsApproved, c.PreferredTime, c.Response,
		c.RespondedAt, c.ResponseTimeMinutes, c.Rating, c.Feedback)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("consultation not found")
	}
	return nil
}

func (r *consultationRepoPG) ListByMother(ctx context.Context, motherUserID uuid.UUID, status string, limit, offset int) ([]*Consultation, int, error) {
	return r.list(ctx, "mother_user_id", motherUserID, status, limit, offset)
}

func (r *consultationRepoPG) ListByDoctor(ctx context.Context, doctorUserID uuid.UUID, status string, limit, offset int) ([]*Consultation, int, error) {
	return r.list(ctx, "doctor_user_id", doctorUserID, status, limit, offset)
}

func (r *consultationRepoPG) list(ctx context.Context, ownerCol string, ownerID uuid.UUID, status string, limit, offset int) ([]*Consultation, int, error) {
	q := r.conn(ctx)
	where := fmt.Sprintf("WHERE %s = $1", ownerCol)
	args := []interface{}{ownerID}
	if status != "" {
		where += " AND status = $2"
		args = append(args, status)
	}

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM consultations `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := q.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM consultations %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		consultationCols, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Consultation
	for rows.Next() {
		var c Consultation
		if err := rows.Scan(&c.ID, &c.MotherUserID, &c.DoctorUserID, &c.Message,
			&c.Urgency, &c.Status, &c.IsApproved, &c.PreferredTime, &c.Response,
			&c.RespondedAt, &c.ResponseTimeMinutes, &c.Rating, &c.Feedback,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &c)
	}
	return items, total, rows.Err()
}
