package messaging

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matricare/api/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type messageRepoPG struct{ pool *pgxpool.Pool }

func NewMessageRepoPG(pool *pgxpool.Pool) MessageRepository {
	return &messageRepoPG{pool: pool}
}

func (r *messageRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *messageRepoPG) Create(ctx context.Context, m *Message) error {
	m.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO messages (id, doctor_user_id, mother_user_id, sender_role, content)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		m.ID, m.DoctorUserID, m.MotherUserID, m.SenderRole, m.Content).
		Scan(&m.CreatedAt)
}

func (r *messageRepoPG) ListThread(ctx context.Context, doctorUserID, motherUserID uuid.UUID) ([]*Message, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, doctor_user_id, mother_user_id, sender_role, content, seen, created_at
		FROM messages
		WHERE doctor_user_id = $1 AND mother_user_id = $2
		ORDER BY created_at ASC`, doctorUserID, motherUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.DoctorUserID, &m.MotherUserID, &m.SenderRole,
			&m.Content, &m.Seen, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &m)
	}
	return items, rows.Err()
}

func (r *messageRepoPG) MarkSeen(ctx context.Context, doctorUserID, motherUserID uuid.UUID, viewerRole string) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE messages SET seen = true
		WHERE doctor_user_id = $1 AND mother_user_id = $2
			AND sender_role <> $3 AND NOT seen`,
		doctorUserID, motherUserID, viewerRole)
	return err
}

func (r *messageRepoPG) UnreadCounts(ctx context.Context, viewerID uuid.UUID, viewerRole string) ([]*UnreadCount, error) {
	ownerCol := "mother_user_id"
	if viewerRole == SenderDoctor {
		ownerCol = "doctor_user_id"
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT doctor_user_id, mother_user_id, COUNT(*)
		FROM messages
		WHERE `+ownerCol+` = $1 AND sender_role <> $2 AND NOT seen
		GROUP BY doctor_user_id, mother_user_id`, viewerID, viewerRole)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*UnreadCount
	for rows.Next() {
		var u UnreadCount
		if err := rows.Scan(&u.DoctorUserID, &u.MotherUserID, &u.Count); err != nil {
			return nil, err
		}
		items = append(items, &u)
	}
	return items, rows.Err()
}
