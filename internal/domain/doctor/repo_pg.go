package doctor

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

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// -- Profiles --

type profileRepoPG struct{ pool *pgxpool.Pool }

func NewProfileRepoPG(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepoPG{pool: pool}
}

const profileCols = `id, user_id, full_name, specialization, license_number,
	graduation_year, experience_years, consultation_fee, availability,
	rating, rating_count, verified, active, available_now, created_at, updated_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.UserID, &p.FullName, &p.Specialization,
		&p.LicenseNumber, &p.GraduationYear, &p.ExperienceYears,
		&p.ConsultationFee, &p.Availability, &p.Rating, &p.RatingCount,
		&p.Verified, &p.Active, &p.AvailableNow, &p.CreatedAt, &p.UpdatedAt)
	if db.IsNoRows(err) {
		return nil, apperr.NotFoundf("doctor profile not found")
	}
	return &p, err
}

func (r *profileRepoPG) Create(ctx context.Context, p *Profile) error {
	p.ID = uuid.New()
	if p.Availability == nil {
		p.Availability = Availability{}
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO doctor_profiles (id, user_id, full_name, specialization,
			license_number, graduation_year, experience_years, consultation_fee,
			availability, verified, active, available_now)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		p.ID, p.UserID, p.FullName, p.Specialization, p.LicenseNumber,
		p.GraduationYear, p.ExperienceYears, p.ConsultationFee, p.Availability,
		p.Verified, p.Active, p.AvailableNow)
	if db.IsUniqueViolation(err) {
		return apperr.Conflictf("license number already registered")
	}
	return err
}

func (r *profileRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return scanProfile(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+profileCols+` FROM doctor_profiles WHERE user_id = $1`, userID))
}

func (r *profileRepoPG) Update(ctx context.Context, p *Profile) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE doctor_profiles
		SET full_name = $2, specialization = $3, license_number = $4,
			graduation_year = $5, experience_years = $6, consultation_fee = $7,
			availability = $8, verified = $9, active = $10, available_now = $11,
			updated_at = now()
		WHERE user_id = $1`,
		p.UserID, p.FullName, p.Specialization, p.LicenseNumber,
		p.GraduationYear, p.ExperienceYears, p.ConsultationFee, p.Availability,
		p.Verified, p.Active, p.AvailableNow)
	if db.IsUniqueViolation(err) {
		return apperr.Conflictf("license number already registered")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("doctor profile not found")
	}
	return nil
}

func (r *profileRepoPG) ListActive(ctx context.Context, limit, offset int) ([]*Profile, int, error) {
	q := conn(ctx, r.pool)
	var total int
	if err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM doctor_profiles WHERE active`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := q.Query(ctx, `
		SELECT `+profileCols+` FROM doctor_profiles
		WHERE active ORDER BY rating DESC, created_at ASC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.UserID, &p.FullName, &p.Specialization,
			&p.LicenseNumber, &p.GraduationYear, &p.ExperienceYears,
			&p.ConsultationFee, &p.Availability, &p.Rating, &p.RatingCount,
			&p.Verified, &p.Active, &p.AvailableNow, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &p)
	}
	return items, total, rows.Err()
}

func (r *profileRepoPG) AddRating(ctx context.Context, userID uuid.UUID, rating int) (*Profile, error) {
	// Single statement keeps the average and count in step under concurrency.
	return scanProfile(conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE doctor_profiles
		SET rating = (rating * rating_count + $2) / (rating_count + 1),
			rating_count = rating_count + 1,
			updated_at = now()
		WHERE user_id = $1
		RETURNING `+profileCols, userID, rating))
}

// -- Roster --

type rosterRepoPG struct{ pool *pgxpool.Pool }

func NewRosterRepoPG(pool *pgxpool.Pool) RosterRepository {
	return &rosterRepoPG{pool: pool}
}

func (r *rosterRepoPG) Add(ctx context.Context, doctorUserID, patientUserID uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO doctor_patients (doctor_user_id, patient_user_id)
		VALUES ($1,$2)
		ON CONFLICT (doctor_user_id, patient_user_id) DO NOTHING`,
		doctorUserID, patientUserID)
	return err
}

func (r *rosterRepoPG) Remove(ctx context.Context, doctorUserID, patientUserID uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		DELETE FROM doctor_patients
		WHERE doctor_user_id = $1 AND patient_user_id = $2`,
		doctorUserID, patientUserID)
	return err
}

func (r *rosterRepoPG) List(ctx context.Context, doctorUserID uuid.UUID) ([]*RosterEntry, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT dp.patient_user_id,
			COALESCE(mp.full_name, ''),
			COALESCE(mp.pregnancy_stage, 'none'),
			COALESCE(mp.pregnancy_week, 0),
			dp.created_at
		FROM doctor_patients dp
		LEFT JOIN mother_profiles mp ON mp.user_id = dp.patient_user_id
		WHERE dp.doctor_user_id = $1
		ORDER BY dp.created_at ASC`, doctorUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*RosterEntry
	for rows.Next() {
		var e RosterEntry
		if err := rows.Scan(&e.PatientUserID, &e.FullName, &e.PregnancyStage,
			&e.PregnancyWeek, &e.AddedAt); err != nil {
			return nil, err
		}
		items = append(items, &e)
	}
	return items, rows.Err()
}
