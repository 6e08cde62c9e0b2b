package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/medicare-hms/internal/doctor"
	"github.com/hackgods/medicare-hms/internal/user"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const appointmentColumns = `a.id, a.user_id, a.doctor_id, to_char(a.date, 'YYYY-MM-DD'), to_char(a.time, 'HH24:MI'),
	a.reason, a.status, a.created_at, a.updated_at`

const detailQuery = `
	SELECT ` + appointmentColumns + `,
	       u.id, u.email, u.first_name, u.last_name, u.role, u.created_at,
	       d.id, d.first_name, d.last_name, d.email, d.specialty, d.phone, d.experience, d.is_active, d.created_at, d.updated_at
	FROM appointments a
	JOIN users u ON u.id = a.user_id
	JOIN doctors d ON d.id = a.doctor_id`

// Helpers

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.DoctorID,
		&a.Date,
		&a.Time,
		&a.Reason,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

func scanDetail(row pgx.Row) (*AppointmentDetail, error) {
	var (
		det AppointmentDetail
		u   user.User
		d   doctor.Doctor
	)

	err := row.Scan(
		&det.ID, &det.UserID, &det.DoctorID, &det.Date, &det.Time,
		&det.Reason, &det.Status, &det.CreatedAt, &det.UpdatedAt,
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.CreatedAt,
		&d.ID, &d.FirstName, &d.LastName, &d.Email, &d.Specialty, &d.Phone, &d.Experience, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	det.User = &u
	det.Doctor = &d
	return &det, nil
}

// Interface methods

func (r *PgRepository) CreateAppointment(ctx context.Context, a *Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments AS a (id, user_id, doctor_id, date, time, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4::date, $5::time, $6, $7, now(), now())
		RETURNING `+appointmentColumns,
		a.ID, a.UserID, a.DoctorID, a.Date, a.Time, a.Reason, string(a.Status))

	created, err := scanAppointment(row)
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}
	return created, nil
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments a
		WHERE a.id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) GetAppointmentDetail(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error) {
	row := r.pool.QueryRow(ctx, detailQuery+` WHERE a.id = $1`, id)
	return scanDetail(row)
}

func (r *PgRepository) ListAppointments(ctx context.Context, f ListFilter) ([]AppointmentDetail, error) {
	var status *string
	if f.Status != nil {
		s := string(*f.Status)
		status = &s
	}

	rows, err := r.pool.Query(ctx, detailQuery+`
		WHERE ($1::uuid IS NULL OR a.user_id = $1)
		  AND ($2::text IS NULL OR a.status = $2)
		ORDER BY a.created_at DESC, a.id
	`, f.UserID, status)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	result := []AppointmentDetail{}
	for rows.Next() {
		det, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *det)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments AS a
		SET status = $2,
		    updated_at = now()
		WHERE a.id = $1
		  AND a.status = $3
		RETURNING `+appointmentColumns,
		id, string(to), string(from))

	return scanAppointment(row)
}

func (r *PgRepository) CountAppointments(ctx context.Context, status *Status) (int, error) {
	var s *string
	if status != nil {
		v := string(*status)
		s = &v
	}

	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM appointments WHERE ($1::text IS NULL OR status = $1)
	`, s).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	return n, nil
}
