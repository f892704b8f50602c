package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reelinbookings/backend/internal/domain"
)

// PostgresRepository implements the appointment, staff, and
// subscription stores on PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateAppointment inserts a confirmed appointment.
func (r *PostgresRepository) CreateAppointment(ctx context.Context, params domain.CreateAppointmentParams) (*domain.Appointment, error) {
	query := `
		INSERT INTO appointments (client_name, staff_id, date, time_slot, status)
		VALUES ($1, $2, $3, $4, 'confirmed')
		RETURNING id, client_name, staff_id, date, time_slot, status, created_at, updated_at
	`
	row := r.db.QueryRow(ctx, query,
		params.ClientName,
		params.StaffID,
		params.Date,
		params.TimeSlot,
	)
	return scanAppointment(row)
}

// GetAppointmentByID retrieves one appointment.
func (r *PostgresRepository) GetAppointmentByID(ctx context.Context, id string) (*domain.Appointment, error) {
	query := `
		SELECT id, client_name, staff_id, date, time_slot, status, created_at, updated_at
		FROM appointments WHERE id = $1
	`
	row := r.db.QueryRow(ctx, query, id)
	return scanAppointment(row)
}

// ListAppointments returns the full schedule, newest first.
func (r *PostgresRepository) ListAppointments(ctx context.Context) ([]*domain.Appointment, error) {
	query := `
		SELECT id, client_name, staff_id, date, time_slot, status, created_at, updated_at
		FROM appointments
		ORDER BY date, time_slot
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []*domain.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}
	return appts, rows.Err()
}

// UpdateAppointmentSchedule moves an appointment to a new slot and/or
// staff member.
func (r *PostgresRepository) UpdateAppointmentSchedule(ctx context.Context, id string, params domain.UpdateAppointmentParams) (*domain.Appointment, error) {
	query := `
		UPDATE appointments
		SET date = $2, time_slot = $3, staff_id = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING id, client_name, staff_id, date, time_slot, status, created_at, updated_at
	`
	row := r.db.QueryRow(ctx, query, id, params.Date, params.TimeSlot, params.StaffID)
	return scanAppointment(row)
}

// CancelAppointment flips the status; the row is never deleted.
func (r *PostgresRepository) CancelAppointment(ctx context.Context, id string) (*domain.Appointment, error) {
	query := `
		UPDATE appointments
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1
		RETURNING id, client_name, staff_id, date, time_slot, status, created_at, updated_at
	`
	row := r.db.QueryRow(ctx, query, id)
	return scanAppointment(row)
}

// GetStaffByID retrieves a staff member with their optional account linkage.
func (r *PostgresRepository) GetStaffByID(ctx context.Context, id string) (*domain.Staff, error) {
	query := `SELECT id, name, COALESCE(user_id::text, '') FROM staff WHERE id = $1`
	row := r.db.QueryRow(ctx, query, id)
	return scanStaff(row)
}

// ListStaff returns the roster.
func (r *PostgresRepository) ListStaff(ctx context.Context) ([]*domain.Staff, error) {
	query := `SELECT id, name, COALESCE(user_id::text, '') FROM staff ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []*domain.Staff
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		roster = append(roster, st)
	}
	return roster, rows.Err()
}

// CreateSubscription registers a device subscription. Re-registering
// the same endpoint just refreshes its keys.
func (r *PostgresRepository) CreateSubscription(ctx context.Context, params domain.CreateSubscriptionParams) (*domain.Subscription, error) {
	query := `
		INSERT INTO push_subscriptions (user_id, endpoint, p256dh, auth)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (endpoint) DO UPDATE SET user_id = $1, p256dh = $3, auth = $4
		RETURNING id, user_id, endpoint, p256dh, auth, created_at
	`
	row := r.db.QueryRow(ctx, query, params.UserID, params.Endpoint, params.P256dh, params.Auth)

	var sub domain.Subscription
	err := row.Scan(&sub.ID, &sub.UserID, &sub.Endpoint, &sub.P256dh, &sub.Auth, &sub.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetSubscriptionsByUser returns all device subscriptions filed under
// a recipient id. No rows is a normal result, not an error.
func (r *PostgresRepository) GetSubscriptionsByUser(ctx context.Context, userID string) ([]*domain.Subscription, error) {
	query := `
		SELECT id, user_id, endpoint, p256dh, auth, created_at
		FROM push_subscriptions WHERE user_id = $1
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Endpoint, &sub.P256dh, &sub.Auth, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}

// DeleteSubscription removes a dead subscription. Deleting a row that
// is already gone is a safe no-op.
func (r *PostgresRepository) DeleteSubscription(ctx context.Context, id string) error {
	query := `DELETE FROM push_subscriptions WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var appt domain.Appointment
	err := row.Scan(
		&appt.ID,
		&appt.ClientName,
		&appt.StaffID,
		&appt.Date,
		&appt.TimeSlot,
		&appt.Status,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &appt, nil
}

func scanStaff(row pgx.Row) (*domain.Staff, error) {
	var st domain.Staff
	err := row.Scan(&st.ID, &st.Name, &st.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStaffNotFound
		}
		return nil, err
	}
	return &st, nil
}

// CleanupOldAppointments removes cancelled appointments that left the
// retention window.
func (r *PostgresRepository) CleanupOldAppointments(ctx context.Context) error {
	query := `DELETE FROM appointments WHERE status = 'cancelled' AND updated_at < NOW() - INTERVAL '90 days'`
	_, err := r.db.Exec(ctx, query)
	return err
}

// StartCleanupWorker starts a background worker that periodically
// purges long-cancelled appointments.
func (r *PostgresRepository) StartCleanupWorker(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = r.CleanupOldAppointments(ctx)
			}
		}
	}()
}
