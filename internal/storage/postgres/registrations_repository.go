package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatherly-app/server/internal/domain/registrations"
)

var _ registrations.Repository = (*RegistrationRepository)(nil)

type RegistrationRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *RegistrationRepository) WithTx(ctx context.Context, fn func(registrations.Repository) error) error {
	if r.tx != nil {
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	wrapped := &RegistrationRepository{pool: r.pool, tx: tx}
	if err := fn(wrapped); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) GetEvent(ctx context.Context, eventID string) (*registrations.EventInfo, error) {
	return r.getEvent(ctx, eventID, false)
}

func (r *RegistrationRepository) GetEventForUpdate(ctx context.Context, eventID string) (*registrations.EventInfo, error) {
	return r.getEvent(ctx, eventID, true)
}

func (r *RegistrationRepository) getEvent(ctx context.Context, eventID string, forUpdate bool) (*registrations.EventInfo, error) {
	query := `
SELECT id, title, capacity, organizer_id, start_at, end_at
  FROM events
 WHERE id = $1`
	if forUpdate {
		query += `
   FOR UPDATE`
	}

	var info registrations.EventInfo
	err := r.queryer().QueryRow(ctx, query, eventID).Scan(
		&info.ID,
		&info.Title,
		&info.Capacity,
		&info.OrganizerID,
		&info.StartAt,
		&info.EndAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registrations.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &info, nil
}

func (r *RegistrationRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.queryer().QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return exists, nil
}

func (r *RegistrationRepository) Create(ctx context.Context, params registrations.CreateParams) (*registrations.Registration, error) {
	reg := registrations.Registration{
		ID:      params.ID,
		UserID:  params.UserID,
		EventID: params.EventID,
		Status:  registrations.StatusConfirmed,
	}
	err := r.queryer().QueryRow(ctx, `
INSERT INTO registrations (id, user_id, event_id, status)
VALUES ($1, $2, $3, $4)
RETURNING registered_at
`, params.ID, params.UserID, params.EventID, registrations.StatusConfirmed).Scan(&reg.RegisteredAt)
	if err != nil {
		if isUniqueViolation(err, "registrations_confirmed_once") {
			return nil, registrations.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}
	return &reg, nil
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*registrations.Registration, error) {
	reg, err := scanRegistration(r.queryer().QueryRow(ctx, `
SELECT id, user_id, event_id, status, registered_at
  FROM registrations
 WHERE id = $1
`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registrations.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

func (r *RegistrationRepository) Find(ctx context.Context, userID, eventID string) (*registrations.Registration, error) {
	reg, err := scanRegistration(r.queryer().QueryRow(ctx, `
SELECT id, user_id, event_id, status, registered_at
  FROM registrations
 WHERE user_id = $1 AND event_id = $2
 ORDER BY registered_at DESC
 LIMIT 1
`, userID, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registrations.ErrNotFound
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return reg, nil
}

func (r *RegistrationRepository) UpdateStatus(ctx context.Context, id string, status registrations.Status) error {
	tag, err := r.queryer().Exec(ctx,
		`UPDATE registrations SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update registration status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return registrations.ErrNotFound
	}
	return nil
}

func (r *RegistrationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return registrations.ErrNotFound
	}
	return nil
}

func (r *RegistrationRepository) HasConfirmed(ctx context.Context, userID, eventID string) (bool, error) {
	var exists bool
	err := r.queryer().QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1 FROM registrations
	 WHERE user_id = $1 AND event_id = $2 AND status = $3
)`, userID, eventID, registrations.StatusConfirmed).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check confirmed registration: %w", err)
	}
	return exists, nil
}

func (r *RegistrationRepository) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.queryer().QueryRow(ctx, `
SELECT count(*) FROM registrations WHERE event_id = $1 AND status = $2
`, eventID, registrations.StatusConfirmed).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count confirmed registrations: %w", err)
	}
	return count, nil
}

func (r *RegistrationRepository) ListConfirmedForEvent(ctx context.Context, eventID string) ([]registrations.Registration, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, user_id, event_id, status, registered_at
  FROM registrations
 WHERE event_id = $1 AND status = $2
 ORDER BY registered_at ASC
`, eventID, registrations.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("list event registrations: %w", err)
	}
	return collectRegistrations(rows)
}

func (r *RegistrationRepository) ListConfirmedForUser(ctx context.Context, userID string) ([]registrations.Registration, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, user_id, event_id, status, registered_at
  FROM registrations
 WHERE user_id = $1 AND status = $2
 ORDER BY registered_at ASC
`, userID, registrations.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("list user registrations: %w", err)
	}
	return collectRegistrations(rows)
}

func (r *RegistrationRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.queryer().QueryRow(ctx, `SELECT count(*) FROM registrations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return count, nil
}

func (r *RegistrationRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func scanRegistration(row pgx.Row) (*registrations.Registration, error) {
	var reg registrations.Registration
	if err := row.Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.Status, &reg.RegisteredAt); err != nil {
		return nil, err
	}
	return &reg, nil
}

func collectRegistrations(rows pgx.Rows) ([]registrations.Registration, error) {
	defer rows.Close()

	var items []registrations.Registration
	for rows.Next() {
		var reg registrations.Registration
		if err := rows.Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.Status, &reg.RegisteredAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		items = append(items, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registrations: %w", err)
	}
	return items, nil
}
