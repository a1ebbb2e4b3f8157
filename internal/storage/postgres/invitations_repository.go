package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatherly-app/server/internal/domain/invitations"
)

var _ invitations.Repository = (*InvitationRepository)(nil)

type InvitationRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *InvitationRepository) WithTx(ctx context.Context, fn func(invitations.Repository) error) error {
	if r.tx != nil {
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	wrapped := &InvitationRepository{pool: r.pool, tx: tx}
	if err := fn(wrapped); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *InvitationRepository) GetEvent(ctx context.Context, eventID string) (*invitations.EventInfo, error) {
	var info invitations.EventInfo
	err := r.queryer().QueryRow(ctx, `
SELECT id, title, capacity, organizer_id, start_at, end_at
  FROM events
 WHERE id = $1
`, eventID).Scan(
		&info.ID,
		&info.Title,
		&info.Capacity,
		&info.OrganizerID,
		&info.StartAt,
		&info.EndAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invitations.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &info, nil
}

func (r *InvitationRepository) FindUserByEmail(ctx context.Context, email string) (*string, error) {
	var id string
	err := r.queryer().QueryRow(ctx,
		`SELECT id FROM users WHERE lower(email) = lower($1)`, email,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &id, nil
}

func (r *InvitationRepository) Create(ctx context.Context, params invitations.CreateParams) (*invitations.Invitation, error) {
	inv := invitations.Invitation{
		ID:        params.ID,
		EventID:   params.EventID,
		Email:     params.Email,
		Status:    invitations.StatusPending,
		SentAt:    params.SentAt,
		UserID:    params.UserID,
		InvitedBy: params.InvitedBy,
	}
	_, err := r.queryer().Exec(ctx, `
INSERT INTO invitations (id, event_id, email, status, sent_at, user_id, invited_by)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, params.ID, params.EventID, params.Email, invitations.StatusPending, params.SentAt, params.UserID, params.InvitedBy)
	if err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}
	return &inv, nil
}

func (r *InvitationRepository) GetByID(ctx context.Context, id string) (*invitations.Invitation, error) {
	inv, err := scanInvitation(r.queryer().QueryRow(ctx, `
SELECT id, event_id, email, status, sent_at, responded_at, user_id, invited_by
  FROM invitations
 WHERE id = $1
`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invitations.ErrNotFound
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

func (r *InvitationRepository) FindActive(ctx context.Context, eventID, email string) (*invitations.Invitation, error) {
	inv, err := scanInvitation(r.queryer().QueryRow(ctx, `
SELECT id, event_id, email, status, sent_at, responded_at, user_id, invited_by
  FROM invitations
 WHERE event_id = $1 AND lower(email) = lower($2) AND status <> $3
 LIMIT 1
`, eventID, email, invitations.StatusDeclined))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invitations.ErrNotFound
		}
		return nil, fmt.Errorf("find active invitation: %w", err)
	}
	return inv, nil
}

func (r *InvitationRepository) SetResponse(ctx context.Context, id string, status invitations.Status, respondedAt time.Time) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE invitations SET status = $2, responded_at = $3 WHERE id = $1
`, id, status, respondedAt)
	if err != nil {
		return fmt.Errorf("set invitation response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return invitations.ErrNotFound
	}
	return nil
}

func (r *InvitationRepository) UpdateSentAt(ctx context.Context, id string, sentAt time.Time) error {
	tag, err := r.queryer().Exec(ctx,
		`UPDATE invitations SET sent_at = $2 WHERE id = $1`, id, sentAt)
	if err != nil {
		return fmt.Errorf("update invitation sent_at: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return invitations.ErrNotFound
	}
	return nil
}

func (r *InvitationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return invitations.ErrNotFound
	}
	return nil
}

func (r *InvitationRepository) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.queryer().Exec(ctx, `
UPDATE invitations
   SET status = $1
 WHERE status = $2 AND sent_at < $3
`, invitations.StatusExpired, invitations.StatusPending, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire pending invitations: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *InvitationRepository) CountByStatus(ctx context.Context, eventID string) (map[invitations.Status]int64, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT status, count(*) FROM invitations WHERE event_id = $1 GROUP BY status
`, eventID)
	if err != nil {
		return nil, fmt.Errorf("count invitations by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[invitations.Status]int64)
	for rows.Next() {
		var status invitations.Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan invitation count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invitation counts: %w", err)
	}
	return counts, nil
}

func (r *InvitationRepository) ListForEvent(ctx context.Context, eventID string) ([]invitations.Invitation, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, event_id, email, status, sent_at, responded_at, user_id, invited_by
  FROM invitations
 WHERE event_id = $1
 ORDER BY sent_at DESC
`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event invitations: %w", err)
	}
	return collectInvitations(rows)
}

func (r *InvitationRepository) ListByEmail(ctx context.Context, email string) ([]invitations.Invitation, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, event_id, email, status, sent_at, responded_at, user_id, invited_by
  FROM invitations
 WHERE lower(email) = lower($1)
 ORDER BY sent_at DESC
`, email)
	if err != nil {
		return nil, fmt.Errorf("list invitations by email: %w", err)
	}
	return collectInvitations(rows)
}

func (r *InvitationRepository) ListPendingForEvent(ctx context.Context, eventID string) ([]invitations.Invitation, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, event_id, email, status, sent_at, responded_at, user_id, invited_by
  FROM invitations
 WHERE event_id = $1 AND status = $2
 ORDER BY sent_at DESC
`, eventID, invitations.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending invitations: %w", err)
	}
	return collectInvitations(rows)
}

func (r *InvitationRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func scanInvitation(row pgx.Row) (*invitations.Invitation, error) {
	var inv invitations.Invitation
	if err := row.Scan(
		&inv.ID,
		&inv.EventID,
		&inv.Email,
		&inv.Status,
		&inv.SentAt,
		&inv.RespondedAt,
		&inv.UserID,
		&inv.InvitedBy,
	); err != nil {
		return nil, err
	}
	return &inv, nil
}

func collectInvitations(rows pgx.Rows) ([]invitations.Invitation, error) {
	defer rows.Close()

	var items []invitations.Invitation
	for rows.Next() {
		var inv invitations.Invitation
		if err := rows.Scan(
			&inv.ID,
			&inv.EventID,
			&inv.Email,
			&inv.Status,
			&inv.SentAt,
			&inv.RespondedAt,
			&inv.UserID,
			&inv.InvitedBy,
		); err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		items = append(items, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invitations: %w", err)
	}
	return items, nil
}
