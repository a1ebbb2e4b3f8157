package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatherly-app/server/internal/domain/events"
)

var _ events.Repository = (*EventRepository)(nil)

type EventRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*events.Event, error) {
	var event events.Event
	err := r.queryer().QueryRow(ctx, `
SELECT id, title, description, capacity, start_at, end_at, organizer_id, created_at
  FROM events
 WHERE id = $1
`, id).Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Capacity,
		&event.StartAt,
		&event.EndAt,
		&event.OrganizerID,
		&event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}

func (r *EventRepository) ListUpcoming(ctx context.Context, limit int) ([]events.Event, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, title, description, capacity, start_at, end_at, organizer_id, created_at
  FROM events
 WHERE start_at >= now()
 ORDER BY start_at ASC
 LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	defer rows.Close()

	var items []events.Event
	for rows.Next() {
		var event events.Event
		if err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Capacity,
			&event.StartAt,
			&event.EndAt,
			&event.OrganizerID,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return items, nil
}

func (r *EventRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}
