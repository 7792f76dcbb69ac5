package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/venue-access-service/internal/domain"
)

// EventRepository persists venue events.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	// UpdateSchedule writes title and times only.
	UpdateSchedule(ctx context.Context, event *domain.Event) (*domain.Event, error)
	UpdateRules(ctx context.Context, venueID, id string, rules domain.EventRules) (*domain.Event, error)
	GetByID(ctx context.Context, venueID, id string) (*domain.Event, error)
	List(ctx context.Context, filter EventFilter) ([]domain.Event, error)
}

// EventFilter narrows event listings to one venue and an optional window.
type EventFilter struct {
	VenueID string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates the repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

const eventColumns = `id, venue_id, title, starts_at, ends_at, min_age, dress_code, capacity, entry_fee_cents, created_by, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (venue_id, title, starts_at, ends_at, min_age, dress_code, capacity, entry_fee_cents, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		event.VenueID,
		event.Title,
		event.StartsAt,
		event.EndsAt,
		event.Rules.MinAge,
		event.Rules.DressCode,
		event.Rules.Capacity,
		event.Rules.EntryFee,
		event.CreatedBy,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) UpdateSchedule(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	query := `
        UPDATE events
        SET title=$1, starts_at=$2, ends_at=$3, updated_at=NOW()
        WHERE id=$4 AND venue_id=$5
        RETURNING ` + eventColumns
	return scanEvent(conn(ctx, r.pool).QueryRow(ctx, query,
		event.Title,
		event.StartsAt,
		event.EndsAt,
		event.ID,
		event.VenueID,
	))
}

func (r *eventRepository) UpdateRules(ctx context.Context, venueID, id string, rules domain.EventRules) (*domain.Event, error) {
	query := `
        UPDATE events
        SET min_age=$1, dress_code=$2, capacity=$3, entry_fee_cents=$4, updated_at=NOW()
        WHERE id=$5 AND venue_id=$6
        RETURNING ` + eventColumns
	return scanEvent(conn(ctx, r.pool).QueryRow(ctx, query,
		rules.MinAge,
		rules.DressCode,
		rules.Capacity,
		rules.EntryFee,
		id,
		venueID,
	))
}

func (r *eventRepository) GetByID(ctx context.Context, venueID, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id=$1 AND venue_id=$2`
	return scanEvent(conn(ctx, r.pool).QueryRow(ctx, query, id, venueID))
}

func (r *eventRepository) List(ctx context.Context, filter EventFilter) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE venue_id=$1`
	args := []any{filter.VenueID}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND ends_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND starts_at < $%d", len(args))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY starts_at ASC LIMIT %d OFFSET %d", limit, max(filter.Offset, 0))

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *event)
	}
	return result, rows.Err()
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var event domain.Event
	if err := row.Scan(
		&event.ID,
		&event.VenueID,
		&event.Title,
		&event.StartsAt,
		&event.EndsAt,
		&event.Rules.MinAge,
		&event.Rules.DressCode,
		&event.Rules.Capacity,
		&event.Rules.EntryFee,
		&event.CreatedBy,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &event, nil
}
