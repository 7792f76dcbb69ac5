package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/venue-access-service/internal/domain"
)

// VenueRepository persists venues.
type VenueRepository interface {
	Create(ctx context.Context, venue *domain.Venue) error
	Update(ctx context.Context, venue *domain.Venue) error
	GetByID(ctx context.Context, id string) (*domain.Venue, error)
}

type venueRepository struct {
	pool *pgxpool.Pool
}

// NewVenueRepository instantiates the repository.
func NewVenueRepository(pool *pgxpool.Pool) VenueRepository {
	return &venueRepository{pool: pool}
}

func (r *venueRepository) Create(ctx context.Context, venue *domain.Venue) error {
	const query = `
        INSERT INTO venues (name, timezone, capacity)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query, venue.Name, venue.Timezone, venue.Capacity).
		Scan(&venue.ID, &venue.CreatedAt, &venue.UpdatedAt)
}

func (r *venueRepository) Update(ctx context.Context, venue *domain.Venue) error {
	const query = `
        UPDATE venues SET name=$1, timezone=$2, capacity=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query, venue.Name, venue.Timezone, venue.Capacity, venue.ID).
		Scan(&venue.UpdatedAt)
}

func (r *venueRepository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	const query = `
        SELECT id, name, timezone, capacity, created_at, updated_at
        FROM venues WHERE id=$1`
	var venue domain.Venue
	if err := conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&venue.ID,
		&venue.Name,
		&venue.Timezone,
		&venue.Capacity,
		&venue.CreatedAt,
		&venue.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &venue, nil
}
