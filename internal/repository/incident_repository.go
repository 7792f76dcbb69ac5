package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/venue-access-service/internal/domain"
)

// IncidentRepository persists the venue operations register.
type IncidentRepository interface {
	Create(ctx context.Context, incident *domain.Incident) error
	List(ctx context.Context, filter IncidentFilter) ([]domain.Incident, error)
}

// IncidentFilter narrows incident listings to one venue.
type IncidentFilter struct {
	VenueID  string
	EventID  *string
	Severity *domain.IncidentSeverity
	Limit    int
	Offset   int
}

type incidentRepository struct {
	pool *pgxpool.Pool
}

// NewIncidentRepository instantiates the repository.
func NewIncidentRepository(pool *pgxpool.Pool) IncidentRepository {
	return &incidentRepository{pool: pool}
}

func (r *incidentRepository) Create(ctx context.Context, incident *domain.Incident) error {
	const query = `
        INSERT INTO incidents (venue_id, event_id, reported_by, severity, description, occurred_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		incident.VenueID,
		incident.EventID,
		incident.ReportedBy,
		incident.Severity,
		incident.Description,
		incident.OccurredAt,
	).Scan(&incident.ID, &incident.CreatedAt)
}

func (r *incidentRepository) List(ctx context.Context, filter IncidentFilter) ([]domain.Incident, error) {
	query := `
        SELECT id, venue_id, event_id, reported_by, severity, description, occurred_at, created_at
        FROM incidents WHERE venue_id=$1`
	args := []any{filter.VenueID}
	if filter.EventID != nil {
		args = append(args, *filter.EventID)
		query += fmt.Sprintf(" AND event_id=$%d", len(args))
	}
	if filter.Severity != nil {
		args = append(args, *filter.Severity)
		query += fmt.Sprintf(" AND severity=$%d", len(args))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY occurred_at DESC LIMIT %d OFFSET %d", limit, max(filter.Offset, 0))

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Incident
	for rows.Next() {
		var incident domain.Incident
		if err := rows.Scan(
			&incident.ID,
			&incident.VenueID,
			&incident.EventID,
			&incident.ReportedBy,
			&incident.Severity,
			&incident.Description,
			&incident.OccurredAt,
			&incident.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, incident)
	}
	return result, rows.Err()
}
