package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/venue-access-service/internal/domain"
)

// InvitationRepository manages staff invitation token persistence.
type InvitationRepository interface {
	Create(ctx context.Context, invitation *domain.StaffInvitation) error
	GetByToken(ctx context.Context, token string) (*domain.StaffInvitation, error)
	MarkAccepted(ctx context.Context, id string) error
}

type invitationRepository struct {
	pool *pgxpool.Pool
}

// NewInvitationRepository constructs repository.
func NewInvitationRepository(pool *pgxpool.Pool) InvitationRepository {
	return &invitationRepository{pool: pool}
}

func (r *invitationRepository) Create(ctx context.Context, invitation *domain.StaffInvitation) error {
	const query = `
        INSERT INTO staff_invitations (profile_id, venue_id, email, token, expires_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		invitation.ProfileID,
		invitation.VenueID,
		invitation.Email,
		invitation.Token,
		invitation.ExpiresAt,
	).Scan(&invitation.ID, &invitation.CreatedAt)
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.StaffInvitation, error) {
	const query = `
        SELECT id, profile_id, venue_id, email, token, expires_at, accepted_at, created_at
        FROM staff_invitations WHERE token=$1`
	var inv domain.StaffInvitation
	if err := conn(ctx, r.pool).QueryRow(ctx, query, token).Scan(
		&inv.ID,
		&inv.ProfileID,
		&inv.VenueID,
		&inv.Email,
		&inv.Token,
		&inv.ExpiresAt,
		&inv.AcceptedAt,
		&inv.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invitationRepository) MarkAccepted(ctx context.Context, id string) error {
	const query = `
        UPDATE staff_invitations SET accepted_at=NOW()
        WHERE id=$1 AND accepted_at IS NULL`
	_, err := conn(ctx, r.pool).Exec(ctx, query, id)
	return err
}
