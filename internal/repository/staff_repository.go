package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/venue-access-service/internal/domain"
	"github.com/spec-kit/venue-access-service/internal/rbac"
)

// StaffRepository handles persistence for staff profiles. Profiles are never
// deleted; deactivation flips is_active. Each mutation writes only the columns
// it owns and returns the stored row.
type StaffRepository interface {
	Create(ctx context.Context, profile *domain.StaffProfile) error
	// RecordLogin binds principalID and stamps last_login. It returns
	// pgx.ErrNoRows when the profile is missing or bound to another principal.
	RecordLogin(ctx context.Context, id, principalID string, at time.Time) (*domain.StaffProfile, error)
	SetRole(ctx context.Context, id string, role rbac.Role) (*domain.StaffProfile, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.StaffProfile, error)
	GetByID(ctx context.Context, id string) (*domain.StaffProfile, error)
	GetByVenueAndEmail(ctx context.Context, venueID, email string) (*domain.StaffProfile, error)
	List(ctx context.Context, filter StaffFilter) ([]domain.StaffProfile, error)
	CountActiveByRole(ctx context.Context, venueID string, role rbac.Role) (int, error)
	// LockVenue serializes staff changes of a venue until the surrounding
	// transaction ends.
	LockVenue(ctx context.Context, venueID string) error
}

// StaffFilter defines query params for staff listing. VenueID is mandatory.
type StaffFilter struct {
	VenueID string
	Role    *rbac.Role
	Active  *bool
	Limit   int
	Offset  int
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, venue_id, principal_id, email, display_name, role, is_active, invited_at, last_login, created_at, updated_at`

func (r *staffRepository) Create(ctx context.Context, profile *domain.StaffProfile) error {
	const query = `
        INSERT INTO staff_profiles (id, venue_id, principal_id, email, display_name, role, is_active, invited_at, last_login)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING created_at, updated_at`

	return conn(ctx, r.pool).QueryRow(ctx, query,
		profile.ID,
		profile.VenueID,
		profile.PrincipalID,
		profile.Email,
		profile.DisplayName,
		profile.Role,
		profile.IsActive,
		profile.InvitedAt,
		profile.LastLogin,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}

func (r *staffRepository) RecordLogin(ctx context.Context, id, principalID string, at time.Time) (*domain.StaffProfile, error) {
	query := `
        UPDATE staff_profiles
        SET principal_id=$2, last_login=$3, updated_at=NOW()
        WHERE id=$1 AND (principal_id=id::text OR principal_id=$2)
        RETURNING ` + staffColumns
	return scanStaff(conn(ctx, r.pool).QueryRow(ctx, query, id, principalID, at))
}

func (r *staffRepository) SetRole(ctx context.Context, id string, role rbac.Role) (*domain.StaffProfile, error) {
	query := `UPDATE staff_profiles SET role=$2, updated_at=NOW() WHERE id=$1 RETURNING ` + staffColumns
	return scanStaff(conn(ctx, r.pool).QueryRow(ctx, query, id, role))
}

func (r *staffRepository) SetActive(ctx context.Context, id string, active bool) (*domain.StaffProfile, error) {
	query := `UPDATE staff_profiles SET is_active=$2, updated_at=NOW() WHERE id=$1 RETURNING ` + staffColumns
	return scanStaff(conn(ctx, r.pool).QueryRow(ctx, query, id, active))
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffProfile, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_profiles WHERE id=$1`
	return scanStaff(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *staffRepository) GetByVenueAndEmail(ctx context.Context, venueID, email string) (*domain.StaffProfile, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_profiles WHERE venue_id=$1 AND lower(email)=lower($2)`
	return scanStaff(conn(ctx, r.pool).QueryRow(ctx, query, venueID, email))
}

func (r *staffRepository) List(ctx context.Context, filter StaffFilter) ([]domain.StaffProfile, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_profiles`
	args := []any{filter.VenueID}
	clauses := []string{"venue_id=$1"}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("is_active=$%d", len(args)))
	}
	query += " WHERE " + strings.Join(clauses, " AND ")

	query += " ORDER BY created_at DESC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffProfile
	for rows.Next() {
		profile, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *profile)
	}
	return result, rows.Err()
}

func (r *staffRepository) CountActiveByRole(ctx context.Context, venueID string, role rbac.Role) (int, error) {
	const query = `SELECT COUNT(*) FROM staff_profiles WHERE venue_id=$1 AND role=$2 AND is_active`
	var count int
	if err := conn(ctx, r.pool).QueryRow(ctx, query, venueID, role).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *staffRepository) LockVenue(ctx context.Context, venueID string) error {
	var id string
	return conn(ctx, r.pool).QueryRow(ctx, `SELECT id FROM venues WHERE id=$1 FOR UPDATE`, venueID).Scan(&id)
}

func scanStaff(row pgx.Row) (*domain.StaffProfile, error) {
	var profile domain.StaffProfile
	if err := row.Scan(
		&profile.ID,
		&profile.VenueID,
		&profile.PrincipalID,
		&profile.Email,
		&profile.DisplayName,
		&profile.Role,
		&profile.IsActive,
		&profile.InvitedAt,
		&profile.LastLogin,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}
