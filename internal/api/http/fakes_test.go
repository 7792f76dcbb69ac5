package http

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/venue-access-service/internal/domain"
	"github.com/spec-kit/venue-access-service/internal/rbac"
	"github.com/spec-kit/venue-access-service/internal/repository"
)

// memStore is an in-memory stand-in for the postgres repositories.
type memStore struct {
	mu          sync.Mutex
	accounts    map[string]domain.Account
	venues      map[string]domain.Venue
	staff       map[string]domain.StaffProfile
	invitations map[string]domain.StaffInvitation
	events      map[string]domain.Event
	incidents   []domain.Incident

	// failInvitationCreate, when set, is returned by memInvitations.Create.
	failInvitationCreate error
}

func newMemStore() *memStore {
	return &memStore{
		accounts:    map[string]domain.Account{},
		venues:      map[string]domain.Venue{},
		staff:       map[string]domain.StaffProfile{},
		invitations: map[string]domain.StaffInvitation{},
		events:      map[string]domain.Event{},
	}
}

func (s *memStore) nextID() string {
	return uuid.NewString()
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// memTransactor restores the store to its state before fn when fn fails.
type memTransactor struct{ *memStore }

func (t memTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	accounts, venues, staff := copyMap(t.accounts), copyMap(t.venues), copyMap(t.staff)
	invitations, evts := copyMap(t.invitations), copyMap(t.events)
	incidents := append([]domain.Incident(nil), t.incidents...)
	t.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.mu.Lock()
		t.accounts, t.venues, t.staff = accounts, venues, staff
		t.invitations, t.events, t.incidents = invitations, evts, incidents
		t.mu.Unlock()
		return err
	}
	return nil
}

type memAccounts struct{ *memStore }

func (r memAccounts) Create(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.nextID()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.accounts[a.ID] = *a
	return nil
}

func (r memAccounts) Update(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.accounts[a.ID] = *a
	return nil
}

func (r memAccounts) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &a, nil
}

func (r memAccounts) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, email) {
			return &a, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memVenues struct{ *memStore }

func (r memVenues) Create(_ context.Context, v *domain.Venue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v.ID = r.nextID()
	r.venues[v.ID] = *v
	return nil
}

func (r memVenues) Update(_ context.Context, v *domain.Venue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.venues[v.ID] = *v
	return nil
}

func (r memVenues) GetByID(_ context.Context, id string) (*domain.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.venues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &v, nil
}

type memStaff struct{ *memStore }

func (r memStaff) Create(_ context.Context, p *domain.StaffProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.staff[p.ID] = *p
	return nil
}

func (r memStaff) update(id string, apply func(p *domain.StaffProfile) bool) (*domain.StaffProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.staff[id]
	if !ok || !apply(&p) {
		return nil, pgx.ErrNoRows
	}
	p.UpdatedAt = time.Now()
	r.staff[id] = p
	return &p, nil
}

func (r memStaff) RecordLogin(_ context.Context, id, principalID string, at time.Time) (*domain.StaffProfile, error) {
	return r.update(id, func(p *domain.StaffProfile) bool {
		if p.PrincipalID != p.ID && p.PrincipalID != principalID {
			return false
		}
		p.PrincipalID = principalID
		p.LastLogin = &at
		return true
	})
}

func (r memStaff) SetRole(_ context.Context, id string, role rbac.Role) (*domain.StaffProfile, error) {
	return r.update(id, func(p *domain.StaffProfile) bool {
		p.Role = role
		return true
	})
}

func (r memStaff) SetActive(_ context.Context, id string, active bool) (*domain.StaffProfile, error) {
	return r.update(id, func(p *domain.StaffProfile) bool {
		p.IsActive = active
		return true
	})
}

func (r memStaff) LockVenue(_ context.Context, venueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.venues[venueID]; !ok {
		return pgx.ErrNoRows
	}
	return nil
}

func (r memStaff) GetByID(_ context.Context, id string) (*domain.StaffProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.staff[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (r memStaff) GetByVenueAndEmail(_ context.Context, venueID, email string) (*domain.StaffProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.staff {
		if p.VenueID == venueID && strings.EqualFold(p.Email, email) {
			return &p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r memStaff) List(_ context.Context, filter repository.StaffFilter) ([]domain.StaffProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.StaffProfile
	for _, p := range r.staff {
		if p.VenueID != filter.VenueID {
			continue
		}
		if filter.Role != nil && p.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && p.IsActive != *filter.Active {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memStaff) CountActiveByRole(_ context.Context, venueID string, role rbac.Role) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.staff {
		if p.VenueID == venueID && p.Role == role && p.IsActive {
			n++
		}
	}
	return n, nil
}

type memInvitations struct{ *memStore }

func (r memInvitations) Create(_ context.Context, inv *domain.StaffInvitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInvitationCreate != nil {
		return r.failInvitationCreate
	}
	inv.ID = r.nextID()
	r.invitations[inv.Token] = *inv
	return nil
}

func (r memInvitations) GetByToken(_ context.Context, token string) (*domain.StaffInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invitations[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &inv, nil
}

func (r memInvitations) MarkAccepted(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, inv := range r.invitations {
		if inv.ID == id {
			now := time.Now()
			inv.AcceptedAt = &now
			r.invitations[token] = inv
			return nil
		}
	}
	return pgx.ErrNoRows
}

type memEvents struct{ *memStore }

func (r memEvents) Create(_ context.Context, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = r.nextID()
	r.events[e.ID] = *e
	return nil
}

func (r memEvents) UpdateSchedule(_ context.Context, e *domain.Event) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.events[e.ID]
	if !ok || cur.VenueID != e.VenueID {
		return nil, pgx.ErrNoRows
	}
	cur.Title, cur.StartsAt, cur.EndsAt = e.Title, e.StartsAt, e.EndsAt
	r.events[e.ID] = cur
	return &cur, nil
}

func (r memEvents) UpdateRules(_ context.Context, venueID, id string, rules domain.EventRules) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.events[id]
	if !ok || cur.VenueID != venueID {
		return nil, pgx.ErrNoRows
	}
	cur.Rules = rules
	r.events[id] = cur
	return &cur, nil
}

func (r memEvents) GetByID(_ context.Context, venueID, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.VenueID != venueID {
		return nil, pgx.ErrNoRows
	}
	return &e, nil
}

func (r memEvents) List(_ context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Event
	for _, e := range r.events {
		if e.VenueID == filter.VenueID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memIncidents struct{ *memStore }

func (r memIncidents) Create(_ context.Context, inc *domain.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inc.ID = r.nextID()
	r.incidents = append(r.incidents, *inc)
	return nil
}

func (r memIncidents) List(_ context.Context, filter repository.IncidentFilter) ([]domain.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Incident
	for _, inc := range r.incidents {
		if inc.VenueID == filter.VenueID {
			out = append(out, inc)
		}
	}
	return out, nil
}
