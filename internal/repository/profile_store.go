package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/venue-access-service/internal/domain"
)

const (
	profileKeyPrefix     = "staff_profile:"
	profileVersionPrefix = "staff_profile_version:"
)

// ProfileStore resolves the staff profile snapshot an authorization decision runs against.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*domain.StaffProfile, error)
	Invalidate(ctx context.Context, id string) error
}

type cachedProfileStore struct {
	staff  StaffRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewProfileStore returns a read-through cache over staff. A nil client or a
// zero ttl disables caching. Redis failures fall back to the repository.
func NewProfileStore(staff StaffRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) ProfileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedProfileStore{staff: staff, client: client, ttl: ttl, logger: logger}
}

func (s *cachedProfileStore) enabled() bool {
	return s.client != nil && s.ttl > 0
}

func (s *cachedProfileStore) GetProfile(ctx context.Context, id string) (*domain.StaffProfile, error) {
	if !s.enabled() {
		return s.staff.GetByID(ctx, id)
	}

	raw, err := s.client.Get(ctx, profileKeyPrefix+id).Bytes()
	switch {
	case err == nil:
		var profile domain.StaffProfile
		if jsonErr := json.Unmarshal(raw, &profile); jsonErr == nil {
			return &profile, nil
		}
		s.logger.Warn("discarding corrupt profile cache entry", zap.String("profile_id", id))
	case !errors.Is(err, redis.Nil):
		s.logger.Warn("profile cache read failed", zap.String("profile_id", id), zap.Error(err))
	}
	return s.load(ctx, id)
}

// load reads the row and caches it under WATCH on the profile's version key.
// An Invalidate that lands between the read and the write bumps the version,
// the transaction aborts, and the possibly stale row is not cached.
func (s *cachedProfileStore) load(ctx context.Context, id string) (*domain.StaffProfile, error) {
	var (
		profile *domain.StaffProfile
		loadErr error
	)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		profile, loadErr = s.staff.GetByID(ctx, id)
		if loadErr != nil {
			return loadErr
		}
		raw, err := json.Marshal(profile)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, profileKeyPrefix+id, raw, s.ttl)
			return nil
		})
		return err
	}, profileVersionPrefix+id)

	switch {
	case loadErr != nil:
		return nil, loadErr
	case err == nil:
	case errors.Is(err, redis.TxFailedErr):
		s.logger.Debug("profile changed while caching; skipped", zap.String("profile_id", id))
	case profile == nil:
		s.logger.Warn("profile cache unavailable", zap.String("profile_id", id), zap.Error(err))
		return s.staff.GetByID(ctx, id)
	default:
		s.logger.Warn("profile cache write failed", zap.String("profile_id", id), zap.Error(err))
	}
	return profile, nil
}

func (s *cachedProfileStore) Invalidate(ctx context.Context, id string) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, profileVersionPrefix+id)
		pipe.Del(ctx, profileKeyPrefix+id)
		return nil
	})
	return err
}
