package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/venue-access-service/internal/domain"
	"github.com/spec-kit/venue-access-service/internal/events"
	"github.com/spec-kit/venue-access-service/internal/repository"
)

var errProfileClaimed = errors.New("staff profile bound to another account")

// directTx runs fn without a transaction. Used when no Transactor is wired.
type directTx struct{}

func (directTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func transactorOrDirect(tx repository.Transactor) repository.Transactor {
	if tx == nil {
		return directTx{}
	}
	return tx
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_ = dispatcher.Publish(ctx, event)
}

func staffActor(profile *domain.StaffProfile) events.Actor {
	id := profile.ID
	return events.Actor{AccountID: profile.PrincipalID, ProfileID: &id}
}

func accountActor(accountID string) events.Actor {
	return events.Actor{AccountID: accountID}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
