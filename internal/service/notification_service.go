package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/venue-access-service/internal/config"
	"github.com/spec-kit/venue-access-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventStaffInvited, n.handleStaffInvited)
	n.dispatcher.Subscribe(events.EventStaffJoined, n.handleWebhookOnly)
	n.dispatcher.Subscribe(events.EventStaffRoleChanged, n.handleWebhookOnly)
	n.dispatcher.Subscribe(events.EventStaffStatusChanged, n.handleWebhookOnly)
	n.dispatcher.Subscribe(events.EventVenueCreated, n.handleWebhookOnly)
	n.dispatcher.Subscribe(events.EventIncidentLogged, n.handleWebhookOnly)
}

func (n *NotificationService) handleStaffInvited(ctx context.Context, event events.Event) error {
	n.logger.Info("StaffInvited", zap.String("venue_id", event.VenueID), zap.Any("payload", event.Payload))
	if payload, ok := event.Payload.(events.StaffInvitedPayload); ok {
		n.sendInvitationEmailStub(ctx, event, payload)
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleWebhookOnly(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type), zap.String("venue_id", event.VenueID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendInvitationEmailStub(_ context.Context, event events.Event, payload events.StaffInvitedPayload) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendInvitationEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", payload.Email),
		zap.String("venue_id", event.VenueID),
		zap.String("role", string(payload.Role)),
		zap.Time("expires_at", payload.ExpiresAt))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("venue_id", event.VenueID),
		zap.String("event_type", string(event.Type)))
}
