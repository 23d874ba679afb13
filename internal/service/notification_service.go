package service

import (
	"context"
	"fmt"
	"html"

	"go.uber.org/zap"

	"github.com/craftelio/storefront/internal/events"
	"github.com/craftelio/storefront/internal/worker"
)

// MailQueue accepts messages for background delivery.
type MailQueue interface {
	Enqueue(job worker.MailJob) error
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	mail       MailQueue
	appName    string
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mail MailQueue, appName string, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		mail:       mail,
		appName:    appName,
		logger:     logger.Named("notification"),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventProductSaved, n.logEvent)
	n.dispatcher.Subscribe(events.EventProductDeleted, n.logEvent)
}

func (n *NotificationService) handleUserRegistered(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	if n.mail == nil {
		return nil
	}
	return n.mail.Enqueue(worker.MailJob{
		To:      payload.Email,
		Subject: fmt.Sprintf("Welcome to %s", n.appName),
		Body: fmt.Sprintf("<p>Hi %s,</p><p>Your %s account is ready.</p>",
			html.EscapeString(payload.Name), html.EscapeString(n.appName)),
	})
}

func (n *NotificationService) logEvent(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type), zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return nil
}
