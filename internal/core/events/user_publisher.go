package events

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/user-management/internal/user"
)

// UserEventPublisher implements every user lifecycle hook by publishing on the bus.
type UserEventPublisher struct {
	bus *EventBus
}

func NewUserEventPublisher(bus *EventBus) *UserEventPublisher {
	return &UserEventPublisher{bus: bus}
}

// OnRegistered publishes synchronously so a failing subscriber rolls the registration back.
func (p *UserEventPublisher) OnRegistered(ctx context.Context, u *user.User) error {
	return p.bus.PublishSync(ctx, NewUserEvent(EventTypeUserRegistered, u.ID, u.Email, u.Roles))
}

func (p *UserEventPublisher) OnLoggedIn(ctx context.Context, u *user.User, _ string) error {
	return p.bus.Publish(ctx, NewUserEvent(EventTypeUserLoggedIn, u.ID, u.Email, u.Roles))
}

func (p *UserEventPublisher) OnShown(ctx context.Context, u *user.User) error {
	return p.bus.Publish(ctx, NewUserEvent(EventTypeUserShown, u.ID, u.Email, nil))
}

func (p *UserEventPublisher) OnLoggedOut(ctx context.Context, userID int64) error {
	return p.bus.Publish(ctx, NewUserEvent(EventTypeUserLoggedOut, userID, "", nil))
}

// AuditLogHandler writes every received event to logger.
func AuditLogHandler(logger *slog.Logger) Handler {
	return func(ctx context.Context, e Event) error {
		logger.InfoContext(ctx, "user event",
			"event_id", e.EventID(),
			"event_type", e.EventType(),
			"occurred_at", e.OccurredAt(),
			"payload", e.Payload())
		return nil
	}
}

var (
	_ user.RegisteredHook = (*UserEventPublisher)(nil)
	_ user.LoggedInHook   = (*UserEventPublisher)(nil)
	_ user.ShownHook      = (*UserEventPublisher)(nil)
	_ user.LoggedOutHook  = (*UserEventPublisher)(nil)
)
