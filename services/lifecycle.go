package services

import (
	"context"

	"github.com/rs/zerolog"
)

// HostSubscriber is the surface the host forum drives, either in-process or
// through the event bus consumer.
type HostSubscriber interface {
	UserAuthenticated(userID uint)
	UserLoggedOut(userID uint)
	PushNotification(userID uint, payload NotificationPayload)
}

// LifecycleAdapter translates host authentication/notification events into
// registry and dispatcher calls.
type LifecycleAdapter struct {
	registry   *RegistryService
	dispatcher *DispatchService
	logger     zerolog.Logger
}

var _ HostSubscriber = (*LifecycleAdapter)(nil)

func NewLifecycleAdapter(reg *RegistryService, disp *DispatchService, logger zerolog.Logger) *LifecycleAdapter {
	return &LifecycleAdapter{registry: reg, dispatcher: disp, logger: logger}
}

// UserAuthenticated takes no registry action: registration is initiated by
// the device, login is only the signal a client may retry on.
func (a *LifecycleAdapter) UserAuthenticated(userID uint) {
	a.logger.Debug().Uint("user_id", userID).Msg("user authenticated")
}

// UserLoggedOut bulk-disables the user's devices, best effort.
func (a *LifecycleAdapter) UserLoggedOut(userID uint) {
	if err := a.registry.DisableAllForUser(context.Background(), userID); err != nil {
		a.logger.Error().Err(err).Uint("user_id", userID).
			Msg("failed to disable subscriptions on logout")
	}
}

func (a *LifecycleAdapter) PushNotification(userID uint, payload NotificationPayload) {
	a.dispatcher.Dispatch(userID, payload)
}
