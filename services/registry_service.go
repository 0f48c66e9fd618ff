package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"pushbridge/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// RegistryService owns the device-token → endpoint mapping and the
// reconciliation done on every registration attempt.
type RegistryService struct {
	db      *gorm.DB
	gateway PushGateway
	logger  zerolog.Logger
}

func NewRegistryService(db *gorm.DB, gw PushGateway, logger zerolog.Logger) *RegistryService {
	return &RegistryService{db: db, gateway: gw, logger: logger}
}

// Register creates or reconciles the subscription for a device token.
//
// A token we have seen before is checked against the gateway: if its endpoint
// is still enabled the existing row is adopted (ownership moves to the caller,
// a disabled row flips back to enabled) without a second create call. If the
// gateway reports it disabled, or the query fails, the stale endpoint and row
// are torn down and registration proceeds as if the token were new.
func (s *RegistryService) Register(ctx context.Context, userID uint, token, platform, appName string) (*models.Subscription, error) {
	platform = strings.ToLower(platform)
	if !models.ValidPlatform(platform) {
		return nil, ErrBadPlatform
	}

	var existing models.Subscription
	err := s.db.WithContext(ctx).Where("device_token = ?", token).First(&existing).Error
	switch {
	case err == nil:
		sub, adopted, rerr := s.reconcile(ctx, &existing, userID)
		if rerr != nil {
			return nil, rerr
		}
		if adopted {
			return sub, nil
		}
		// stale endpoint torn down, register from scratch
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	arn, err := s.gateway.CreateEndpoint(ctx, token, platform, appName)
	if err != nil {
		s.logger.Error().Err(err).Uint("user_id", userID).Str("platform", platform).
			Msg("endpoint creation failed")
		return nil, &GatewayError{Op: "create endpoint", Err: err}
	}
	if arn == "" {
		return nil, &GatewayError{Op: "create endpoint", Err: errors.New("no endpoint handle returned")}
	}

	sub := &models.Subscription{
		UserID:          userID,
		DeviceToken:     token,
		Platform:        platform,
		EndpointARN:     arn,
		Status:          models.StatusEnabled,
		StatusChangedAt: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	s.logger.Info().Uint("user_id", userID).Uint("subscription_id", sub.ID).
		Str("platform", platform).Msg("subscription registered")
	return sub, nil
}

// reconcile handles a re-registration of a known token. adopted=false means
// the existing endpoint was invalid and has been removed; the caller should
// fall through to a fresh registration.
func (s *RegistryService) reconcile(ctx context.Context, existing *models.Subscription, userID uint) (sub *models.Subscription, adopted bool, err error) {
	enabled, qerr := s.gateway.EndpointEnabled(ctx, existing.EndpointARN)
	if qerr != nil || !enabled {
		if qerr != nil {
			s.logger.Warn().Err(qerr).Uint("subscription_id", existing.ID).
				Msg("endpoint attribute query failed, recreating endpoint")
		}
		if derr := s.gateway.DeleteEndpoint(ctx, existing.EndpointARN); derr != nil {
			s.logger.Warn().Err(derr).Uint("subscription_id", existing.ID).
				Msg("stale endpoint delete failed")
		}
		if derr := s.db.WithContext(ctx).Delete(existing).Error; derr != nil {
			return nil, false, derr
		}
		return nil, false, nil
	}

	if existing.UserID != userID {
		// Global token lookup means a token can move between accounts; make
		// that visible instead of silent.
		s.logger.Info().Uint("subscription_id", existing.ID).
			Uint("from_user", existing.UserID).Uint("to_user", userID).
			Msg("device token reassigned")
		existing.UserID = userID
	}
	if existing.Status != models.StatusEnabled {
		existing.Status = models.StatusEnabled
		existing.StatusChangedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, false, err
	}
	return existing, true, nil
}

// Disable flips the caller's subscription for a token to disabled. The lookup
// is scoped to (token, user) so one user cannot disable another's device.
func (s *RegistryService) Disable(ctx context.Context, userID uint, token string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).
		Where("device_token = ? AND user_id = ?", token, userID).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sub.Status = models.StatusDisabled
	sub.StatusChangedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// DisableAllForUser bulk-disables every enabled subscription the user owns.
// One timestamp for the whole batch.
func (s *RegistryService) DisableAllForUser(ctx context.Context, userID uint) error {
	now := time.Now()
	return s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND status = ?", userID, models.StatusEnabled).
		Updates(map[string]any{
			"status":            models.StatusDisabled,
			"status_changed_at": now,
		}).Error
}

// Status is the read-only accessor behind GET /push/status.
func (s *RegistryService) Status(ctx context.Context, userID uint, token string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).
		Where("device_token = ? AND user_id = ?", token, userID).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}
