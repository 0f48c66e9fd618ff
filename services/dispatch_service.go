package services

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"pushbridge/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// NotificationPayload is what the host hands us per notification event.
type NotificationPayload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// DispatchFilter can veto a dispatch for a user/payload. Any filter returning
// false suppresses the whole send, e.g. for rate limiting.
type DispatchFilter func(userID uint, payload NotificationPayload) bool

type deliveryTask struct {
	userID      uint
	payload     NotificationPayload
	unreadCount int64
}

// DispatchService fans a notification out to all of a user's enabled devices.
// Delivery runs on a single worker goroutine fed by a buffered queue;
// Dispatch itself never blocks on the gateway.
type DispatchService struct {
	db      *gorm.DB
	gateway PushGateway
	hub     *RealtimeHub // optional in-app mirror
	logger  zerolog.Logger

	mu      sync.Mutex
	filters []DispatchFilter

	tasks     chan deliveryTask
	done      chan struct{}
	closeOnce sync.Once
}

func NewDispatchService(db *gorm.DB, gw PushGateway, hub *RealtimeHub, logger zerolog.Logger) *DispatchService {
	s := &DispatchService{
		db:      db,
		gateway: gw,
		hub:     hub,
		logger:  logger,
		tasks:   make(chan deliveryTask, 64),
		done:    make(chan struct{}),
	}
	go s.worker()
	return s
}

func (s *DispatchService) AddFilter(f DispatchFilter) {
	s.mu.Lock()
	s.filters = append(s.filters, f)
	s.mu.Unlock()
}

// Dispatch records the notification and queues one delivery task for the
// user. No-op when the user has no subscriptions at all or a filter vetoes.
func (s *DispatchService) Dispatch(userID uint, payload NotificationPayload) {
	var subs int64
	if err := s.db.Model(&models.Subscription{}).
		Where("user_id = ?", userID).Count(&subs).Error; err != nil {
		s.logger.Error().Err(err).Uint("user_id", userID).Msg("subscription count failed")
		return
	}
	if subs == 0 {
		return
	}

	for _, f := range s.snapshotFilters() {
		if !f(userID, payload) {
			s.logger.Debug().Uint("user_id", userID).Msg("dispatch vetoed by filter")
			return
		}
	}

	note := &models.Notification{UserID: userID, Title: payload.Title, Body: payload.Body}
	if err := s.db.Create(note).Error; err != nil {
		s.logger.Error().Err(err).Uint("user_id", userID).Msg("notification record failed")
	}

	var unread int64
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).Count(&unread).Error; err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("unread count failed")
	}

	select {
	case s.tasks <- deliveryTask{userID: userID, payload: payload, unreadCount: unread}:
	default:
		s.logger.Warn().Uint("user_id", userID).Msg("dispatch queue full, dropping notification")
	}
}

func (s *DispatchService) snapshotFilters() []DispatchFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DispatchFilter, len(s.filters))
	copy(out, s.filters)
	return out
}

func (s *DispatchService) worker() {
	for task := range s.tasks {
		s.deliver(task)
	}
	close(s.done)
}

// deliver pushes one task to every enabled device the user has. Per-device
// failures are logged and skipped so one bad endpoint never blocks siblings.
func (s *DispatchService) deliver(t deliveryTask) {
	var subs []models.Subscription
	if err := s.db.
		Where("user_id = ? AND status = ?", t.userID, models.StatusEnabled).
		Find(&subs).Error; err != nil {
		s.logger.Error().Err(err).Uint("user_id", t.userID).Msg("subscription lookup failed")
		return
	}
	if len(subs) == 0 {
		return
	}

	msg, err := encodeMessage(t.payload, t.unreadCount)
	if err != nil {
		s.logger.Error().Err(err).Uint("user_id", t.userID).Msg("payload encode failed")
		return
	}

	ctx := context.Background()
	for _, sub := range subs {
		if err := s.gateway.Publish(ctx, sub.EndpointARN, msg); err != nil {
			s.logger.Warn().Err(err).Uint("user_id", t.userID).
				Uint("subscription_id", sub.ID).Msg("push delivery failed")
			continue
		}
	}

	if s.hub != nil {
		s.hub.Broadcast(t.userID, map[string]any{
			"kind":   "notification",
			"title":  t.payload.Title,
			"body":   t.payload.Body,
			"unread": t.unreadCount,
		})
	}
}

// Close stops accepting tasks and waits for the queue to drain.
func (s *DispatchService) Close() {
	s.closeOnce.Do(func() {
		close(s.tasks)
	})
	<-s.done
}

func encodeMessage(p NotificationPayload, unread int64) (string, error) {
	data := make(map[string]string, len(p.Data)+1)
	for k, v := range p.Data {
		data[k] = v
	}
	data["badge"] = strconv.FormatInt(unread, 10)

	msg := map[string]any{
		"default": p.Body,
		"GCM": map[string]any{
			"notification": map[string]string{
				"title": p.Title,
				"body":  p.Body,
			},
			"data": data,
		},
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
