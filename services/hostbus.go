package services

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

// Host event types carried on the forum's bus.
const (
	EventPushNotification  = "push_notification"
	EventUserLoggedOut     = "user_logged_out"
	EventUserAuthenticated = "user_authenticated"
)

// HostEvent is the JSON envelope the forum publishes.
type HostEvent struct {
	Type   string            `json:"type"`
	UserID uint              `json:"user_id"`
	Title  string            `json:"title,omitempty"`
	Body   string            `json:"body,omitempty"`
	Data   map[string]string `json:"data,omitempty"`
}

// HostBusConsumer reads the forum's event topic and routes events to a
// HostSubscriber. Delivery is at-least-once; the subscriber's operations are
// safe to repeat.
type HostBusConsumer struct {
	group      sarama.ConsumerGroup
	subscriber HostSubscriber
	topics     []string
	logger     zerolog.Logger
}

func NewHostBusConsumer(brokers []string, groupID string, topics []string, sub HostSubscriber, logger zerolog.Logger) (*HostBusConsumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V3_6_0_0
	config.Consumer.Return.Errors = true
	config.Consumer.Offsets.AutoCommit.Enable = true
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRange

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		logger.Error().Err(err).Str("group_id", groupID).
			Msg("failed to create host bus consumer group")
		return nil, err
	}

	logger.Info().Str("group_id", groupID).Strs("topics", topics).
		Msg("host bus consumer initialized")

	return &HostBusConsumer{
		group:      group,
		subscriber: sub,
		topics:     topics,
		logger:     logger,
	}, nil
}

// Start runs the consume loop until ctx is cancelled.
func (c *HostBusConsumer) Start(ctx context.Context) {
	go func() {
		for err := range c.group.Errors() {
			c.logger.Error().Err(err).Msg("host bus consumer error")
		}
	}()
	go func() {
		for {
			if err := c.group.Consume(ctx, c.topics, c); err != nil {
				c.logger.Error().Err(err).Msg("host bus consume failed")
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
}

func (c *HostBusConsumer) Close() error {
	return c.group.Close()
}

func (c *HostBusConsumer) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (c *HostBusConsumer) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (c *HostBusConsumer) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		c.Handle(msg.Value)
		sess.MarkMessage(msg, "")
	}
	return nil
}

// Handle decodes and routes one raw event. Undecodable or unknown events are
// logged and skipped.
func (c *HostBusConsumer) Handle(raw []byte) {
	var ev HostEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		c.logger.Warn().Err(err).Msg("undecodable host event, skipping")
		return
	}

	switch ev.Type {
	case EventPushNotification:
		c.subscriber.PushNotification(ev.UserID, NotificationPayload{
			Title: ev.Title,
			Body:  ev.Body,
			Data:  ev.Data,
		})
	case EventUserLoggedOut:
		c.subscriber.UserLoggedOut(ev.UserID)
	case EventUserAuthenticated:
		c.subscriber.UserAuthenticated(ev.UserID)
	default:
		c.logger.Warn().Str("event_type", ev.Type).Msg("unknown host event type")
	}
}
