package main

import (
	"context"
	"os"
	"strings"

	"pushbridge/config"
	"pushbridge/controllers"
	"pushbridge/routes"
	"pushbridge/services"
)

func main() {
	config.InitDB()
	logger := config.NewLogger()

	gateway, err := services.NewSNSGateway()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize push gateway")
	}

	hub := services.NewRealtimeHub()
	registry := services.NewRegistryService(config.DB, gateway, logger)
	dispatcher := services.NewDispatchService(config.DB, gateway, hub, logger)
	defer dispatcher.Close()

	lifecycle := services.NewLifecycleAdapter(registry, dispatcher, logger)

	// Host event bus is optional: small installs use /internal/dispatch.
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		topic := os.Getenv("KAFKA_TOPIC")
		if topic == "" {
			topic = "forum-events"
		}
		consumer, err := services.NewHostBusConsumer(
			strings.Split(brokers, ","),
			"pushbridge",
			[]string{topic},
			lifecycle,
			logger,
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize host bus consumer")
		}
		defer consumer.Close()
		consumer.Start(context.Background())
	}

	r := routes.SetupRouter(routes.Controllers{
		Auth:         controllers.NewAuthController(lifecycle),
		Subscription: controllers.NewSubscriptionController(registry),
		Notification: controllers.NewNotificationController(config.DB),
		Realtime:     controllers.NewRealtimeController(hub),
		Dispatch:     controllers.NewDispatchController(lifecycle),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
