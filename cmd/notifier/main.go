package main

import (
	healthhandler "calnotify/internal/health/handler"
	twofactorhandler "calnotify/internal/twofactor/handler"
	"calnotify/internal/twofactor/repository"
	twofactorservice "calnotify/internal/twofactor/service"
	webhookhandler "calnotify/internal/webhook/handler"
	webhookservice "calnotify/internal/webhook/service"
	webhookvalidator "calnotify/internal/webhook/validator"
	"calnotify/pkg/app"
	"calnotify/pkg/config"
	"calnotify/pkg/email"
	"calnotify/pkg/kafka"
	kafka_config "calnotify/pkg/kafka/config"
	kafka_middleware "calnotify/pkg/kafka/middleware"
	"calnotify/pkg/middleware"
	"calnotify/pkg/sealer"
	"calnotify/pkg/tokens"
)

const ServiceName = "calnotify"

func main() {
	cfg := config.Load(ServiceName)

	application := app.NewApplication()

	var publisher webhookservice.EventPublisher
	kafkaCfg := kafka_config.Load()
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)
	if kafkaCfg.Enabled() {
		producer, err := kafka.NewProducer(kafkaCfg, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		application.OnShutdown(func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		})
		publisher = producer
	}

	emailClient := email.NewClient(email.Config{
		BaseURL:       cfg.EmailAPIBaseURL,
		Token:         cfg.EmailAPIToken,
		From:          cfg.EmailFrom,
		MessageStream: cfg.EmailMessageStream,
		Timeout:       cfg.EmailTimeout,
	})

	notificationService := webhookservice.NewNotificationService(
		emailClient,
		publisher,
		webhookvalidator.NewSnapshotValidator(cfg.Log),
		webhookservice.Options{
			ProductName:    cfg.ProductName,
			AppBaseURL:     cfg.AppBaseURL,
			PublishTimeout: kafkaCfg.ProducerPublishTimeout,
		},
		cfg.Log,
	)
	webhookHandler := webhookhandler.NewWebhookHandler(notificationService, cfg.WebhookSecret, cfg.Log)

	var userRepo repository.UserRepository
	if cfg.MongoEnabled() {
		cfg.SetMongo()
		userRepo = repository.NewMongoUserRepository(cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.MongoConnTimeout)
	} else {
		cfg.Log.Warn("MongoDB is not configured, two-factor setup will be rejected with 500")
	}

	// A nil *sealer.Sealer inside the interface would not compare equal to
	// nil, so the interface stays unset when no key is configured.
	var secretSealer twofactorservice.Sealer
	if cfg.EncryptionKey != "" {
		s, err := sealer.New(cfg.EncryptionKey)
		if err != nil {
			cfg.Log.Fatal("Invalid encryption key", "error", err)
		}
		secretSealer = s
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, middleware.UserKeyExtractor, cfg.Log)
	application.OnShutdown(limiter.Stop)

	twoFactorHandler := twofactorhandler.NewTwoFactorHandler(
		twofactorservice.NewTwoFactorService(userRepo, secretSealer, cfg.ProductName, cfg.Log),
		tokens.NewSessionVerifier(cfg.SessionSecret).WithIssuer(cfg.SessionIssuer),
		limiter,
		cfg.Log,
	)

	application.SetApp(cfg, healthhandler.NewHealthHandler(userRepo, cfg.Log), webhookHandler, twoFactorHandler)
	application.Run()
}
