package main

import (
	"context"
	"time"

	"politicswithalex/api_site/internal/content"
	"politicswithalex/api_site/internal/handlers"
	"politicswithalex/api_site/internal/ratelimit"
	"politicswithalex/api_site/pkg/clients/resend"
	"politicswithalex/api_site/pkg/config"
	"politicswithalex/api_site/pkg/email"
	"politicswithalex/api_site/pkg/kv"
	"politicswithalex/api_site/pkg/logging"
	"politicswithalex/api_site/pkg/monitoring"
	"politicswithalex/api_site/pkg/redis"
	"politicswithalex/api_site/pkg/server"
	"politicswithalex/api_site/pkg/version"
)

const serviceName = "politics-with-alex"

func main() {
	logger := logging.NewLoggerWithService("siteapi")
	config.LoadEnv(logger)

	port := config.GetEnv("PORT", "18080")
	toEmail := config.GetEnv("TO_EMAIL", "contact@politicswithalex.com")
	fromEmail := config.GetEnv("FROM_EMAIL", "Politics With Alex <no-reply@politicswithalex.com>")
	resendKey := config.GetEnv("RESEND_API_KEY", "")
	youtubeKey := config.GetEnv("YOUTUBE_API_KEY", "")
	channelHandle := config.GetEnv("YOUTUBE_CHANNEL_HANDLE", "@politicswithalex")
	redisURL := config.GetEnv("REDIS_URL", "")

	feedURL := config.GetEnv("RSS_FEED_URL", "")
	if feedURL == "" {
		feedURL = "https://medium.com/feed/@" + config.GetEnv("MEDIUM_USERNAME", "politicswithalex")
	}

	healthChecker := monitoring.NewHealthChecker(serviceName, version.Version)
	metricsCollector := monitoring.NewMetricsCollector(serviceName, version.Version, version.GitCommit)

	// The KV store backs both the content cache and the rate limiter.
	// Without Redis the service still runs, on a process-local store.
	var store kv.Store = kv.NewMemoryStore()
	if redisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		redisClient, err := redis.NewClientFromURL(ctx, redisURL)
		cancel()
		if err != nil {
			logger.WithFields(logging.Fields{
				"error": err.Error(),
			}).Warn("Redis unavailable, using in-memory store")
		} else {
			store = kv.NewRedisStore(redisClient)
			healthChecker.AddCheck("redis", monitoring.RedisHealthCheck(redisClient))
		}
	}

	requiredConfig := map[string]string{
		"YOUTUBE_API_KEY": youtubeKey,
		"TO_EMAIL":        toEmail,
	}

	var emailSender handlers.EmailSender
	if resendKey != "" {
		emailSender = resend.NewClient(resendKey, fromEmail)
	} else {
		// SMTP is the fallback transport, so its host becomes required.
		requiredConfig["SMTP_HOST"] = config.GetEnv("SMTP_HOST", "")
		logger.Warn("RESEND_API_KEY not set, falling back to SMTP delivery")
		emailSender = email.NewSender(email.Config{
			Host:     config.GetEnv("SMTP_HOST", ""),
			Port:     config.GetEnv("SMTP_PORT", "587"),
			User:     config.GetEnv("SMTP_USER", ""),
			Password: config.GetEnv("SMTP_PASSWORD", ""),
			From:     config.GetEnv("SMTP_FROM", "no-reply@politicswithalex.com"),
			FromName: "Politics With Alex",
		})
	}

	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(requiredConfig))

	limiter := ratelimit.New(store, logger,
		config.GetEnvInt("RATE_LIMIT_MAX", ratelimit.DefaultMax),
		ratelimit.DefaultWindow)

	contentMetrics := content.NewMetrics()
	formMetrics := handlers.NewFormMetrics()
	for _, collector := range contentMetrics.Collectors() {
		metricsCollector.RegisterCustomMetric(collector)
	}
	for _, collector := range formMetrics.Collectors() {
		metricsCollector.RegisterCustomMetric(collector)
	}

	contentService := content.NewService(
		store,
		content.NewYouTubeClient(youtubeKey, channelHandle),
		content.NewFeedClient(feedURL),
		logger,
		contentMetrics,
		content.DefaultCacheTTL,
	)

	app := server.SetupServiceRouter(logger, serviceName, healthChecker, metricsCollector)

	contentHandler := handlers.NewContentHandler(contentService, logger)
	subscribeHandler := handlers.NewSubscribeHandler(emailSender, limiter, toEmail, logger, formMetrics)
	submitHandler := handlers.NewSubmitHandler(emailSender, limiter, toEmail, logger, formMetrics)

	app.GET("/api/health", handlers.HealthHandler(serviceName))
	app.GET("/api/videos", contentHandler.Videos)
	app.GET("/api/posts", contentHandler.Posts)
	app.POST("/api/subscribe", subscribeHandler.Handle)
	app.POST("/api/submit", submitHandler.Handle)

	serverConfig := server.DefaultConfig(serviceName, port)
	if err := server.Start(serverConfig, app, logger); err != nil {
		logger.Fatal(err.Error())
	}
}
