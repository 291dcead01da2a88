// Package bootstrap wires configuration into runnable services so the cmd
// entrypoints stay thin.
package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/voxlane/voxlane-platform/internal/config"
	"github.com/voxlane/voxlane-platform/internal/notify"
	"github.com/voxlane/voxlane-platform/internal/sweep"
	"github.com/voxlane/voxlane-platform/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildNotifier assembles the notice fan-out: log sink always, the Redis feed
// when a client is available, and email when SendGrid is configured.
func BuildNotifier(cfg *appconfig.Config, redisClient *redis.Client, reg prometheus.Registerer, logger *logging.Logger) (*notify.Service, *notify.FeedStore) {
	if logger == nil {
		logger = logging.Default()
	}

	sinks := []notify.Sink{notify.NewLogSink(logger)}

	var feed *notify.FeedStore
	if redisClient != nil {
		feed = notify.NewFeedStore(redisClient, cfg.NoticeFeedLimit)
		sinks = append(sinks, feed)
	}

	sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
	if sender != nil {
		if sink := notify.NewEmailSink(sender, cfg.NotifyEmailRecipients); sink != nil {
			sinks = append(sinks, sink)
			logger.Info("email notifications enabled", "recipients", len(cfg.NotifyEmailRecipients))
		}
	}

	svc := notify.NewService(logger, sinks...)
	if reg != nil {
		svc = svc.WithMetrics(notify.NewMetrics(reg))
	}
	return svc, feed
}

// SweepConfig maps application config onto sweep timing parameters.
func SweepConfig(cfg *appconfig.Config) sweep.Config {
	return sweep.Config{
		Interval:       cfg.SweepInterval,
		Dwell:          cfg.DwellTime,
		ReminderWindow: cfg.ReminderWindow,
		TriggerWindow:  cfg.TriggerWindow,
		MissedGrace:    cfg.MissedGracePeriod,
	}
}
