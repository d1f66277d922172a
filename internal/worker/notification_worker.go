package worker

import (
	"go.uber.org/zap"

	"github.com/finclutech/employee-service/internal/config"
	"github.com/finclutech/employee-service/internal/events"
	"github.com/finclutech/employee-service/internal/persistence"
	"github.com/finclutech/employee-service/internal/service"
)

// StartNotificationWorker subscribes the event forwarder to the dispatcher.
// Events are only logged when redis is nil.
func StartNotificationWorker(dispatcher events.Dispatcher, redis *persistence.Redis, logger *zap.Logger, cfg config.EventsConfig) *service.NotificationService {
	if dispatcher == nil {
		return nil
	}

	var publisher service.Publisher
	if redis != nil {
		publisher = redis
	}

	notifications := service.NewNotificationService(dispatcher, publisher, logger, cfg)
	notifications.RegisterHandlers()
	logger.Info("notification worker started",
		zap.Bool("redis", publisher != nil),
		zap.String("channel", cfg.Channel))
	return notifications
}
