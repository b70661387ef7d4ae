// Package app assembles the services shared by the API server and the
// management command.
package app

import (
	"fmt"

	"github.com/kigongo-vincent/invai-backend/config"
	"github.com/kigongo-vincent/invai-backend/logger"
	"github.com/kigongo-vincent/invai-backend/modules/Events"
	"github.com/kigongo-vincent/invai-backend/modules/Insight"
	"github.com/kigongo-vincent/invai-backend/modules/Notification"
	"github.com/kigongo-vincent/invai-backend/modules/Order"
	"github.com/kigongo-vincent/invai-backend/modules/Product"
	"github.com/kigongo-vincent/invai-backend/modules/Supplier"
	"github.com/kigongo-vincent/invai-backend/modules/User"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Migrate creates or updates every table. Order matters: foreign keys point
// at tables earlier in the list.
func Migrate(db *gorm.DB, log logger.Logger) error {
	log.Info("running database migrations", nil)

	steps := []struct {
		name  string
		model interface{}
	}{
		{"users", &User.UserModel{}},
		{"suppliers", &Supplier.Supplier{}},
		{"products", &Product.Product{}},
		{"orders", &Order.Order{}},
		{"notifications", &Notification.Notification{}},
		{"notification preferences", &Notification.NotificationPreference{}},
	}
	for _, step := range steps {
		if err := db.AutoMigrate(step.model); err != nil {
			return fmt.Errorf("migrate %s: %w", step.name, err)
		}
	}

	log.Info("database migrations completed", nil)
	return nil
}

// Wire initializes every service and installs the event dispatcher as the
// hook receiver of the User, Product and Order routers. broker may be nil.
func Wire(cfg *config.Config, db *gorm.DB, rdb *redis.Client, broker *Notification.Broker, log logger.Logger) *Events.Dispatcher {
	var sessions User.SessionStore
	if rdb != nil {
		sessions = User.NewRedisSessionStore(rdb)
	}
	User.InitializeService(db, User.Options{
		JWTSecret:    cfg.Auth.JWTSecret,
		TokenTTL:     cfg.Auth.TokenTTL(),
		CookieName:   cfg.Auth.CookieName,
		CookieSecure: cfg.Auth.CookieSecure,
		MediaRoot:    cfg.App.MediaRoot,
		MediaURL:     cfg.App.MediaURL,
		Sessions:     sessions,
	})
	Supplier.InitializeService(db)
	Product.InitializeService(db)
	Order.InitializeService(db)
	Notification.InitializeService(db, log.With(logger.Fields{"component": "notifications"}), broker)

	var generator Insight.TextGenerator
	if cfg.AI.GeminiAPIKey != "" {
		generator = Insight.NewGeminiClient(Insight.GeminiOptions{
			APIKey:          cfg.AI.GeminiAPIKey,
			Model:           cfg.AI.Model,
			BaseURL:         cfg.AI.BaseURL,
			Timeout:         cfg.AI.Timeout(),
			MaxRetries:      cfg.AI.MaxRetries,
			Temperature:     cfg.AI.Temperature,
			TopP:            cfg.AI.TopP,
			TopK:            cfg.AI.TopK,
			MaxOutputTokens: cfg.AI.MaxOutputTokens,
		})
	} else {
		log.Warn("GEMINI_API_KEY not set, AI insights disabled", nil)
	}
	Insight.InitializeService(generator, log)

	dispatcher := Events.NewDispatcher(
		User.GetUserService(),
		Product.GetProductService(),
		Notification.GetNotificationService(),
		log,
		Events.Thresholds{
			HighValue:  decimal.NewFromFloat(cfg.Notifications.HighValueThreshold),
			MajorValue: decimal.NewFromFloat(cfg.Notifications.MajorValueThreshold),
		},
	)
	User.SetHooks(dispatcher)
	Product.SetHooks(dispatcher)
	Order.SetHooks(dispatcher)
	return dispatcher
}
