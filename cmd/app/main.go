package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"github.com/burenotti/go_diet_backend/internal/adapter/api"
	"github.com/burenotti/go_diet_backend/internal/adapter/storage"
	"github.com/burenotti/go_diet_backend/internal/app/authapp"
	goalapp "github.com/burenotti/go_diet_backend/internal/app/goal"
	mealapp "github.com/burenotti/go_diet_backend/internal/app/meal"
	"github.com/burenotti/go_diet_backend/internal/app/messagebus"
	profileapp "github.com/burenotti/go_diet_backend/internal/app/profile"
	"github.com/burenotti/go_diet_backend/internal/app/unitofwork"
	"github.com/burenotti/go_diet_backend/internal/config"
	"github.com/burenotti/go_diet_backend/internal/domain"
	"github.com/burenotti/go_diet_backend/internal/domain/goal"
	"github.com/burenotti/go_diet_backend/internal/domain/meal"
	"github.com/burenotti/go_diet_backend/internal/domain/profile"
	"github.com/burenotti/go_diet_backend/internal/domain/user"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/leporo/sqlf"
	"golang.org/x/crypto/bcrypt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	shutdownTimeout     = 5 * time.Second
	eventHandlerTimeout = 10 * time.Second
)

func main() {
	var configPath, envPath string
	flag.StringVar(&configPath, "config", "config/config.yaml", "path to config file")
	flag.StringVar(&envPath, "env", ".env", "path to optional .env file")
	flag.Parse()

	cfg := config.MustLoad(configPath, envPath)
	logger := initLogger(cfg)

	defaultMealType, err := meal.ParseType(cfg.Nutrition.DefaultMealType)
	if err != nil {
		panic("invalid nutrition.default_meal_type: " + err.Error())
	}

	sqlf.SetDialect(sqlf.PostgreSQL)

	conn, err := sql.Open("pgx", cfg.DB.DSN)
	if err != nil {
		panic("failed to connect database: " + err.Error())
	}
	defer conn.Close()
	db := &storage.DB{DB: conn}

	authorizer := &authapp.Authorizer{
		Cost:           bcrypt.DefaultCost,
		Secret:         cfg.JWT.Secret,
		AccessTokenTTL: cfg.JWT.AccessTokenTTL,
		SessionTTL:     cfg.JWT.RefreshTokenTTL,
	}

	authService := authapp.NewService(authorizer, logger)
	profileService := profileapp.New(logger)
	goalService := goalapp.New(logger, cfg.Nutrition.DefaultProteinPerKg)
	mealService := mealapp.New(logger, cfg.Nutrition.FoodsPageLimit, defaultMealType)

	bus := messagebus.New(logger)
	registerHandlers(bus, db, profileService, logger)
	defer bus.Close()

	server := api.NewServer(
		api.Addr(cfg.Server.Host, cfg.Server.Port),
		api.Logger(logger),
		api.Database(db),
		api.MessageBus(bus),
		api.AuthService(authService),
		api.ProfileService(profileService),
		api.GoalService(goalService),
		api.MealService(mealService),
	)

	ctx := context.Background()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error)

	go func() {
		defer close(errCh)
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server was not shutdown gracefully", "error", err)
		}
	case err := <-errCh:
		if err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server closed with unexpected error", "error", err)
			}
		}
	}
	logger.Info("server shutdown")
}

// registerHandlers wires reactions to domain events. A new user gets an empty
// profile right away so the dashboard never has to create one mid-request.
func registerHandlers(
	bus *messagebus.MessageBus,
	db storage.Database,
	profileService *profileapp.Service,
	logger *slog.Logger,
) {
	bus.Register(user.EventCreated, func(event domain.Event) error {
		e := event.(user.CreatedEvent)
		ctx, cancel := context.WithTimeout(context.Background(), eventHandlerTimeout)
		defer cancel()

		uow := unitofwork.New[*profileapp.AtomicContext](db, profileapp.NewAtomicContext, bus, logger)
		_, err := profileService.EnsureProfile(ctx, e.UserID, uow)
		return err
	})

	bus.Register(user.EventLogin, func(event domain.Event) error {
		e := event.(user.LoginEvent)
		logger.Info("user logged in", "user_id", e.UserID, "os", e.Device.OS, "browser", e.Device.Browser)
		return nil
	})

	bus.Register(profile.EventUpdated, func(event domain.Event) error {
		e := event.(profile.UpdatedEvent)
		logger.Info("profile updated", "user_id", e.UserID, "complete", e.Complete)
		return nil
	})

	bus.Register(goal.EventUpdated, func(event domain.Event) error {
		e := event.(goal.UpdatedEvent)
		logger.Info("goal updated", "user_id", e.UserID, "goal_type", e.GoalType)
		return nil
	})

	bus.Register(meal.EventItemAdded, func(event domain.Event) error {
		e := event.(meal.ItemAddedEvent)
		logger.Debug("meal item added", "user_id", e.UserID, "meal_id", e.MealID, "grams", e.QuantityGrams)
		return nil
	})
}

func initLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler
	switch cfg.App.Env {
	case config.Development:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelDebug,
		})
	case config.Production:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: false,
			Level:     slog.LevelInfo,
		})
	default:
		panic("invalid env")
	}

	return slog.New(handler)
}
