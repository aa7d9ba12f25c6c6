package api

import (
	"github.com/burenotti/go_diet_backend/internal/adapter/storage"
	"github.com/burenotti/go_diet_backend/internal/app/authapp"
	goalapp "github.com/burenotti/go_diet_backend/internal/app/goal"
	mealapp "github.com/burenotti/go_diet_backend/internal/app/meal"
	profileapp "github.com/burenotti/go_diet_backend/internal/app/profile"
	"github.com/burenotti/go_diet_backend/internal/app/unitofwork"
	"log/slog"
	"net"
	"strconv"
)

type Option func(*Server)

func Addr(host string, port int) Option {
	return func(s *Server) {
		s.addr = net.JoinHostPort(host, strconv.Itoa(port))
	}
}

func Logger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

func Database(db storage.Database) Option {
	return func(s *Server) {
		s.db = db
	}
}

func AuthService(service *authapp.Service) Option {
	return func(s *Server) {
		s.authService = service
	}
}

func ProfileService(service *profileapp.Service) Option {
	return func(s *Server) {
		s.profileService = service
	}
}

func GoalService(service *goalapp.Service) Option {
	return func(s *Server) {
		s.goalService = service
	}
}

func MealService(service *mealapp.Service) Option {
	return func(s *Server) {
		s.mealService = service
	}
}

func MessageBus(bus unitofwork.MessageBus) Option {
	return func(s *Server) {
		s.msgBus = bus
	}
}
