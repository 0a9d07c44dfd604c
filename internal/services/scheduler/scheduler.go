// Package scheduler периодически очищает просроченные одноразовые коды.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/alcateia-auth/internal/lib/sl"
)

// Sweeper очистка просроченных кодов.
type Sweeper interface {
	ClearExpiredCodes(ctx context.Context) (int64, int64, error)
}

// Service фоновая очистка кодов.
type Service struct {
	sweeper  Sweeper
	interval time.Duration
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(sweeper Sweeper, interval time.Duration, log *slog.Logger) *Service {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Service{
		sweeper:  sweeper,
		interval: interval,
		log:      log,
	}
}

// Run выполняет очистку сразу и затем по таймеру, пока ctx не отменён.
func (s *Service) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("code sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	verification, reset, err := s.sweeper.ClearExpiredCodes(ctx)
	if err != nil {
		s.log.Error("failed to clear expired codes", sl.Err(err))
		return
	}
	if verification == 0 && reset == 0 {
		s.log.Debug("no expired codes found")
		return
	}
	s.log.Info("expired codes cleared",
		slog.Int64("verification", verification),
		slog.Int64("password_reset", reset))
}
