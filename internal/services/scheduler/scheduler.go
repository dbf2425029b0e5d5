// Package services реализует планировщик ежемесячной генерации выписок.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/sharebill/sharebill/internal/lib/sl"
)

// StatementGenerator запускает генерацию выписок за текущий месяц.
type StatementGenerator interface {
	GenerateForCurrentMonth(ctx context.Context) error
}

// SchedulerService раз в сутки проверяет дату и первого числа месяца
// запускает генерацию выписок. Генерация идемпотентна, поэтому повторный
// запуск в тот же день безопасен.
type SchedulerService struct {
	statements StatementGenerator
	log        *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(statements StatementGenerator, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		statements: statements,
		log:        log,
	}
}

// Run блокируется до отмены контекста, проверяя дату раз в сутки.
func (s *SchedulerService) Run(ctx context.Context) {
	s.runIfFirstDay(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runIfFirstDay(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) runIfFirstDay(ctx context.Context) {
	now := time.Now().UTC()
	if now.Day() != 1 {
		s.log.Info("not the first day of the month, skipping generation")
		return
	}
	s.log.Info("starting monthly statement generation",
		slog.Int("month", int(now.Month())), slog.Int("year", now.Year()))
	if err := s.statements.GenerateForCurrentMonth(ctx); err != nil {
		s.log.Error("statement generation failed", sl.Err(err))
		return
	}
	s.log.Info("monthly statement generation finished")
}
