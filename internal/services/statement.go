package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sharebill/sharebill/internal/lib/money"
	"github.com/sharebill/sharebill/internal/lib/sl"
	"github.com/sharebill/sharebill/internal/models"
)

var (
	statementsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sharebill_statements_generated_total",
		Help: "Number of statements generated for billing periods.",
	})
	notificationsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sharebill_notifications_enqueued_total",
		Help: "Number of email notifications enqueued.",
	})
)

// Интерфейс репозитория выписок.
type StatementRepository interface {
	ListActiveSubscriptionsForBilling(ctx context.Context) ([]*models.BillingSubscription, error)
	UpsertStatement(ctx context.Context, subscriptionID string, month, year int) (string, error)
	UpsertStatementItem(ctx context.Context, statementID, userID string, amountDue float64) (string, error)
	ListStatements(ctx context.Context, limit, offset int) ([]*models.Statement, int, error)
	UpdateStatementItem(ctx context.Context, id string, status *string, amountDue *float64) (int, error)
}

// StatementService реализует генерацию месячных выписок и их корректировку.
type StatementService struct {
	repo   StatementRepository
	emails EmailEnqueuer
	log    *slog.Logger
}

func NewStatementService(repo StatementRepository, emails EmailEnqueuer, log *slog.Logger) *StatementService {
	return &StatementService{
		repo:   repo,
		emails: emails,
		log:    log,
	}
}

// GenerateForMonth формирует выписки за указанный месяц по всем активным
// подпискам с активными профилями. Стоимость сервиса делится поровну между
// активными профилями. Повторный запуск за тот же месяц обновляет суммы,
// не трогая проставленные вручную статусы позиций.
func (s *StatementService) GenerateForMonth(ctx context.Context, month, year int) error {
	subs, err := s.repo.ListActiveSubscriptionsForBilling(ctx)
	if err != nil {
		return fmt.Errorf("failed to list subscriptions for billing: %w", err)
	}

	for _, sub := range subs {
		if len(sub.Profiles) == 0 {
			continue
		}
		amountPerUser := sub.MonthlyCost / float64(len(sub.Profiles))

		statementID, err := s.repo.UpsertStatement(ctx, sub.SubscriptionID, month, year)
		if err != nil {
			return fmt.Errorf("failed to upsert statement: %w", err)
		}
		statementsGenerated.Inc()

		for _, profile := range sub.Profiles {
			if _, err := s.repo.UpsertStatementItem(ctx, statementID, profile.UserID, amountPerUser); err != nil {
				return fmt.Errorf("failed to upsert statement item: %w", err)
			}

			if profile.UserEmail == "" {
				continue
			}
			job := models.EmailJob{
				To:      profile.UserEmail,
				Subject: fmt.Sprintf("Выписка за %02d.%d — %s", month, year, sub.ServiceName),
				HTML: fmt.Sprintf("<p>Здравствуйте, %s!</p><p>Ваша доля за сервис <b>%s</b> за %02d.%d: <b>%s</b>.</p>",
					profile.UserName, sub.ServiceName, month, year, money.FormatWithCurrency(amountPerUser)),
			}
			if err := s.emails.PublishEmail(job); err != nil {
				s.log.Error("failed to enqueue statement email", sl.Err(err))
				return err
			}
			notificationsEnqueued.Inc()
		}

		s.log.Info("generated statement",
			slog.String("subscription_id", sub.SubscriptionID),
			slog.Int("profiles", len(sub.Profiles)))
	}

	s.log.Info("statement generation finished",
		slog.Int("month", month), slog.Int("year", year),
		slog.Int("subscriptions", len(subs)))
	return nil
}

// GenerateForCurrentMonth формирует выписки за текущий месяц по UTC.
func (s *StatementService) GenerateForCurrentMonth(ctx context.Context) error {
	now := time.Now().UTC()
	return s.GenerateForMonth(ctx, int(now.Month()), now.Year())
}

func (s *StatementService) List(ctx context.Context, page, pageSize int) (*models.ListResult[*models.Statement], error) {
	offset := (page - 1) * pageSize
	items, total, err := s.repo.ListStatements(ctx, pageSize, offset)
	if err != nil {
		return nil, err
	}
	return &models.ListResult[*models.Statement]{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// UpdateItem вручную корректирует позицию выписки: статус или сумму.
func (s *StatementService) UpdateItem(ctx context.Context, id string, patch models.DummyStatementItemPatch) (int, error) {
	return s.repo.UpdateStatementItem(ctx, id, patch.Status, patch.AmountDue)
}
