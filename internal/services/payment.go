package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sharebill/sharebill/internal/lib/money"
	"github.com/sharebill/sharebill/internal/lib/sl"
	"github.com/sharebill/sharebill/internal/models"
)

// Интерфейс репозитория платежей.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment models.Payment) (string, error)
	ListPayments(ctx context.Context, opts models.ListOptions) ([]*models.Payment, int, error)
	UpdatePayment(ctx context.Context, id string, patch models.DummyPaymentPatch) (int, error)
	DeletePayment(ctx context.Context, id string) (int, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// PaymentService реализует фиксацию платежей. Платежи не привязываются
// к позициям выписок: баланс сводится агрегированием.
type PaymentService struct {
	repo   PaymentRepository
	emails EmailEnqueuer
	log    *slog.Logger
}

func NewPaymentService(repo PaymentRepository, emails EmailEnqueuer, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:   repo,
		emails: emails,
		log:    log,
	}
}

// Create фиксирует платеж и, если у пользователя есть почта, отправляет чек.
func (s *PaymentService) Create(ctx context.Context, req models.DummyPayment) (string, error) {
	user, err := s.repo.GetUser(ctx, req.UserID)
	if err != nil {
		return "", err
	}

	payment := models.Payment{
		UserID: req.UserID,
		Amount: req.Amount,
		Method: req.Method,
		Notes:  req.Notes,
	}
	id, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		return "", err
	}
	s.log.Info("recorded payment",
		slog.String("id", id),
		slog.String("user_id", req.UserID),
		slog.Float64("amount", req.Amount))

	if user.Email != "" {
		job := models.EmailJob{
			To:      user.Email,
			Subject: "Платеж получен — ShareBill",
			HTML: fmt.Sprintf("<p>Здравствуйте, %s!</p><p>Мы получили ваш платеж на сумму <b>%s</b> (%s).</p><p>Спасибо!</p>",
				user.Name, money.FormatWithCurrency(req.Amount), req.Method),
		}
		if err := s.emails.PublishEmail(job); err != nil {
			s.log.Error("failed to enqueue payment receipt", sl.Err(err))
		}
	}

	return id, nil
}

func (s *PaymentService) List(ctx context.Context, opts models.ListOptions) (*models.ListResult[*models.Payment], error) {
	items, total, err := s.repo.ListPayments(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &models.ListResult[*models.Payment]{
		Items:    items,
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.PageSize,
	}, nil
}

func (s *PaymentService) Update(ctx context.Context, id string, patch models.DummyPaymentPatch) (int, error) {
	return s.repo.UpdatePayment(ctx, id, patch)
}

func (s *PaymentService) Remove(ctx context.Context, id string) (int, error) {
	return s.repo.DeletePayment(ctx, id)
}
