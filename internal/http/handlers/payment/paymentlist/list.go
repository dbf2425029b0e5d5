// Package paymentlist реализует HTTP-обработчик пагинированного списка платежей.
package paymentlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/sharebill/sharebill/internal/http/response"
	"github.com/sharebill/sharebill/internal/lib/sl"
	"github.com/sharebill/sharebill/internal/models"
)

// Handler управляет HTTP-запросами списка платежей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики платежей.
type Service interface {
	List(ctx context.Context, opts models.ListOptions) (*models.ListResult[*models.Payment], error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список платежей
// @Description Возвращает пагинированный список платежей с email плательщика. Поиск по способу оплаты, заметкам и email.
// @Tags Payments
// @Produce  json
// @Param q query string false "Поисковая строка"
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы (максимум 100)"
// @Param sort query string false "Поле сортировки" Enums(paid_at, amount, method)
// @Param dir query string false "Направление сортировки" Enums(asc, desc)
// @Success 200 {object} response.Response "Список платежей"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/payments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	opts := models.ParseListOptions(r.URL.Query(), "paid_at", "desc",
		"paid_at", "amount", "method")

	res, err := h.service.List(r.Context(), opts)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list"))
		return
	}

	log.Info("list payments", "count", len(res.Items), "total", res.Total)
	render.JSON(w, r, response.StatusOKWithData(res))
}
