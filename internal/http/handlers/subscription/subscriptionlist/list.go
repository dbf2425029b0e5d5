// Package subscriptionlist реализует HTTP-обработчик пагинированного списка подписок.
package subscriptionlist

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

// Handler управляет HTTP-запросами списка подписок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подписок.
type Service interface {
	List(ctx context.Context, opts models.ListOptions) (*models.ListResult[*models.Subscription], error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список подписок
// @Description Возвращает пагинированный список подписок с названием сервиса и email владельца. Поиск по названию сервиса и email.
// @Tags Subscriptions
// @Produce  json
// @Param q query string false "Поисковая строка"
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы (максимум 100)"
// @Param sort query string false "Поле сортировки" Enums(created_at, start_date)
// @Param dir query string false "Направление сортировки" Enums(asc, desc)
// @Success 200 {object} response.Response "Список подписок"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/subscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	opts := models.ParseListOptions(r.URL.Query(), "created_at", "desc",
		"created_at", "start_date")

	res, err := h.service.List(r.Context(), opts)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list"))
		return
	}

	log.Info("list subscriptions", "count", len(res.Items), "total", res.Total)
	render.JSON(w, r, response.StatusOKWithData(res))
}
