// Package userlist реализует HTTP-обработчик пагинированного списка пользователей.
package userlist

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

// Handler управляет HTTP-запросами списка пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка пользователей.
type Service interface {
	List(ctx context.Context, opts models.ListOptions) (*models.ListResult[*models.User], error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает пагинированный список пользователей. Поиск по email и имени, сортировка по created_at, email или name.
// @Tags Users
// @Produce  json
// @Param q query string false "Поисковая строка"
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы (максимум 100)"
// @Param sort query string false "Поле сортировки" Enums(created_at, email, name)
// @Param dir query string false "Направление сортировки" Enums(asc, desc)
// @Success 200 {object} response.Response "Список пользователей"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	opts := models.ParseListOptions(r.URL.Query(), "created_at", "desc",
		"created_at", "email", "name")

	res, err := h.service.List(r.Context(), opts)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list"))
		return
	}

	log.Info("list users", "count", len(res.Items), "total", res.Total)
	render.JSON(w, r, response.StatusOKWithData(res))
}
