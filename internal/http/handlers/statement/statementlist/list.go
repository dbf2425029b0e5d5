// Package statementlist реализует HTTP-обработчик списка выписок с позициями.
package statementlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/sharebill/sharebill/internal/http/response"
	"github.com/sharebill/sharebill/internal/lib/sl"
	"github.com/sharebill/sharebill/internal/models"
)

// Handler управляет HTTP-запросами списка выписок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выписок.
type Service interface {
	List(ctx context.Context, page, pageSize int) (*models.ListResult[*models.Statement], error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список выписок
// @Description Возвращает выписки с вложенными позициями, отсортированные от новых к старым.
// @Tags Statements
// @Produce  json
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы (максимум 100)"
// @Success 200 {object} response.Response "Список выписок"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/statements [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.statement.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	pageSize, err := strconv.Atoi(r.URL.Query().Get("page_size"))
	if err != nil || pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	if pageSize > models.MaxPageSize {
		pageSize = models.MaxPageSize
	}

	res, err := h.service.List(r.Context(), page, pageSize)
	if err != nil {
		log.Error("failed to list statements", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list"))
		return
	}

	log.Info("list statements", "count", len(res.Items), "total", res.Total)
	render.JSON(w, r, response.StatusOKWithData(res))
}
