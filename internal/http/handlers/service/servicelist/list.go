// Package servicelist реализует HTTP-обработчик списка сервисов.
//
// Без параметров пагинации возвращается полный список активных сервисов
// (из кэша). С параметрами q, page или page_size — пагинированный список
// всех сервисов для административного интерфейса.
package servicelist

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

// Handler управляет HTTP-запросами списка сервисов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики каталога сервисов.
type Service interface {
	ListActive(ctx context.Context) ([]*models.Service, error)
	List(ctx context.Context, opts models.ListOptions) (*models.ListResult[*models.Service], error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список сервисов
// @Description Без параметров — активные сервисы. С параметрами пагинации — полный список с поиском и сортировкой.
// @Tags Services
// @Produce  json
// @Param q query string false "Поисковая строка"
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы (максимум 100)"
// @Param sort query string false "Поле сортировки" Enums(created_at, name, monthly_cost)
// @Param dir query string false "Направление сортировки" Enums(asc, desc)
// @Success 200 {object} response.Response "Список сервисов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /services [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.service.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if !models.HasPaging(r.URL.Query()) {
		res, err := h.service.ListActive(r.Context())
		if err != nil {
			log.Error("failed to list active services", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list"))
			return
		}
		log.Info("list active services", "count", len(res))
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"items": res,
		}))
		return
	}

	opts := models.ParseListOptions(r.URL.Query(), "created_at", "desc",
		"created_at", "name", "monthly_cost")

	res, err := h.service.List(r.Context(), opts)
	if err != nil {
		log.Error("failed to list services", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list"))
		return
	}

	log.Info("list services", "count", len(res.Items), "total", res.Total)
	render.JSON(w, r, response.StatusOKWithData(res))
}
