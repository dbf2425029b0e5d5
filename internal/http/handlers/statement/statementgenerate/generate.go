// Package statementgenerate реализует HTTP-обработчик ручного запуска
// генерации выписок за текущий месяц.
package statementgenerate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/sharebill/sharebill/internal/http/response"
	"github.com/sharebill/sharebill/internal/lib/sl"
)

// Handler управляет HTTP-запросами на генерацию выписок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики генерации выписок.
type Service interface {
	GenerateForCurrentMonth(ctx context.Context) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сгенерировать выписки
// @Description Запускает генерацию выписок за текущий месяц по всем активным подпискам. Повторный запуск обновляет суммы, не трогая статусы позиций.
// @Tags Statements
// @Produce  json
// @Success 200 {object} response.Response "Генерация завершена"
// @Failure 500 {object} response.ErrorResponse "Ошибка генерации"
// @Security BearerAuth
// @Router /admin/statements/generate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.statement.generate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.GenerateForCurrentMonth(r.Context()); err != nil {
		log.Error("failed to generate statements", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not generate statements"))
		return
	}

	log.Info("statements generated")
	render.JSON(w, r, response.StatusOKWithData(nil))
}
