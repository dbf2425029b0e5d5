// Package balanceread реализует HTTP-обработчик чтения баланса текущего пользователя.
package balanceread

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/sharebill/sharebill/internal/http/middlewarectx"
	"github.com/sharebill/sharebill/internal/http/response"
	"github.com/sharebill/sharebill/internal/lib/sl"
	"github.com/sharebill/sharebill/internal/models"
)

// Handler управляет HTTP-запросами чтения баланса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики расчета баланса.
type Service interface {
	ComputeBalance(ctx context.Context, userID string) (*models.Balance, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Баланс пользователя
// @Description Возвращает баланс текущего пользователя: сумма платежей минус сумма долей по всем выпискам. Положительный баланс — переплата.
// @Tags Balance
// @Produce  json
// @Success 200 {object} response.Response "Баланс"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /balance [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.balance.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	balance, err := h.service.ComputeBalance(r.Context(), userID)
	if err != nil {
		log.Error("failed to compute balance", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not compute balance"))
		return
	}

	log.Info("balance computed", slog.String("user_id", userID))
	render.JSON(w, r, response.StatusOKWithData(balance))
}
