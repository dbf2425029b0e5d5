// Package me реализует HTTP-обработчик личного кабинета: профиль пользователя,
// его подписки, последние платежи и баланс. Администратору дополнительно
// возвращаются счётчики системы.
package me

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
	"github.com/sharebill/sharebill/internal/services"
)

// Handler управляет HTTP-запросами личного кабинета.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики личного кабинета.
type Service interface {
	GetDashboard(ctx context.Context, userID string) (*services.Dashboard, error)
	GetAdminCounts(ctx context.Context) (*services.AdminCounts, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Личный кабинет
// @Description Возвращает профиль текущего пользователя, его подписки, последние платежи и баланс. Для администратора — также счётчики системы.
// @Tags Me
// @Produce  json
// @Success 200 {object} response.Response "Сводка личного кабинета"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.me"
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

	dashboard, err := h.service.GetDashboard(r.Context(), userID)
	if err != nil {
		log.Error("failed to build dashboard", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build dashboard"))
		return
	}

	data := map[string]any{
		"dashboard": dashboard,
	}

	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if role == models.RoleAdmin {
		counts, err := h.service.GetAdminCounts(r.Context())
		if err != nil {
			log.Error("failed to get admin counts", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not build dashboard"))
			return
		}
		data["counts"] = counts
	}

	log.Info("dashboard built", slog.String("user_id", userID))
	render.JSON(w, r, response.StatusOKWithData(data))
}
