// Package profilecreate реализует HTTP-обработчик выдачи пользователю места
// на подписке. Количество активных профилей ограничено лимитом сервиса.
package profilecreate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/sharebill/sharebill/internal/http/response"
	"github.com/sharebill/sharebill/internal/lib/sl"
	"github.com/sharebill/sharebill/internal/models"
	"github.com/sharebill/sharebill/internal/services"
	"github.com/sharebill/sharebill/internal/storage/repository"
)

// Handler управляет HTTP-запросами на создание профилей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики профилей.
type Service interface {
	Create(ctx context.Context, req models.DummyProfile) (string, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить профиль
// @Description Закрепляет за пользователем место на подписке. Отклоняется при превышении лимита профилей сервиса.
// @Tags Profiles
// @Accept  json
// @Produce  json
// @Param request body models.DummyProfile true "Данные нового профиля"
// @Success 200 {object} map[string]any "Профиль создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Подписка или пользователь не найдены"
// @Failure 409 {object} response.ErrorResponse "Лимит профилей исчерпан"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/profiles [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyProfile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProfileLimitReached):
			log.Error("profile limit reached", slog.String("subscription_id", req.SubscriptionID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("profile limit reached"))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("subscription or user not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subscription or user not found"))
		default:
			log.Error("failed to create profile", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create profile"))
		}
		return
	}

	log.Info("success to create profile", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
