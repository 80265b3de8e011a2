// Package resetpassword реализует HTTP-обработчик установки нового пароля
// по одноразовому секрету сброса из URL.
//
// Секрет сверяется и гасится одним условным обновлением в хранилище,
// поэтому при конкурентных запросах новый пароль установит ровно один из них.
package resetpassword

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/member-auth/internal/apperr"
	"github.com/magabrotheeeer/member-auth/internal/http/response"
	"github.com/magabrotheeeer/member-auth/internal/lib/sl"
	"github.com/magabrotheeeer/member-auth/internal/models"
)

// Request — входные данные для установки нового пароля
type Request struct {
	Password string `json:"password" validate:"required,min=6,max=16"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики сброса пароля.
type Service interface {
	ResetPassword(ctx context.Context, resetToken, newPassword string) (string, *models.User, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Установить новый пароль по секрету сброса
// @Description Сверяет секрет из URL, меняет пароль и возвращает свежий JWT-токен.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param resettoken path string true "Секрет сброса пароля"
// @Param request body Request true "Новый пароль"
// @Success 200 {object} response.Response "Токен и публичные данные пользователя"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 403 {object} response.ErrorResponse "Секрет не совпадает или истек"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/v2/auth/resetpassword/{resettoken} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resetpassword"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	resetToken := chi.URLParam(r, "resettoken")
	if resetToken == "" {
		log.Error("reset token is missing from url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("reset token is required"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded")

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	token, user, err := h.service.ResetPassword(r.Context(), resetToken, req.Password)
	if err != nil {
		log.Error("failed to reset password", sl.Err(err))
		w.WriteHeader(apperr.KindOf(err).HTTPStatus())
		render.JSON(w, r, response.Error(apperr.Message(err)))
		return
	}

	log.Info("password reset", slog.String("user_uid", user.UID))
	render.JSON(w, r, response.OK(map[string]any{
		"token": token,
		"user": map[string]any{
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	}))
}
