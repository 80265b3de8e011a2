// Package forgotpassword реализует HTTP-обработчик запроса на сброс пароля.
//
// Обработчик выдает одноразовый секрет сброса и возвращает его в теле ответа;
// доставка секрета по почте выполняется внешней системой.
package forgotpassword

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/member-auth/internal/apperr"
	"github.com/magabrotheeeer/member-auth/internal/http/response"
	"github.com/magabrotheeeer/member-auth/internal/lib/sl"
)

// Request — входные данные для запроса сброса пароля
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики запроса сброса пароля.
type Service interface {
	ForgotPassword(ctx context.Context, email string) (string, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Запросить сброс пароля
// @Description Выдает одноразовый секрет сброса, действительный 10 минут.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Email пользователя"
// @Success 200 {object} response.Response "Секрет сброса пароля"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 404 {object} response.ErrorResponse "Пользователь с таким email не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/v2/auth/forgotpassword [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.forgotpassword"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	resetToken, err := h.service.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		log.Error("failed to issue reset token", sl.Err(err))
		w.WriteHeader(apperr.KindOf(err).HTTPStatus())
		render.JSON(w, r, response.Error(apperr.Message(err)))
		return
	}

	log.Info("reset token issued")
	render.JSON(w, r, response.OK(map[string]any{
		"resetToken": resetToken,
		"message":    "reset token issued, valid for 10 minutes",
	}))
}
