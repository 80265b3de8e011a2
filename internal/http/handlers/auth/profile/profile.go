// Package profile реализует HTTP-обработчик получения профиля текущего пользователя.
//
// UID пользователя берется из контекста запроса, куда его помещает JWT middleware.
// Пользователь перечитывается из хранилища: если учетная запись была удалена
// после выдачи токена, обработчик возвращает 404.
package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/member-auth/internal/apperr"
	"github.com/magabrotheeeer/member-auth/internal/http/middlewarectx"
	"github.com/magabrotheeeer/member-auth/internal/http/response"
	"github.com/magabrotheeeer/member-auth/internal/lib/sl"
	"github.com/magabrotheeeer/member-auth/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения профиля.
type Service interface {
	GetProfile(ctx context.Context, userUID string) (*models.PublicUser, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить профиль текущего пользователя
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/v2/auth/profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	user, err := h.service.GetProfile(r.Context(), userUID)
	if err != nil {
		log.Error("failed to get profile", sl.Err(err))
		w.WriteHeader(apperr.KindOf(err).HTTPStatus())
		render.JSON(w, r, response.Error(apperr.Message(err)))
		return
	}

	log.Info("profile fetched", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OK(map[string]any{
		"user": user,
	}))
}
