package login

import (
	"context"

	"github.com/magabrotheeeer/member-auth/internal/models"
)

type Service interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}
