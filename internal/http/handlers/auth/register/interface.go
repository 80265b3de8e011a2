package register

import (
	"context"

	"github.com/magabrotheeeer/member-auth/internal/models"
)

type Service interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
}
