package dbhelper

import (
	"context"

	"github.com/addwise/authapi/models"
)

// UserStore persists user documents. Implementations report a missing user as
// utils.ErrNotFound and an email collision as utils.ErrDuplicateIdentity.
// Save writes the whole record in one operation; concurrent saves of the same
// user are last-write-wins.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}
