package dbhelper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/addwise/authapi/models"
	"github.com/addwise/authapi/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// NewUser is the input to Credentials.Create. A nil Password creates an
// account that cannot log in with a local password.
type NewUser struct {
	Name          string `validate:"required,max=120"`
	Email         string `validate:"required,email,max=320"`
	Password      *string
	EmailVerified bool
}

// Credentials owns validation, email normalisation and password hashing on
// top of a UserStore.
type Credentials struct {
	store    UserStore
	validate *validator.Validate
	now      func() time.Time
}

func NewCredentials(store UserStore) *Credentials {
	return &Credentials{store: store, validate: validator.New(), now: time.Now}
}

func (c *Credentials) Create(ctx context.Context, in NewUser) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = utils.NormalizeEmail(in.Email)
	if err := c.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}
	if in.Password != nil && *in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", utils.ErrValidation)
	}

	_, err := c.store.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil, utils.ErrDuplicateIdentity
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, err
	}

	now := c.now().UTC()
	user := &models.User{
		ID:              uuid.NewString(),
		Name:            in.Name,
		Email:           in.Email,
		IsEmailVerified: in.EmailVerified,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.Password != nil {
		hash, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.PasswordHash = hash
	}
	if err := c.store.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Credentials) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return c.store.FindByEmail(ctx, utils.NormalizeEmail(email))
}

func (c *Credentials) FindByID(ctx context.Context, id string) (*models.User, error) {
	return c.store.FindByID(ctx, id)
}

// VerifyPassword is always false for accounts without a local password.
func (c *Credentials) VerifyPassword(user *models.User, rawPassword string) bool {
	if user == nil || !user.HasPassword() {
		return false
	}
	return utils.ComparePasswords(user.PasswordHash, rawPassword) == nil
}

// Update applies the non-blank fields of patch and persists the user in a
// single save. Any other pending change on user, such as a cleared reset
// code, is written by the same save.
func (c *Credentials) Update(ctx context.Context, user *models.User, patch models.UserPatch) error {
	if name := trimmed(patch.Name); name != "" {
		if err := c.validate.Var(name, "max=120"); err != nil {
			return fmt.Errorf("%w: %v", utils.ErrValidation, err)
		}
		user.Name = name
	}
	if email := utils.NormalizeEmail(deref(patch.Email)); email != "" && email != user.Email {
		if err := c.validate.Var(email, "email,max=320"); err != nil {
			return fmt.Errorf("%w: %v", utils.ErrValidation, err)
		}
		existing, err := c.store.FindByEmail(ctx, email)
		if err == nil && existing.ID != user.ID {
			return utils.ErrDuplicateIdentity
		}
		if err != nil && !errors.Is(err, utils.ErrNotFound) {
			return err
		}
		user.Email = email
	}
	if patch.Password != nil && *patch.Password != "" {
		hash, err := utils.HashPassword(*patch.Password)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}
		user.PasswordHash = hash
	}
	return c.Save(ctx, user)
}

func (c *Credentials) Save(ctx context.Context, user *models.User) error {
	user.UpdatedAt = c.now().UTC()
	return c.store.Save(ctx, user)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func trimmed(s *string) string {
	return strings.TrimSpace(deref(s))
}
