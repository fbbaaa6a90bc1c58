package dbhelper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/addwise/authapi/models"
	"github.com/addwise/authapi/utils"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const MYSQL_ERR_DUPLICATE_KEY = 1062
const GORM_ERR_CODE_DUPLICATE_KEY = "Error 1062"

// GormStore keeps users in a SQL table through gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, user *models.User) error {
	result := s.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return utils.ErrDuplicateIdentity
		}
		return fmt.Errorf("error creating user: %w", result.Error)
	}
	return nil
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *GormStore) Save(ctx context.Context, user *models.User) error {
	result := s.db.WithContext(ctx).Save(user)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return utils.ErrDuplicateIdentity
		}
		return fmt.Errorf("error saving user: %w", result.Error)
	}
	return nil
}

func (s *GormStore) first(ctx context.Context, query string, arg string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return &user, nil
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == MYSQL_ERR_DUPLICATE_KEY
	}
	return strings.HasPrefix(err.Error(), GORM_ERR_CODE_DUPLICATE_KEY)
}
