package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/junaidrashid-git/webshop/models"
)

var (
	// ErrUserNotFound is returned by a Directory lookup with no match.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail rejects a sign-up for an email that is taken.
	ErrDuplicateEmail = errors.New("an account with this email already exists")
)

// Directory holds user records. Records are only ever appended.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int64, error)
}

// GormDirectory stores users in the users table.
type GormDirectory struct {
	db *gorm.DB
}

// NewGormDirectory returns a Directory on db.
func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

// FindByEmail matches the email exactly, case included.
func (d *GormDirectory) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (d *GormDirectory) Create(ctx context.Context, user *models.User) error {
	err := d.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// isUniqueViolation catches drivers that do not translate constraint errors.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func (d *GormDirectory) Count(ctx context.Context) (int64, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

// List returns public user fields, newest first.
func (d *GormDirectory) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := d.db.WithContext(ctx).
		Select("id", "first_name", "last_name", "email", "created_at").
		Order("created_at desc").
		Find(&users).Error
	return users, err
}
