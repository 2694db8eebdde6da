package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Gorm is a Store backed by gorm. Open connects it to Postgres.
type Gorm struct {
	db *gorm.DB
}

var _ Store = (*Gorm)(nil)

// Open connects to the Postgres database at dsn and migrates the users
// table.
func Open(dsn string, log logger.Interface) (*Gorm, error) {
	cfg := &gorm.Config{}
	if log != nil {
		cfg.Logger = log
	}
	db, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	return NewGorm(db)
}

// NewGorm wraps an existing connection and migrates the users table.
func NewGorm(db *gorm.DB) (*Gorm, error) {
	if db == nil {
		return nil, errors.New("store: gorm db is nil")
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, fmt.Errorf("store: migrate users: %w", err)
	}
	return &Gorm{db: db}, nil
}

// Create implements Store.
func (g *Gorm) Create(ctx context.Context, in NewUser) (User, error) {
	user, err := newUser(in)
	if err != nil {
		return User{}, err
	}
	count, err := g.CountByEmail(ctx, user.Email)
	if err != nil {
		return User{}, err
	}
	if count > 0 {
		return User{}, ErrDuplicateEmail
	}
	if err := g.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return User{}, ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("store: create user: %w", err)
	}
	return user, nil
}

// FindByEmail implements Store.
func (g *Gorm) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := g.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("store: find user: %w", err)
	}
	return user, nil
}

// CountByEmail implements Store.
func (g *Gorm) CountByEmail(ctx context.Context, email string) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&User{}).Where("email = ?", NormalizeEmail(email)).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("store: count users: %w", err)
	}
	return count, nil
}
