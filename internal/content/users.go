package content

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/hugomepuich/playafterlife-sub001/internal/auth"
)

// NormalizeEmail lowercases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser stores a new account with the USER role. The password must already be hashed.
func (r *GormRepository) CreateUser(ctx context.Context, email, passwordHash string, name *string) (*UserView, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return nil, eris.New("email is required")
	}

	record := &User{
		Email:    normalized,
		Password: passwordHash,
		Name:     optional(name),
		Role:     auth.RoleUser,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&User{}).Where("email = ?", normalized).Count(&count).Error; err != nil {
			return eris.Wrap(err, "checking email")
		}
		if count > 0 {
			return eris.Wrapf(ErrDuplicate, "user with email %s", normalized)
		}

		return tx.Create(record).Error
	})
	if err != nil {
		return nil, r.writeFailed(err, "user", "creating user")
	}

	view := toUserView(record)
	return &view, nil
}

// UserByEmail returns the stored account, password hash included, for credential checks.
func (r *GormRepository) UserByEmail(ctx context.Context, email string) (*User, error) {
	normalized := NormalizeEmail(email)

	var record User
	if err := r.db.WithContext(ctx).First(&record, "email = ?", normalized).Error; err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, eris.Wrapf(ErrNotFound, "user %s", normalized)
		}
		r.logError(logrus.Fields{"email": normalized}, err, "fetching user by email")
		return nil, eris.Wrap(err, "fetching user by email")
	}

	return &record, nil
}

// GetUser returns the public view of an account.
func (r *GormRepository) GetUser(ctx context.Context, id uint) (*UserView, error) {
	var record User
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, r.readFailed(err, "user", id, "fetching user")
	}

	view := toUserView(&record)
	return &view, nil
}

// RoleForUser returns the current role of an account.
func (r *GormRepository) RoleForUser(ctx context.Context, id uint) (auth.Role, error) {
	var record User
	if err := r.db.WithContext(ctx).Select("id", "role").First(&record, id).Error; err != nil {
		return "", r.readFailed(err, "user", id, "fetching user role")
	}

	return record.Role, nil
}

// ListUsers returns every account ordered by email.
func (r *GormRepository) ListUsers(ctx context.Context, opts ListOptions) ([]UserView, error) {
	var records []User

	query := r.db.WithContext(ctx).Order("email ASC")
	if err := applyLimit(query, opts.Limit).Find(&records).Error; err != nil {
		r.logError(nil, err, "listing users")
		return nil, eris.Wrap(err, "listing users")
	}

	users := make([]UserView, 0, len(records))
	for i := range records {
		users = append(users, toUserView(&records[i]))
	}

	return users, nil
}

// UpdateUserRole sets the role of the account registered under email.
func (r *GormRepository) UpdateUserRole(ctx context.Context, email string, role auth.Role) (*UserView, error) {
	normalized := NormalizeEmail(email)

	var record User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&record, "email = ?", normalized).Error; err != nil {
			if eris.Is(err, gorm.ErrRecordNotFound) {
				return eris.Wrapf(ErrNotFound, "user %s", normalized)
			}
			return err
		}

		if err := tx.Model(&record).Update("role", role).Error; err != nil {
			return err
		}
		record.Role = role
		return nil
	})
	if err != nil {
		return nil, r.writeFailed(err, "user", "updating user role")
	}

	view := toUserView(&record)
	return &view, nil
}
