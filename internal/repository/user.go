// Package repository contains the GORM-backed data access layer. Each
// repository exposes an interface so services can be unit-tested against
// stubs, and a WithTx method so multi-write service methods can scope all
// their statements to one transaction.
package repository

import (
	"errors"

	"gorm.io/gorm"

	"lets/internal/models"
)

// UserRepository handles user persistence.
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint) (*models.User, error)
	FindBySocial(socialLoginID, authProvider string) (*models.User, error)
	ExistsBySocial(socialLoginID, authProvider string) (bool, error)
	ExistsByNickname(nickname string) (bool, error)
	Update(user *models.User) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) UserRepository
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	if tx == nil {
		return r
	}
	return &userRepository{db: tx}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("user", id)
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindBySocial(socialLoginID, authProvider string) (*models.User, error) {
	var user models.User
	err := r.db.Where("social_login_id = ? AND auth_provider = ?", socialLoginID, authProvider).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundMessageError("user not found for social account")
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsBySocial(socialLoginID, authProvider string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("social_login_id = ? AND auth_provider = ?", socialLoginID, authProvider).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ExistsByNickname(nickname string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("nickname = ?", nickname).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) Delete(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}
