package repository

import (
	"time"

	"gorm.io/gorm"

	"justeat/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	return r.db.Omit("LoginTokens").Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailTaken reports whether another user than exceptID owns the email.
func (r *UserRepository) EmailTaken(email string, exceptID uint) (bool, error) {
	return exists(r.db.Model(&models.User{}).Where("email = ? AND id <> ?", email, exceptID))
}

func (r *UserRepository) PhoneTaken(phone string, exceptID uint) (bool, error) {
	return exists(r.db.Model(&models.User{}).Where("phone = ? AND id <> ?", phone, exceptID))
}

func (r *UserRepository) Update(user *models.User, fields map[string]interface{}) error {
	return r.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(fields).Error
}

func (r *UserRepository) CreateLoginToken(token *models.LoginToken) error {
	return r.db.Create(token).Error
}

func (r *UserRepository) FindLoginToken(tokenID string) (*models.LoginToken, error) {
	var token models.LoginToken
	if err := r.db.Where("token_id = ?", tokenID).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *UserRepository) DeleteLoginToken(tokenID string) error {
	return r.db.Unscoped().Where("token_id = ?", tokenID).Delete(&models.LoginToken{}).Error
}

func (r *UserRepository) DeleteExpiredLoginTokens(userID uint, now time.Time) error {
	return r.db.Unscoped().Where("user_id = ? AND expiration_time < ?", userID, now).Delete(&models.LoginToken{}).Error
}
