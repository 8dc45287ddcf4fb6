package services

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"justeat/apperr"
	"justeat/jwt"
	"justeat/models"
	"justeat/repository"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidatePassword requires 8 to 50 characters mixing upper and lower case,
// digits and symbols, without spaces.
func ValidatePassword(password string) bool {
	if len(password) < 8 || len(password) > 50 {
		return false
	}

	var isUpper, isLower, isNumber, isSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return false
		case unicode.IsUpper(r):
			isUpper = true
		case unicode.IsLower(r):
			isLower = true
		case unicode.IsDigit(r):
			isNumber = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			isSpecial = true
		}
	}
	return isUpper && isLower && isNumber && isSpecial
}

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID  uint
	Role    models.Role
	TokenID string
}

type AuthService struct {
	db     *gorm.DB
	tokens *jwt.Manager
	log    logrus.FieldLogger
}

func NewAuthService(db *gorm.DB, tokens *jwt.Manager, log logrus.FieldLogger) *AuthService {
	return &AuthService{db: db, tokens: tokens, log: log}
}

type RegisterInput struct {
	Name     string      `json:"name" binding:"required,max=100"`
	Email    string      `json:"email" binding:"required"`
	Phone    string      `json:"phone" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Role     models.Role `json:"role"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Role == "" {
		in.Role = models.RoleCustomer
	}
	switch {
	case !ValidateEmail(in.Email):
		return nil, apperr.New(apperr.ErrValidation, "Invalid email address")
	case !ValidatePhone(in.Phone):
		return nil, apperr.New(apperr.ErrValidation, "Invalid phone number")
	case !ValidatePassword(in.Password):
		return nil, apperr.New(apperr.ErrValidation,
			"Password must be 8-50 characters with upper and lower case letters, a digit and a symbol")
	case !in.Role.Valid():
		return nil, apperr.New(apperr.ErrValidation, "Invalid role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Persistence(err, "Error creating account")
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: string(hash),
		Role:     in.Role,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		if taken, err := users.EmailTaken(in.Email, 0); err != nil {
			return err
		} else if taken {
			return apperr.New(apperr.ErrConflict, "Email already registered")
		}
		if taken, err := users.PhoneTaken(in.Phone, 0); err != nil {
			return err
		} else if taken {
			return apperr.New(apperr.ErrConflict, "Phone number already registered")
		}
		return users.Create(user)
	})
	if err != nil {
		return nil, apperr.Persistence(err, "Error creating account")
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User registered")
	return user, nil
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Login checks the password and issues a bearer token recorded as a
// LoginToken. Expired tokens of the user are pruned on the way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	invalid := apperr.New(apperr.ErrUnauthenticated, "Invalid email or password")

	users := repository.NewUserRepository(s.db.WithContext(ctx))
	user, err := users.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if isNotFound(err) {
		return nil, invalid
	}
	if err != nil {
		return nil, apperr.Persistence(err, "Error logging in")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.WithField("user_id", user.ID).Warn("Failed login attempt")
		return nil, invalid
	}

	issued, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperr.Persistence(err, "Error logging in")
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		if err := users.DeleteExpiredLoginTokens(user.ID, time.Now()); err != nil {
			return err
		}
		return users.CreateLoginToken(&models.LoginToken{
			TokenID:        issued.TokenID,
			ExpirationTime: issued.ExpiresAt,
			UserID:         user.ID,
			Role:           user.Role,
		})
	})
	if err != nil {
		return nil, apperr.Persistence(err, "Error logging in")
	}

	s.log.WithField("user_id", user.ID).Info("User logged in")
	return &LoginResult{Token: issued.Token, ExpiresAt: issued.ExpiresAt, User: user}, nil
}

// Authenticate verifies a bearer token and checks it has not been revoked.
func (s *AuthService) Authenticate(ctx context.Context, token string) (Identity, error) {
	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return Identity{}, apperr.New(apperr.ErrUnauthenticated, "Invalid or expired token")
	}
	if _, err := repository.NewUserRepository(s.db.WithContext(ctx)).FindLoginToken(claims.ID); err != nil {
		if isNotFound(err) {
			return Identity{}, apperr.New(apperr.ErrUnauthenticated, "Token has been revoked")
		}
		return Identity{}, apperr.Persistence(err, "Error verifying token")
	}
	return Identity{UserID: claims.UserID, Role: claims.Role, TokenID: claims.ID}, nil
}

// Logout revokes the token of the current session.
func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	err := repository.NewUserRepository(s.db.WithContext(ctx)).DeleteLoginToken(tokenID)
	return apperr.Persistence(err, "Error logging out")
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := repository.NewUserRepository(s.db.WithContext(ctx)).FindByID(userID)
	if err != nil {
		return nil, apperr.Persistence(notFound(err, "User not found"), "Error reading profile")
	}
	return user, nil
}

type ProfileInput struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if !ValidateEmail(in.Email) {
		return nil, apperr.New(apperr.ErrValidation, "Invalid email address")
	}
	if !ValidatePhone(in.Phone) {
		return nil, apperr.New(apperr.ErrValidation, "Invalid phone number")
	}

	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		var err error
		if user, err = users.FindByID(userID); err != nil {
			return notFound(err, "User not found")
		}
		if taken, err := users.EmailTaken(in.Email, userID); err != nil {
			return err
		} else if taken {
			return apperr.New(apperr.ErrConflict, "Email already registered")
		}
		if taken, err := users.PhoneTaken(in.Phone, userID); err != nil {
			return err
		} else if taken {
			return apperr.New(apperr.ErrConflict, "Phone number already registered")
		}
		user.Name, user.Email, user.Phone = in.Name, in.Email, in.Phone
		return users.Update(user, map[string]interface{}{"name": in.Name, "email": in.Email, "phone": in.Phone})
	})
	if err != nil {
		return nil, apperr.Persistence(err, "Error updating profile")
	}
	return user, nil
}
