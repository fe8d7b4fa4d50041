package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/userChris26/Macros-sub000/models"
	"github.com/userChris26/Macros-sub000/utils"

	"gorm.io/gorm"
)

type AuthService struct {
	db     *gorm.DB
	mailer Mailer
	secret []byte
}

func NewAuthService(db *gorm.DB, mailer Mailer, jwtSecret []byte) *AuthService {
	return &AuthService{db: db, mailer: mailer, secret: jwtSecret}
}

const (
	verifyTokenTTL = 24 * time.Hour
	resetTokenTTL  = 15 * time.Minute
)

// Register creates the account and mails a verification code. A failed mail
// send does not fail the registration; the code can be re-requested.
func (s *AuthService) Register(email, password, firstName, lastName string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if firstName == "" || lastName == "" {
		return fmt.Errorf("%w: first and last name are required", ErrValidation)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Email:          email,
		Password:       hashed,
		FirstName:      firstName,
		LastName:       lastName,
		VerifyToken:    utils.GenerateRandomToken(6),
		VerifyTokenExp: time.Now().Add(verifyTokenTTL),
	}
	if err := s.db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return err
	}

	if err := s.mailer.SendVerificationEmail(user.Email, user.VerifyToken); err != nil {
		log.Printf("verification email to %s failed: %v", user.Email, err)
	}
	return nil
}

// Login verifies credentials and issues the access token.
func (s *AuthService) Login(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
		}
		return "", err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return "", fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	return utils.GenerateJWT(&user, s.secret)
}

func (s *AuthService) VerifyEmail(token string) error {
	if token == "" {
		return fmt.Errorf("%w: token is required", ErrValidation)
	}
	var user models.User
	if err := s.db.Where("verify_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: invalid verification token", ErrNotFound)
		}
		return err
	}
	if time.Now().After(user.VerifyTokenExp) {
		return fmt.Errorf("%w: verification token expired", ErrValidation)
	}

	user.Verified = true
	user.VerifyToken = ""
	user.VerifyTokenExp = time.Time{}
	return s.db.Save(&user).Error
}

// ForgotPassword always reports success so callers cannot probe which emails
// exist.
func (s *AuthService) ForgotPassword(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	user.ResetToken = utils.GenerateRandomToken(6)
	user.ResetTokenExp = time.Now().Add(resetTokenTTL)
	if err := s.db.Save(&user).Error; err != nil {
		return err
	}

	if err := s.mailer.SendResetEmail(user.Email, user.ResetToken); err != nil {
		log.Printf("reset email to %s failed: %v", user.Email, err)
	}
	return nil
}

func (s *AuthService) ResetPassword(token, newPassword string) error {
	if token == "" {
		return fmt.Errorf("%w: token is required", ErrValidation)
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	var user models.User
	if err := s.db.Where("reset_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: invalid or expired token", ErrNotFound)
		}
		return err
	}
	if time.Now().After(user.ResetTokenExp) {
		return fmt.Errorf("%w: invalid or expired token", ErrValidation)
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.ResetToken = ""
	user.ResetTokenExp = time.Time{}
	return s.db.Save(&user).Error
}

// Refresh re-issues a token from an existing one. The old token may already
// be expired; only the signature has to check out (sliding refresh).
func (s *AuthService) Refresh(token string) (string, error) {
	claims, err := utils.ParseExpiredJWT(token, s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	id, ok := claims["userId"].(float64)
	if !ok || id <= 0 {
		return "", fmt.Errorf("%w: token carries no user id", ErrUnauthorized)
	}

	var user models.User
	if err := s.db.First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
		}
		return "", err
	}
	return utils.GenerateJWT(&user, s.secret)
}
