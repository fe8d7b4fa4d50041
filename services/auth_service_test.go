package services

import (
	"testing"
	"time"

	"github.com/userChris26/Macros-sub000/models"
	"github.com/userChris26/Macros-sub000/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	mailer := newFakeMailer()
	svc := NewAuthService(db, mailer, testSecret)

	require.NoError(t, svc.Register("  New@Example.COM ", "hunter2hunter2", "New", "User"))

	var user models.User
	require.NoError(t, db.Where("email = ?", "new@example.com").First(&user).Error)
	assert.False(t, user.Verified)
	assert.NotEmpty(t, user.VerifyToken)
	assert.NotEqual(t, "hunter2hunter2", user.Password, "password must be stored hashed")
	assert.Equal(t, user.VerifyToken, mailer.verifications["new@example.com"])

	t.Run("duplicate email conflicts", func(t *testing.T) {
		err := svc.Register("new@example.com", "hunter2hunter2", "New", "User")
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("rejects weak input", func(t *testing.T) {
		assert.ErrorIs(t, svc.Register("no-at-sign", "hunter2hunter2", "A", "B"), ErrValidation)
		assert.ErrorIs(t, svc.Register("ok@example.com", "short", "A", "B"), ErrValidation)
		assert.ErrorIs(t, svc.Register("ok@example.com", "hunter2hunter2", "", "B"), ErrValidation)
	})

	t.Run("mail failure does not fail registration", func(t *testing.T) {
		mailer.err = assert.AnError
		assert.NoError(t, svc.Register("quiet@example.com", "hunter2hunter2", "Quiet", "User"))
	})
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, newFakeMailer(), testSecret)
	require.NoError(t, svc.Register("u1@example.com", "hunter2hunter2", "Test", "User"))

	token, err := svc.Login("U1@example.com", "hunter2hunter2")
	require.NoError(t, err)

	claims, err := utils.ParseJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", claims["email"])
	assert.Equal(t, "Test User", claims["name"])

	_, err = svc.Login("u1@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login("nobody@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifyEmail(t *testing.T) {
	db := setupTestDB(t)
	mailer := newFakeMailer()
	svc := NewAuthService(db, mailer, testSecret)
	require.NoError(t, svc.Register("u1@example.com", "hunter2hunter2", "Test", "User"))

	code := mailer.verifications["u1@example.com"]
	require.NotEmpty(t, code)

	assert.ErrorIs(t, svc.VerifyEmail("bogus"), ErrNotFound)
	require.NoError(t, svc.VerifyEmail(code))

	var user models.User
	require.NoError(t, db.Where("email = ?", "u1@example.com").First(&user).Error)
	assert.True(t, user.Verified)
	assert.Empty(t, user.VerifyToken, "a verification code is single-use")

	t.Run("expired code is rejected", func(t *testing.T) {
		require.NoError(t, svc.Register("late@example.com", "hunter2hunter2", "Late", "User"))
		var late models.User
		require.NoError(t, db.Where("email = ?", "late@example.com").First(&late).Error)
		late.VerifyTokenExp = time.Now().Add(-time.Minute)
		require.NoError(t, db.Save(&late).Error)

		assert.ErrorIs(t, svc.VerifyEmail(late.VerifyToken), ErrValidation)
	})
}

func TestPasswordReset(t *testing.T) {
	db := setupTestDB(t)
	mailer := newFakeMailer()
	svc := NewAuthService(db, mailer, testSecret)
	require.NoError(t, svc.Register("u1@example.com", "hunter2hunter2", "Test", "User"))

	t.Run("unknown email is indistinguishable from success", func(t *testing.T) {
		assert.NoError(t, svc.ForgotPassword("nobody@example.com"))
		assert.Empty(t, mailer.resets)
	})

	require.NoError(t, svc.ForgotPassword("u1@example.com"))
	code := mailer.resets["u1@example.com"]
	require.NotEmpty(t, code)

	t.Run("reset changes the password and burns the code", func(t *testing.T) {
		require.NoError(t, svc.ResetPassword(code, "newpassword123"))

		_, err := svc.Login("u1@example.com", "hunter2hunter2")
		assert.ErrorIs(t, err, ErrUnauthorized)
		_, err = svc.Login("u1@example.com", "newpassword123")
		assert.NoError(t, err)

		assert.ErrorIs(t, svc.ResetPassword(code, "anotherpassword"), ErrNotFound)
	})

	t.Run("expired code is rejected", func(t *testing.T) {
		require.NoError(t, svc.ForgotPassword("u1@example.com"))
		var user models.User
		require.NoError(t, db.Where("email = ?", "u1@example.com").First(&user).Error)
		user.ResetTokenExp = time.Now().Add(-time.Minute)
		require.NoError(t, db.Save(&user).Error)

		assert.ErrorIs(t, svc.ResetPassword(user.ResetToken, "newpassword123"), ErrValidation)
	})
}

func TestRefresh(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "u1@example.com")
	svc := NewAuthService(db, newFakeMailer(), testSecret)

	t.Run("re-issues from an already expired token", func(t *testing.T) {
		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"userId": float64(user.ID),
			"email":  user.Email,
			"exp":    time.Now().Add(-time.Hour).Unix(),
		})
		old, err := expired.SignedString(testSecret)
		require.NoError(t, err)

		_, err = utils.ParseJWT(old, testSecret)
		require.Error(t, err, "the old token must be past validation")

		fresh, err := svc.Refresh(old)
		require.NoError(t, err)

		claims, err := utils.ParseJWT(fresh, testSecret)
		require.NoError(t, err)
		assert.Equal(t, float64(user.ID), claims["userId"])
	})

	t.Run("wrong signature is rejected", func(t *testing.T) {
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"userId": float64(user.ID),
			"exp":    time.Now().Add(time.Hour).Unix(),
		})
		tok, err := forged.SignedString([]byte("other-secret"))
		require.NoError(t, err)

		_, err = svc.Refresh(tok)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("deleted user cannot refresh", func(t *testing.T) {
		ghost := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"userId": float64(9999),
			"exp":    time.Now().Add(time.Hour).Unix(),
		})
		tok, err := ghost.SignedString(testSecret)
		require.NoError(t, err)

		_, err = svc.Refresh(tok)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}
