package services

import (
	"testing"

	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/infrastructures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubMailer struct {
	verificationSent int
	resetSent        int
	approvalSent     int
}

func (m *stubMailer) SendRewardApprovedEmail(name, to, rewardName string, codes []string) error {
	m.approvalSent++
	return nil
}

func (m *stubMailer) SendVerificationEmail(name, to, code string) error {
	m.verificationSent++
	return nil
}

func (m *stubMailer) SendPasswordResetEmail(name, to, code string) error {
	m.resetSent++
	return nil
}

func newAuthService(db *gorm.DB, mailer Mailer) *AuthService {
	infrastructures.Config = &infrastructures.AppConfig{JWT_SECRET: "test-secret"}
	return NewAuthService(db, newTestValidator(), mailer)
}

func emailCodeFor(t *testing.T, db *gorm.DB, email string) string {
	t.Helper()

	var account models.Account
	require.NoError(t, db.Where("email = ?", email).First(&account).Error)
	require.NotNil(t, account.EmailCode)
	return *account.EmailCode
}

func TestRegistrationFlow(t *testing.T) {
	db := setupTestDB(t)
	mailer := &stubMailer{}
	service := newAuthService(db, mailer)

	account, err := service.Register(&models.AccountCreateRequest{
		FullName:      "Jamie Tan",
		Email:         "jamie@example.com",
		ContactNumber: "81234567",
	})
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusInactive, account.Status)
	assert.False(t, account.EmailVerified)
	assert.Equal(t, 1, mailer.verificationSent)

	// Login is impossible until the email is verified and a password set.
	_, err = service.Login(&models.LoginRequest{Email: "jamie@example.com", Password: "supersecret1"})
	require.Error(t, err)

	code := emailCodeFor(t, db, "jamie@example.com")
	_, err = service.VerifyEmail(&models.VerifyEmailRequest{Email: "jamie@example.com", EmailCode: code})
	require.NoError(t, err)

	_, err = service.CreatePassword(&models.CreatePasswordRequest{Email: "jamie@example.com", Password: "supersecret1"})
	require.NoError(t, err)

	// Activate and log in.
	require.NoError(t, db.Model(&models.Account{}).
		Where("email = ?", "jamie@example.com").
		UpdateColumn("status", models.AccountStatusActive).Error)

	response, err := service.Login(&models.LoginRequest{Email: "jamie@example.com", Password: "supersecret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, response.Token)

	claims, err := service.ParseToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID.String(), claims.Subject)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	service := newAuthService(db, &stubMailer{})

	req := &models.AccountCreateRequest{
		FullName:      "Jamie Tan",
		Email:         "jamie@example.com",
		ContactNumber: "81234567",
	}
	_, err := service.Register(req)
	require.NoError(t, err)

	_, err = service.Register(req)
	require.Error(t, err)
}

func TestVerifyEmailWrongCode(t *testing.T) {
	db := setupTestDB(t)
	service := newAuthService(db, &stubMailer{})

	_, err := service.Register(&models.AccountCreateRequest{
		FullName:      "Jamie Tan",
		Email:         "jamie@example.com",
		ContactNumber: "81234567",
	})
	require.NoError(t, err)

	code := emailCodeFor(t, db, "jamie@example.com")
	wrong := "1234"
	if code == wrong {
		wrong = "5678"
	}

	_, err = service.VerifyEmail(&models.VerifyEmailRequest{Email: "jamie@example.com", EmailCode: wrong})
	require.Error(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	service := newAuthService(db, &stubMailer{})

	_, err := service.Register(&models.AccountCreateRequest{
		FullName:      "Jamie Tan",
		Email:         "jamie@example.com",
		ContactNumber: "81234567",
	})
	require.NoError(t, err)

	code := emailCodeFor(t, db, "jamie@example.com")
	_, err = service.VerifyEmail(&models.VerifyEmailRequest{Email: "jamie@example.com", EmailCode: code})
	require.NoError(t, err)
	_, err = service.CreatePassword(&models.CreatePasswordRequest{Email: "jamie@example.com", Password: "supersecret1"})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Account{}).
		Where("email = ?", "jamie@example.com").
		UpdateColumn("status", models.AccountStatusActive).Error)

	_, err = service.Login(&models.LoginRequest{Email: "jamie@example.com", Password: "wrongpassword"})
	require.Error(t, err)
}
