package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/moneykaki/kaki-core/internal/app/errors"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/app/pkg"
	"github.com/moneykaki/kaki-core/internal/infrastructures"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
	mailer    Mailer
}

func NewAuthService(db *gorm.DB, validator *infrastructures.Validator, mailer Mailer) *AuthService {
	return &AuthService{
		db:        db,
		validator: validator,
		mailer:    mailer,
	}
}

// Register creates an inactive account and emails a 4-digit verification
// code. Advisors and users share the flow; the role comes from the request.
func (s *AuthService) Register(req *models.AccountCreateRequest) (*models.Account, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var existing models.Account
	err := s.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return nil, errors.NewConflictError(errors.CodeConflict, "Account already exists with this email")
	}
	if err != gorm.ErrRecordNotFound {
		return nil, errors.NewInternalServerError(err, "Failed to check existing account")
	}

	role := models.AccountRoleUser
	if req.Role != "" {
		role = models.AccountRole(req.Role)
	}

	code := pkg.RandomEmailCode()
	account := &models.Account{
		FullName:      req.FullName,
		Email:         req.Email,
		ContactNumber: req.ContactNumber,
		Role:          role,
		Status:        models.AccountStatusInactive,
		EmailCode:     &code,
	}

	if req.AdvisorID != nil {
		advisorUUID, err := uuid.Parse(*req.AdvisorID)
		if err != nil {
			return nil, errors.NewBadRequestError("Invalid advisor ID format")
		}
		account.AdvisorID = &advisorUUID
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create account")
	}

	if err := s.mailer.SendVerificationEmail(account.FullName, account.Email, code); err != nil {
		logrus.Errorf("failed to send verification email to %s: %v", account.Email, err)
	}

	return account, nil
}

func (s *AuthService) VerifyEmail(req *models.VerifyEmailRequest) (*models.Account, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var account models.Account
	if err := s.db.Where("email = ?", req.Email).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewBadRequestError("Invalid code or email")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get account")
	}

	if account.EmailCode == nil || *account.EmailCode != req.EmailCode {
		return nil, errors.NewBadRequestError("Invalid code or email")
	}

	account.EmailVerified = true
	account.EmailCode = nil
	if err := s.db.Save(&account).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update account")
	}

	return &account, nil
}

func (s *AuthService) CreatePassword(req *models.CreatePasswordRequest) (*models.Account, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var account models.Account
	if err := s.db.Where("email = ?", req.Email).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Account not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get account")
	}

	if !account.EmailVerified {
		return nil, errors.NewBadRequestError("Email is not verified")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to hash password")
	}

	account.Password = string(hash)
	if err := s.db.Save(&account).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update account")
	}

	return &account, nil
}

func (s *AuthService) Login(req *models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var account models.Account
	if err := s.db.Where("email = ?", req.Email).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewUnauthorizedError("Invalid email or password")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get account")
	}

	if account.Password == "" {
		return nil, errors.NewUnauthorizedError("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		return nil, errors.NewUnauthorizedError("Invalid email or password")
	}

	if account.Status != models.AccountStatusActive {
		return nil, errors.NewForbiddenError("Account is not active")
	}

	token, err := s.GenerateToken(&account)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{Token: token, Account: &account}, nil
}

func (s *AuthService) GenerateToken(account *models.Account) (string, error) {
	claims := AuthClaims{
		Role: string(account.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(infrastructures.Config.JWT_SECRET))
	if err != nil {
		return "", errors.NewInternalServerError(err, "Failed to sign token")
	}
	return signed, nil
}

func (s *AuthService) ParseToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(infrastructures.Config.JWT_SECRET), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.NewUnauthorizedError("Invalid token")
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok {
		return nil, errors.NewUnauthorizedError("Invalid token")
	}
	return claims, nil
}

func (s *AuthService) RequestPasswordReset(req *models.PasswordResetRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	var account models.Account
	if err := s.db.Where("email = ?", req.Email).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// Do not reveal whether the email is registered.
			return nil
		}
		return errors.NewInternalServerError(err, "Failed to get account")
	}

	code := pkg.RandomEmailCode()
	account.ResetCode = &code
	if err := s.db.Save(&account).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to update account")
	}

	if err := s.mailer.SendPasswordResetEmail(account.FullName, account.Email, code); err != nil {
		logrus.Errorf("failed to send reset email to %s: %v", account.Email, err)
	}
	return nil
}

func (s *AuthService) VerifyResetCode(req *models.VerifyResetCodeRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	var account models.Account
	if err := s.db.Where("email = ?", req.Email).First(&account).Error; err != nil {
		return errors.NewBadRequestError("Invalid code or email")
	}
	if account.ResetCode == nil || *account.ResetCode != req.ResetCode {
		return errors.NewBadRequestError("Invalid code or email")
	}
	return nil
}

func (s *AuthService) ResetPassword(req *models.ResetPasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	var account models.Account
	if err := s.db.Where("email = ?", req.Email).First(&account).Error; err != nil {
		return errors.NewBadRequestError("Invalid code or email")
	}
	if account.ResetCode == nil || *account.ResetCode != req.ResetCode {
		return errors.NewBadRequestError("Invalid code or email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.NewInternalServerError(err, "Failed to hash password")
	}

	account.Password = string(hash)
	account.ResetCode = nil
	if err := s.db.Save(&account).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to update account")
	}
	return nil
}
