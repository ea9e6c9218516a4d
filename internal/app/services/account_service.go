package services

import (
	"github.com/google/uuid"
	"github.com/moneykaki/kaki-core/internal/app/errors"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/infrastructures"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccountService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
}

func NewAccountService(db *gorm.DB, validator *infrastructures.Validator) *AccountService {
	return &AccountService{
		db:        db,
		validator: validator,
	}
}

func (s *AccountService) GetAccount(accountId string) (*models.Account, error) {
	accountUUID, err := uuid.Parse(accountId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid account ID format")
	}

	var account models.Account
	err = s.db.Where("id = ?", accountUUID).First(&account).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Account not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get account")
	}

	return &account, nil
}

func (s *AccountService) GetAccountsByRole(role models.AccountRole, status *models.AccountStatus) ([]models.Account, error) {
	query := s.db.Where("role = ?", role)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var accounts []models.Account
	if err := query.Order("created_at DESC").Find(&accounts).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get accounts")
	}
	return accounts, nil
}

func (s *AccountService) UpdateAccount(accountId string, req *models.AccountUpdateRequest) (*models.Account, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	account, err := s.GetAccount(accountId)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		account.FullName = *req.FullName
	}
	if req.ContactNumber != nil {
		account.ContactNumber = *req.ContactNumber
	}
	if req.ProfilePicture != nil {
		account.ProfilePicture = req.ProfilePicture
	}
	if req.Status != nil {
		account.Status = *req.Status
	}
	if req.Credits != nil {
		if req.Credits.IsNegative() {
			return nil, errors.NewBadRequestError("Credits cannot be negative")
		}
		account.Credits = *req.Credits
	}
	if req.Points != nil {
		account.Points = *req.Points
	}
	if req.AdvisorID != nil {
		advisorUUID, err := uuid.Parse(*req.AdvisorID)
		if err != nil {
			return nil, errors.NewBadRequestError("Invalid advisor ID format")
		}
		account.AdvisorID = &advisorUUID
	}

	if err := s.db.Save(account).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update account")
	}

	return account, nil
}

// ToggleStatus flips an account between active and inactive; activation is
// how pending registrations get admitted.
func (s *AccountService) ToggleStatus(accountId string) (*models.Account, error) {
	account, err := s.GetAccount(accountId)
	if err != nil {
		return nil, err
	}

	if account.Status == models.AccountStatusActive {
		account.Status = models.AccountStatusInactive
	} else {
		account.Status = models.AccountStatusActive
	}

	if err := s.db.Save(account).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update account status")
	}
	return account, nil
}

// DeleteAccount soft-deletes the account and cascades to its owned records.
func (s *AccountService) DeleteAccount(accountId string) error {
	account, err := s.GetAccount(accountId)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", account.ID).Delete(&models.Challenge{}).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to delete account challenges")
		}
		if err := tx.Where("assignee_id = ?", account.ID).Delete(&models.RewardAssignment{}).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to delete account reward assignments")
		}
		if err := tx.Where("user_id = ?", account.ID).Delete(&models.Goal{}).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to delete account goals")
		}
		if err := tx.Where("user_id = ?", account.ID).Delete(&models.Saving{}).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to delete account savings")
		}
		if err := tx.Delete(account).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to delete account")
		}
		return nil
	})
}

func (s *AccountService) GetPoints(accountId string) (int64, error) {
	account, err := s.GetAccount(accountId)
	if err != nil {
		return 0, err
	}
	return account.Points, nil
}

// AddPoints credits points atomically. Points are only ever decremented
// through an explicit sufficiency-checked redemption or an admin edit.
func (s *AccountService) AddPoints(tx *gorm.DB, accountID uuid.UUID, points int64) error {
	result := tx.Model(&models.Account{}).
		Where("id = ?", accountID).
		UpdateColumn("points", gorm.Expr("points + ?", points))
	if result.Error != nil {
		return errors.NewInternalServerError(result.Error, "Failed to update account points")
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("Account not found")
	}
	return nil
}

// AddCredits credits the advisor balance atomically.
func (s *AccountService) AddCredits(tx *gorm.DB, accountID uuid.UUID, amount decimal.Decimal) error {
	result := tx.Model(&models.Account{}).
		Where("id = ?", accountID).
		UpdateColumn("credits", gorm.Expr("credits + ?", amount))
	if result.Error != nil {
		return errors.NewInternalServerError(result.Error, "Failed to update account credits")
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("Account not found")
	}
	return nil
}

// SpendPoints debits points with the sufficiency check inside the UPDATE, so
// two concurrent redemptions cannot both pass it.
func (s *AccountService) SpendPoints(tx *gorm.DB, accountID uuid.UUID, points int64) error {
	result := tx.Model(&models.Account{}).
		Where("id = ? AND points >= ?", accountID, points).
		UpdateColumn("points", gorm.Expr("points - ?", points))
	if result.Error != nil {
		return errors.NewInternalServerError(result.Error, "Failed to update account points")
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Account{}).Where("id = ?", accountID).Count(&count).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to check account")
		}
		if count == 0 {
			return errors.NewNotFoundError("Account not found")
		}
		return errors.NewUnprocessableEntityError(errors.CodeInsufficientBalance, "Not enough points")
	}
	return nil
}
