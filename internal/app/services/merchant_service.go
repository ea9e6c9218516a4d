package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/moneykaki/kaki-core/internal/app/errors"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/infrastructures"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MerchantService struct {
	db             *gorm.DB
	validator      *infrastructures.Validator
	accountService *AccountService
}

func NewMerchantService(db *gorm.DB, validator *infrastructures.Validator, accountService *AccountService) *MerchantService {
	return &MerchantService{
		db:             db,
		validator:      validator,
		accountService: accountService,
	}
}

func (s *MerchantService) CreateMerchant(req *models.MerchantCreateRequest) (*models.Merchant, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	merchant := &models.Merchant{
		Image:    req.Image,
		Name:     req.Name,
		Points:   req.Points,
		Quantity: req.Quantity,
		Code:     req.Code,
	}
	if req.Discount != nil {
		merchant.Discount = *req.Discount
	}

	if err := s.db.Create(merchant).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create merchant")
	}
	return merchant, nil
}

func (s *MerchantService) GetMerchant(merchantId string) (*models.Merchant, error) {
	merchantUUID, err := uuid.Parse(merchantId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid merchant ID format")
	}

	var merchant models.Merchant
	err = s.db.Where("id = ?", merchantUUID).First(&merchant).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Merchant not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get merchant")
	}
	return &merchant, nil
}

// GetAvailableMerchants lists in-stock offers with voucher codes stripped.
func (s *MerchantService) GetAvailableMerchants() ([]models.Merchant, error) {
	var merchants []models.Merchant
	err := s.db.Where("quantity > 0").Order("points ASC").Find(&merchants).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get merchants")
	}

	public := make([]models.Merchant, len(merchants))
	for i, m := range merchants {
		public[i] = m.Public()
	}
	return public, nil
}

func (s *MerchantService) GetMerchants() ([]models.Merchant, error) {
	var merchants []models.Merchant
	err := s.db.Order("created_at DESC").Find(&merchants).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get merchants")
	}
	return merchants, nil
}

func (s *MerchantService) UpdateMerchant(merchantId string, req *models.MerchantUpdateRequest) (*models.Merchant, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	merchant, err := s.GetMerchant(merchantId)
	if err != nil {
		return nil, err
	}

	if req.Image != nil {
		merchant.Image = *req.Image
	}
	if req.Name != nil {
		merchant.Name = *req.Name
	}
	if req.Discount != nil {
		merchant.Discount = *req.Discount
	}
	if req.Points != nil {
		merchant.Points = *req.Points
	}
	if req.Quantity != nil {
		merchant.Quantity = *req.Quantity
	}
	if req.Code != nil {
		merchant.Code = *req.Code
	}

	if err := s.db.Save(merchant).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update merchant")
	}
	return merchant, nil
}

func (s *MerchantService) DeleteMerchant(merchantId string) error {
	merchant, err := s.GetMerchant(merchantId)
	if err != nil {
		return err
	}

	if err := s.db.Delete(merchant).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to delete merchant")
	}
	return nil
}

// RedeemMerchant spends the user's points on one unit of the offer. Stock
// decrement, point debit and the redemption record commit together or not
// at all.
func (s *MerchantService) RedeemMerchant(userID uuid.UUID, merchantId string) (*models.MerchantRedeemResult, error) {
	merchantUUID, err := uuid.Parse(merchantId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid merchant ID format")
	}

	var result *models.MerchantRedeemResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var merchant models.Merchant
		err := tx.Where("id = ?", merchantUUID).First(&merchant).Error
		if err == gorm.ErrRecordNotFound {
			return errors.NewNotFoundError("Merchant not found")
		}
		if err != nil {
			return errors.NewInternalServerError(err, "Failed to get merchant")
		}

		// Only the caller that wins the conditional decrement gets the unit.
		decrement := tx.Model(&models.Merchant{}).
			Where("id = ? AND quantity > 0", merchant.ID).
			UpdateColumn("quantity", gorm.Expr("quantity - 1"))
		if decrement.Error != nil {
			return errors.NewInternalServerError(decrement.Error, "Failed to redeem merchant offer")
		}
		if decrement.RowsAffected == 0 {
			return errors.NewUnprocessableEntityError(errors.CodeInsufficientInventory, "Merchant offer is out of stock")
		}

		if err := s.accountService.SpendPoints(tx, userID, merchant.Points); err != nil {
			return err
		}

		description := fmt.Sprintf("Redeemed %s offer", merchant.Name)
		record := &models.Transaction{
			AccountID:   userID,
			Type:        models.TransactionTypeMerchantRedemption,
			Amount:      decimal.NewFromInt(merchant.Points),
			Description: &description,
			Date:        time.Now(),
			Status:      models.TransactionStatusCompleted,
		}
		if err := tx.Create(record).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to record redemption")
		}

		var account models.Account
		if err := tx.Where("id = ?", userID).First(&account).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to get account")
		}

		publicMerchant := merchant.Public()
		result = &models.MerchantRedeemResult{
			Merchant:        &publicMerchant,
			Code:            merchant.Code,
			PointsSpent:     merchant.Points,
			RemainingPoints: account.Points,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
