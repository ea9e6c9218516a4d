package services

import (
	"github.com/google/uuid"
	"github.com/moneykaki/kaki-core/internal/app/errors"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/infrastructures"
	"gorm.io/gorm"
)

type RewardService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
}

func NewRewardService(db *gorm.DB, validator *infrastructures.Validator) *RewardService {
	return &RewardService{
		db:        db,
		validator: validator,
	}
}

func (s *RewardService) CreateReward(req *models.RewardCreateRequest) (*models.Reward, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	reward := &models.Reward{
		Picture: req.Picture,
		Name:    req.Name,
		Price:   req.Price,
		Codes:   models.CodePool{},
	}

	if err := s.db.Create(reward).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create reward")
	}
	return reward, nil
}

func (s *RewardService) GetReward(rewardId string) (*models.Reward, error) {
	rewardUUID, err := uuid.Parse(rewardId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid reward ID format")
	}

	var reward models.Reward
	err = s.db.Where("id = ?", rewardUUID).First(&reward).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Reward not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get reward")
	}
	return &reward, nil
}

func (s *RewardService) GetRewards() ([]models.Reward, error) {
	var rewards []models.Reward
	if err := s.db.Order("created_at DESC").Find(&rewards).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get rewards")
	}
	return rewards, nil
}

// RewardWithAvailability augments the catalog listing with the live count of
// unredeemed codes.
type RewardWithAvailability struct {
	models.Reward
	AvailableQuantity int `json:"available_quantity"`
}

func (s *RewardService) GetRewardsWithAvailableQuantity() ([]RewardWithAvailability, error) {
	rewards, err := s.GetRewards()
	if err != nil {
		return nil, err
	}

	result := make([]RewardWithAvailability, 0, len(rewards))
	for _, reward := range rewards {
		result = append(result, RewardWithAvailability{
			Reward:            reward,
			AvailableQuantity: reward.AvailableQuantity(),
		})
	}
	return result, nil
}

func (s *RewardService) UpdateReward(rewardId string, req *models.RewardUpdateRequest) (*models.Reward, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	reward, err := s.GetReward(rewardId)
	if err != nil {
		return nil, err
	}

	if req.Picture != nil {
		reward.Picture = *req.Picture
	}
	if req.Name != nil {
		reward.Name = *req.Name
	}
	if req.Price != nil {
		reward.Price = *req.Price
	}

	if err := s.db.Save(reward).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update reward")
	}
	return reward, nil
}

func (s *RewardService) DeleteReward(rewardId string) error {
	reward, err := s.GetReward(rewardId)
	if err != nil {
		return err
	}

	if err := s.db.Delete(reward).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to delete reward")
	}
	return nil
}

func (s *RewardService) AddCode(rewardId string, req *models.RewardAddCodeRequest) (*models.Reward, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	return s.mutateCodes(rewardId, func(pool models.CodePool) (models.CodePool, error) {
		return append(pool, models.RewardCode{Code: req.Code}), nil
	})
}

func (s *RewardService) AddCodes(rewardId string, req *models.RewardAddCodesRequest) (*models.Reward, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	return s.mutateCodes(rewardId, func(pool models.CodePool) (models.CodePool, error) {
		for _, code := range req.Codes {
			pool = append(pool, models.RewardCode{Code: code})
		}
		return pool, nil
	})
}

// RemoveCode drops an unredeemed code from the pool. Redeemed entries stay:
// the is_redeemed flag only ever moves forward and the audit trail depends
// on allocated codes staying on the row.
func (s *RewardService) RemoveCode(rewardId string, req *models.RewardRemoveCodeRequest) (*models.Reward, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	return s.mutateCodes(rewardId, func(pool models.CodePool) (models.CodePool, error) {
		updated := make(models.CodePool, 0, len(pool))
		removed := false
		for _, entry := range pool {
			if !removed && !entry.IsRedeemed && entry.Code == req.Code {
				removed = true
				continue
			}
			updated = append(updated, entry)
		}
		if !removed {
			return nil, errors.NewNotFoundError("Code not found in reward")
		}
		return updated, nil
	})
}

// mutateCodes applies fn to the pool under the reward's code version guard,
// so concurrent pool edits and allocations cannot silently overwrite each
// other.
func (s *RewardService) mutateCodes(rewardId string, fn func(models.CodePool) (models.CodePool, error)) (*models.Reward, error) {
	reward, err := s.GetReward(rewardId)
	if err != nil {
		return nil, err
	}

	updated, err := fn(reward.Codes)
	if err != nil {
		return nil, err
	}

	result := s.db.Model(&models.Reward{}).
		Where("id = ? AND code_version = ?", reward.ID, reward.CodeVersion).
		Updates(map[string]interface{}{
			"codes":        updated,
			"code_version": reward.CodeVersion + 1,
		})
	if result.Error != nil {
		return nil, errors.NewInternalServerError(result.Error, "Failed to update reward codes")
	}
	if result.RowsAffected == 0 {
		return nil, errors.NewConflictError(errors.CodeConflict, "Reward codes were modified concurrently, retry")
	}

	reward.Codes = updated
	reward.CodeVersion++
	return reward, nil
}
