package services

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/moneykaki/kaki-core/internal/app/errors"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/infrastructures"
	"gorm.io/gorm"
)

type ChallengeService struct {
	db             *gorm.DB
	validator      *infrastructures.Validator
	accountService *AccountService
}

func NewChallengeService(db *gorm.DB, validator *infrastructures.Validator, accountService *AccountService) *ChallengeService {
	return &ChallengeService{
		db:             db,
		validator:      validator,
		accountService: accountService,
	}
}

func (s *ChallengeService) CreateChallenge(createdBy uuid.UUID, req *models.ChallengeCreateRequest) (*models.Challenge, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	userUUID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid user ID format")
	}

	challenge := &models.Challenge{
		UserID:      userUUID,
		CreatedBy:   createdBy,
		Title:       req.Title,
		Points:      req.Points,
		Quantity:    1,
		RewardCodes: models.CodeList{},
	}

	if req.RewardID != nil {
		rewardUUID, err := uuid.Parse(*req.RewardID)
		if err != nil {
			return nil, errors.NewBadRequestError("Invalid reward ID format")
		}
		challenge.RewardID = &rewardUUID
	}
	if req.Quantity != nil {
		challenge.Quantity = *req.Quantity
	}
	if req.OverallPrice != nil {
		challenge.OverallPrice = *req.OverallPrice
	}

	if err := s.db.Create(challenge).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create challenge")
	}
	return challenge, nil
}

func (s *ChallengeService) GetChallenge(challengeId string) (*models.Challenge, error) {
	challengeUUID, err := uuid.Parse(challengeId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid challenge ID format")
	}

	var challenge models.Challenge
	err = s.db.Preload("User").Where("id = ?", challengeUUID).First(&challenge).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Challenge not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get challenge")
	}
	return &challenge, nil
}

func (s *ChallengeService) GetChallengesByCreator(createdBy uuid.UUID) ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := s.db.Preload("User").
		Where("created_by = ?", createdBy).
		Order("created_at DESC").
		Find(&challenges).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get challenges")
	}
	return challenges, nil
}

func (s *ChallengeService) GetChallengesByUser(userID uuid.UUID) ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&challenges).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get challenges")
	}
	return challenges, nil
}

func (s *ChallengeService) UpdateChallenge(challengeId string, req *models.ChallengeUpdateRequest) (*models.Challenge, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	challenge, err := s.GetChallenge(challengeId)
	if err != nil {
		return nil, err
	}

	challenge.Title = req.Title
	if err := s.db.Save(challenge).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update challenge")
	}
	return challenge, nil
}

func (s *ChallengeService) DeleteChallenge(challengeId string) error {
	challenge, err := s.GetChallenge(challengeId)
	if err != nil {
		return err
	}

	if err := s.db.Delete(challenge).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to delete challenge")
	}
	return nil
}

// RedeemChallenge is the user-side challenge completion. Point challenges
// pay out directly, at most once; reward-gated challenges walk the same
// approval workflow as reward assignments.
func (s *ChallengeService) RedeemChallenge(userID uuid.UUID, challengeId string) (*models.ChallengeRedeemResult, error) {
	challengeUUID, err := uuid.Parse(challengeId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid challenge ID format")
	}

	var result *models.ChallengeRedeemResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var challenge models.Challenge
		err := tx.Where("id = ? AND user_id = ?", challengeUUID, userID).First(&challenge).Error
		if err == gorm.ErrRecordNotFound {
			return errors.NewNotFoundError("Challenge not found")
		}
		if err != nil {
			return errors.NewInternalServerError(err, "Failed to get challenge")
		}

		if challenge.HasReward() {
			res, err := s.redeemRewardChallenge(tx, &challenge)
			if err != nil {
				return err
			}
			result = res
			return nil
		}

		if challenge.IsRedeemed {
			return errors.NewConflictError(errors.CodeAlreadyProcessed, "Challenge has already been redeemed")
		}

		var points int64
		if challenge.Points != nil {
			points = *challenge.Points
		}

		// The flag flip is the single-shot guard: only the call that wins
		// the conditional update awards the points.
		update := tx.Model(&models.Challenge{}).
			Where("id = ? AND is_redeemed = ?", challenge.ID, false).
			UpdateColumn("is_redeemed", true)
		if update.Error != nil {
			return errors.NewInternalServerError(update.Error, "Failed to redeem challenge")
		}
		if update.RowsAffected == 0 {
			return errors.NewConflictError(errors.CodeAlreadyProcessed, "Challenge has already been redeemed")
		}

		if points > 0 {
			if err := s.accountService.AddPoints(tx, challenge.UserID, points); err != nil {
				return err
			}
		}

		result = &models.ChallengeRedeemResult{
			Status:        models.RedeemStatusRedeemed,
			PointsAwarded: points,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ChallengeService) redeemRewardChallenge(tx *gorm.DB, challenge *models.Challenge) (*models.ChallengeRedeemResult, error) {
	switch challenge.Status() {
	case models.AssignmentStatusRedeemed:
		return nil, errors.NewConflictError(errors.CodeAlreadyProcessed, "Challenge reward has already been redeemed")

	case models.AssignmentStatusApproved:
		if len(challenge.RewardCodes) == 0 {
			return nil, errors.NewAppErrorWithCode(http.StatusBadRequest, errors.CodeNoCodesAvailable, "No redeemed codes available for this challenge")
		}
		update := tx.Model(&models.Challenge{}).
			Where("id = ? AND is_redeemed = ?", challenge.ID, false).
			UpdateColumn("is_redeemed", true)
		if update.Error != nil {
			return nil, errors.NewInternalServerError(update.Error, "Failed to redeem challenge reward")
		}
		if update.RowsAffected == 0 {
			return nil, errors.NewConflictError(errors.CodeAlreadyProcessed, "Challenge reward has already been redeemed")
		}
		return &models.ChallengeRedeemResult{
			Status: models.RedeemStatusRedeemed,
			Codes:  challenge.RewardCodes,
		}, nil

	case models.AssignmentStatusSentToAdvisor:
		return &models.ChallengeRedeemResult{Status: models.RedeemStatusPendingApproval}, nil

	default:
		update := tx.Model(&models.Challenge{}).
			Where("id = ? AND sent_to_advisor = ?", challenge.ID, false).
			UpdateColumn("sent_to_advisor", true)
		if update.Error != nil {
			return nil, errors.NewInternalServerError(update.Error, "Failed to send challenge reward to advisor")
		}
		return &models.ChallengeRedeemResult{Status: models.RedeemStatusSentToAdvisor}, nil
	}
}
