package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/moneykaki/kaki-core/internal/app/errors"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/infrastructures"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GoalService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
}

func NewGoalService(db *gorm.DB, validator *infrastructures.Validator) *GoalService {
	return &GoalService{
		db:        db,
		validator: validator,
	}
}

func (s *GoalService) CreateGoal(userID uuid.UUID, req *models.GoalCreateRequest) (*models.Goal, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.NewBadRequestError("Target amount must be positive")
	}

	goal := &models.Goal{
		UserID:       userID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
	}
	if err := s.db.Create(goal).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create goal")
	}
	return goal, nil
}

func (s *GoalService) GetGoal(userID uuid.UUID, goalId string) (*models.Goal, error) {
	goalUUID, err := uuid.Parse(goalId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid goal ID format")
	}

	var goal models.Goal
	err = s.db.Where("id = ? AND user_id = ?", goalUUID, userID).First(&goal).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Goal not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get goal")
	}
	return &goal, nil
}

func (s *GoalService) GetGoals(userID uuid.UUID) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&goals).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get goals")
	}
	return goals, nil
}

func (s *GoalService) UpdateGoal(userID uuid.UUID, goalId string, req *models.GoalUpdateRequest) (*models.Goal, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	goal, err := s.GetGoal(userID, goalId)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		goal.Name = *req.Name
	}
	if req.TargetAmount != nil {
		if req.TargetAmount.LessThanOrEqual(decimal.Zero) {
			return nil, errors.NewBadRequestError("Target amount must be positive")
		}
		goal.TargetAmount = *req.TargetAmount
	}
	if req.Deadline != nil {
		goal.Deadline = req.Deadline
	}

	if err := s.db.Save(goal).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update goal")
	}
	return goal, nil
}

func (s *GoalService) DeleteGoal(userID uuid.UUID, goalId string) error {
	goal, err := s.GetGoal(userID, goalId)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goal_id = ?", goal.ID).Delete(&models.Saving{}).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to delete goal savings")
		}
		if err := tx.Delete(goal).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to delete goal")
		}
		return nil
	})
}

// CreateSaving logs a savings entry; when tied to a goal it also advances
// the goal's saved amount.
func (s *GoalService) CreateSaving(userID uuid.UUID, req *models.SavingCreateRequest) (*models.Saving, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.NewBadRequestError("Amount must be positive")
	}

	saving := &models.Saving{
		UserID: userID,
		Amount: req.Amount,
		Date:   time.Now(),
	}
	if req.Date != nil {
		saving.Date = *req.Date
	}

	if req.GoalID != nil {
		goal, err := s.GetGoal(userID, *req.GoalID)
		if err != nil {
			return nil, err
		}
		saving.GoalID = &goal.ID
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(saving).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to create saving")
		}
		if saving.GoalID != nil {
			err := tx.Model(&models.Goal{}).
				Where("id = ?", *saving.GoalID).
				UpdateColumn("saved_amount", gorm.Expr("saved_amount + ?", req.Amount)).Error
			if err != nil {
				return errors.NewInternalServerError(err, "Failed to update goal progress")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saving, nil
}

func (s *GoalService) GetSavings(userID uuid.UUID) ([]models.Saving, error) {
	var savings []models.Saving
	err := s.db.Where("user_id = ?", userID).
		Order("date DESC").
		Find(&savings).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get savings")
	}
	return savings, nil
}

func (s *GoalService) DeleteSaving(userID uuid.UUID, savingId string) error {
	savingUUID, err := uuid.Parse(savingId)
	if err != nil {
		return errors.NewBadRequestError("Invalid saving ID format")
	}

	var saving models.Saving
	err = s.db.Where("id = ? AND user_id = ?", savingUUID, userID).First(&saving).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.NewNotFoundError("Saving not found")
		}
		return errors.NewInternalServerError(err, "Failed to get saving")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&saving).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to delete saving")
		}
		if saving.GoalID != nil {
			err := tx.Model(&models.Goal{}).
				Where("id = ?", *saving.GoalID).
				UpdateColumn("saved_amount", gorm.Expr("saved_amount - ?", saving.Amount)).Error
			if err != nil {
				return errors.NewInternalServerError(err, "Failed to update goal progress")
			}
		}
		return nil
	})
}
