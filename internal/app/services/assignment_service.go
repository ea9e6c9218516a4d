package services

import (
	"github.com/google/uuid"
	"github.com/moneykaki/kaki-core/internal/app/errors"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/infrastructures"
	"gorm.io/gorm"
)

type AssignmentService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
}

func NewAssignmentService(db *gorm.DB, validator *infrastructures.Validator) *AssignmentService {
	return &AssignmentService{
		db:        db,
		validator: validator,
	}
}

// CreateAssignment records an advisor gifting N reward units to a user. The
// assignment starts unapproved; codes are only allocated when the advisor
// confirms through the redemption engine.
func (s *AssignmentService) CreateAssignment(createdBy uuid.UUID, req *models.RewardAssignmentCreateRequest) (*models.RewardAssignment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	assigneeUUID, err := uuid.Parse(req.AssigneeID)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid assignee ID format")
	}
	rewardUUID, err := uuid.Parse(req.RewardID)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid reward ID format")
	}

	var reward models.Reward
	if err := s.db.Where("id = ?", rewardUUID).First(&reward).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Reward not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get reward")
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	assignment := &models.RewardAssignment{
		CreatedBy:     createdBy,
		AssigneeID:    assigneeUUID,
		RewardID:      rewardUUID,
		Quantity:      quantity,
		ScheduleType:  req.ScheduleType,
		Date:          req.Date,
		Headline:      req.Headline,
		Greeting:      req.Greeting,
		SentToAdvisor: req.SentToAdvisor,
		RewardCodes:   models.CodeList{},
	}

	if err := s.db.Create(assignment).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create reward assignment")
	}
	return assignment, nil
}

func (s *AssignmentService) GetAssignment(assignmentId string) (*models.RewardAssignment, error) {
	assignmentUUID, err := uuid.Parse(assignmentId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid assignment ID format")
	}

	var assignment models.RewardAssignment
	err = s.db.Preload("Reward").Where("id = ?", assignmentUUID).First(&assignment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Reward assignment not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get reward assignment")
	}
	return &assignment, nil
}

func (s *AssignmentService) GetAssignments(createdBy *uuid.UUID) ([]models.RewardAssignment, error) {
	query := s.db.Preload("Reward").Order("created_at DESC")
	if createdBy != nil {
		query = query.Where("created_by = ?", *createdBy)
	}

	var assignments []models.RewardAssignment
	if err := query.Find(&assignments).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get reward assignments")
	}
	return assignments, nil
}

func (s *AssignmentService) GetAssignmentsByAssignee(assigneeID uuid.UUID) ([]models.RewardAssignment, error) {
	var assignments []models.RewardAssignment
	err := s.db.Preload("Reward").
		Where("assignee_id = ?", assigneeID).
		Order("created_at DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get reward assignments")
	}
	return assignments, nil
}

// GetApprovedByAssignee lists assignments the assignee should be notified
// about: approved grants waiting to be claimed, and already claimed ones.
func (s *AssignmentService) GetApprovedByAssignee(assigneeID uuid.UUID) ([]models.RewardAssignment, error) {
	var assignments []models.RewardAssignment
	err := s.db.Preload("Reward").
		Where("assignee_id = ? AND is_approved = ?", assigneeID, true).
		Order("created_at DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get reward assignments")
	}
	return assignments, nil
}

func (s *AssignmentService) UpdateAssignment(assignmentId string, req *models.RewardAssignmentUpdateRequest) (*models.RewardAssignment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	assignment, err := s.GetAssignment(assignmentId)
	if err != nil {
		return nil, err
	}

	// Editing a grant that already entered the approval workflow would
	// desync quantity and allocated codes.
	if assignment.Status() != models.AssignmentStatusNew {
		return nil, errors.NewConflictError(errors.CodeAlreadyProcessed, "Reward assignment can no longer be edited")
	}

	if req.Quantity != nil {
		assignment.Quantity = *req.Quantity
	}
	if req.ScheduleType != nil {
		assignment.ScheduleType = *req.ScheduleType
	}
	if req.Date != nil {
		assignment.Date = req.Date
	}
	if req.Headline != nil {
		assignment.Headline = req.Headline
	}
	if req.Greeting != nil {
		assignment.Greeting = req.Greeting
	}

	if err := s.db.Save(assignment).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update reward assignment")
	}
	return assignment, nil
}

func (s *AssignmentService) DeleteAssignment(assignmentId string) error {
	assignment, err := s.GetAssignment(assignmentId)
	if err != nil {
		return err
	}

	if err := s.db.Delete(assignment).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to delete reward assignment")
	}
	return nil
}
