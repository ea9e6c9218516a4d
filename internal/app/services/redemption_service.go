package services

import (
	goerrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/moneykaki/kaki-core/internal/app/errors"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/infrastructures"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// maxAllocationRetries bounds the compare-and-swap loop on the reward's code
// pool when another request mutated it between read and write.
const maxAllocationRetries = 3

// errCodePoolConflict signals a lost CAS race on the reward row; the whole
// redemption unit is retried.
var errCodePoolConflict = goerrors.New("reward code pool modified concurrently")

type RedemptionService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
	mailer    Mailer
}

func NewRedemptionService(db *gorm.DB, validator *infrastructures.Validator, mailer Mailer) *RedemptionService {
	return &RedemptionService{
		db:        db,
		validator: validator,
		mailer:    mailer,
	}
}

// redeemNotification carries what the assignee email needs once the
// transaction has committed.
type redeemNotification struct {
	assigneeID uuid.UUID
	rewardName string
}

// AdvisorRedeem is the advisor-side approval of a pending reward grant.
// targetID names either a RewardAssignment or a reward-gated Challenge.
// Code allocation, the credit debit and the approval flag are applied in a
// single database transaction: either all of it lands or none of it does.
func (s *RedemptionService) AdvisorRedeem(advisorID uuid.UUID, targetID string) (*models.RedemptionResult, error) {
	targetUUID, err := uuid.Parse(targetID)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid target ID format")
	}

	var result *models.RedemptionResult
	var notify *redeemNotification
	for attempt := 0; attempt < maxAllocationRetries; attempt++ {
		result, notify, err = s.advisorRedeemOnce(advisorID, targetUUID)
		if !goerrors.Is(err, errCodePoolConflict) {
			if err == nil && notify != nil {
				s.notifyApproval(notify, result.Codes)
			}
			return result, err
		}
	}
	return nil, errors.NewConflictError(errors.CodeConflict, "Reward is being redeemed concurrently, retry")
}

func (s *RedemptionService) advisorRedeemOnce(advisorID, targetID uuid.UUID) (*models.RedemptionResult, *redeemNotification, error) {
	var result *models.RedemptionResult
	var notify *redeemNotification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var assignment models.RewardAssignment
		err := tx.Where("id = ?", targetID).First(&assignment).Error
		if err == nil {
			res, n, err := s.approveAssignment(tx, advisorID, &assignment)
			if err != nil {
				return err
			}
			result, notify = res, n
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return errors.NewInternalServerError(err, "Failed to get reward assignment")
		}

		var challenge models.Challenge
		err = tx.Where("id = ?", targetID).First(&challenge).Error
		if err == gorm.ErrRecordNotFound {
			return errors.NewNotFoundError("Reward assignment or challenge not found")
		}
		if err != nil {
			return errors.NewInternalServerError(err, "Failed to get challenge")
		}

		res, n, err := s.approveChallenge(tx, advisorID, &challenge)
		if err != nil {
			return err
		}
		result, notify = res, n
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result, notify, nil
}

// notifyApproval emails the assignee after the approval has committed. Mail
// failures are logged, never surfaced; the redemption already happened.
func (s *RedemptionService) notifyApproval(notify *redeemNotification, codes []string) {
	if s.mailer == nil {
		return
	}
	var assignee models.Account
	if err := s.db.Where("id = ?", notify.assigneeID).First(&assignee).Error; err != nil {
		logrus.Errorf("failed to load assignee %s for approval email: %v", notify.assigneeID, err)
		return
	}
	if err := s.mailer.SendRewardApprovedEmail(assignee.FullName, assignee.Email, notify.rewardName, codes); err != nil {
		logrus.Errorf("failed to send approval email to %s: %v", assignee.Email, err)
	}
}

func (s *RedemptionService) approveAssignment(tx *gorm.DB, advisorID uuid.UUID, assignment *models.RewardAssignment) (*models.RedemptionResult, *redeemNotification, error) {
	status := assignment.Status()
	if status == models.AssignmentStatusApproved || status == models.AssignmentStatusRedeemed {
		return nil, nil, errors.NewConflictError(errors.CodeAlreadyProcessed, "Reward assignment has already been processed")
	}
	if !status.CanTransition(models.AssignmentStatusApproved) {
		return nil, nil, errors.NewConflictError(errors.CodeConflict, "Reward assignment has not been sent for approval")
	}

	reward, err := s.loadReward(tx, assignment.RewardID)
	if err != nil {
		return nil, nil, err
	}

	cost := reward.Price.Mul(decimal.NewFromInt(int64(assignment.Quantity)))

	codes, remaining, err := s.allocateAndDebit(tx, advisorID, reward, assignment.Quantity, cost)
	if err != nil {
		return nil, nil, err
	}

	update := tx.Model(&models.RewardAssignment{}).
		Where("id = ? AND is_approved = ? AND is_redeemed = ?", assignment.ID, false, false).
		Updates(map[string]interface{}{
			"is_approved":  true,
			"reward_codes": models.CodeList(codes),
		})
	if update.Error != nil {
		return nil, nil, errors.NewInternalServerError(update.Error, "Failed to approve reward assignment")
	}
	if update.RowsAffected == 0 {
		return nil, nil, errors.NewConflictError(errors.CodeAlreadyProcessed, "Reward assignment has already been processed")
	}

	result := &models.RedemptionResult{
		Codes:            codes,
		Debited:          cost.String(),
		RemainingBalance: remaining.String(),
	}
	return result, &redeemNotification{assigneeID: assignment.AssigneeID, rewardName: reward.Name}, nil
}

func (s *RedemptionService) approveChallenge(tx *gorm.DB, advisorID uuid.UUID, challenge *models.Challenge) (*models.RedemptionResult, *redeemNotification, error) {
	if !challenge.HasReward() {
		return nil, nil, errors.NewBadRequestError("Challenge does not carry a reward")
	}

	status := challenge.Status()
	if status == models.AssignmentStatusApproved || status == models.AssignmentStatusRedeemed {
		return nil, nil, errors.NewConflictError(errors.CodeAlreadyProcessed, "Challenge reward has already been processed")
	}
	if !status.CanTransition(models.AssignmentStatusApproved) {
		return nil, nil, errors.NewConflictError(errors.CodeConflict, "Challenge reward has not been sent for approval")
	}

	reward, err := s.loadReward(tx, *challenge.RewardID)
	if err != nil {
		return nil, nil, err
	}

	// Challenges carry a stored overall price instead of price * quantity.
	cost := challenge.OverallPrice

	codes, remaining, err := s.allocateAndDebit(tx, advisorID, reward, challenge.Quantity, cost)
	if err != nil {
		return nil, nil, err
	}

	update := tx.Model(&models.Challenge{}).
		Where("id = ? AND is_approved = ? AND is_redeemed = ?", challenge.ID, false, false).
		Updates(map[string]interface{}{
			"is_approved":  true,
			"reward_codes": models.CodeList(codes),
		})
	if update.Error != nil {
		return nil, nil, errors.NewInternalServerError(update.Error, "Failed to approve challenge reward")
	}
	if update.RowsAffected == 0 {
		return nil, nil, errors.NewConflictError(errors.CodeAlreadyProcessed, "Challenge reward has already been processed")
	}

	result := &models.RedemptionResult{
		Codes:            codes,
		Debited:          cost.String(),
		RemainingBalance: remaining.String(),
	}
	return result, &redeemNotification{assigneeID: challenge.UserID, rewardName: reward.Name}, nil
}

// allocateAndDebit flips the first quantity available codes and debits the
// advisor, both guarded: the pool write is a CAS on the reward's code
// version, the debit re-checks sufficiency inside the UPDATE itself.
func (s *RedemptionService) allocateAndDebit(tx *gorm.DB, advisorID uuid.UUID, reward *models.Reward, quantity int, cost decimal.Decimal) ([]string, decimal.Decimal, error) {
	available := reward.AvailableQuantity()
	if available < quantity {
		return nil, decimal.Zero, errors.NewUnprocessableEntityError(
			errors.CodeInsufficientInventory,
			fmt.Sprintf("Not enough codes available: need %d, have %d", quantity, available),
		)
	}

	var advisor models.Account
	if err := tx.Where("id = ?", advisorID).First(&advisor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, decimal.Zero, errors.NewNotFoundError("Advisor account not found")
		}
		return nil, decimal.Zero, errors.NewInternalServerError(err, "Failed to get advisor account")
	}
	if advisor.Credits.LessThan(cost) {
		return nil, decimal.Zero, errors.NewUnprocessableEntityError(
			errors.CodeInsufficientBalance,
			fmt.Sprintf("Insufficient credits: need %s, have %s", cost.String(), advisor.Credits.String()),
		)
	}

	pool := make(models.CodePool, len(reward.Codes))
	copy(pool, reward.Codes)
	codes, err := pool.Allocate(quantity)
	if err != nil {
		return nil, decimal.Zero, errors.NewUnprocessableEntityError(errors.CodeInsufficientInventory, err.Error())
	}

	poolUpdate := tx.Model(&models.Reward{}).
		Where("id = ? AND code_version = ?", reward.ID, reward.CodeVersion).
		Updates(map[string]interface{}{
			"codes":        pool,
			"code_version": reward.CodeVersion + 1,
		})
	if poolUpdate.Error != nil {
		return nil, decimal.Zero, errors.NewInternalServerError(poolUpdate.Error, "Failed to update reward codes")
	}
	if poolUpdate.RowsAffected == 0 {
		return nil, decimal.Zero, errCodePoolConflict
	}

	debit := tx.Model(&models.Account{}).
		Where("id = ? AND credits >= ?", advisorID, cost).
		UpdateColumn("credits", gorm.Expr("credits - ?", cost))
	if debit.Error != nil {
		return nil, decimal.Zero, errors.NewInternalServerError(debit.Error, "Failed to debit advisor credits")
	}
	if debit.RowsAffected == 0 {
		return nil, decimal.Zero, errors.NewUnprocessableEntityError(
			errors.CodeInsufficientBalance,
			fmt.Sprintf("Insufficient credits: need %s, have %s", cost.String(), advisor.Credits.String()),
		)
	}

	return codes, advisor.Credits.Sub(cost), nil
}

// AssigneeRedeem is the end-user side of the workflow. Approved grants
// release their pre-allocated codes exactly once; unapproved grants either
// report pending state or get sent to the advisor, which is the only way the
// approval workflow starts.
func (s *RedemptionService) AssigneeRedeem(userID uuid.UUID, assignmentID string) (*models.AssigneeRedeemResult, error) {
	assignmentUUID, err := uuid.Parse(assignmentID)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid assignment ID format")
	}

	var result *models.AssigneeRedeemResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var assignment models.RewardAssignment
		err := tx.Where("id = ? AND assignee_id = ?", assignmentUUID, userID).First(&assignment).Error
		if err == gorm.ErrRecordNotFound {
			return errors.NewNotFoundError("Reward assignment not found")
		}
		if err != nil {
			return errors.NewInternalServerError(err, "Failed to get reward assignment")
		}

		switch assignment.Status() {
		case models.AssignmentStatusRedeemed:
			return errors.NewConflictError(errors.CodeAlreadyProcessed, "Reward has already been redeemed")

		case models.AssignmentStatusApproved:
			if len(assignment.RewardCodes) == 0 {
				return errors.NewAppErrorWithCode(http.StatusBadRequest, errors.CodeNoCodesAvailable, "No redeemed codes available for this reward")
			}
			update := tx.Model(&models.RewardAssignment{}).
				Where("id = ? AND is_redeemed = ?", assignment.ID, false).
				UpdateColumn("is_redeemed", true)
			if update.Error != nil {
				return errors.NewInternalServerError(update.Error, "Failed to redeem reward assignment")
			}
			if update.RowsAffected == 0 {
				return errors.NewConflictError(errors.CodeAlreadyProcessed, "Reward has already been redeemed")
			}
			result = &models.AssigneeRedeemResult{
				Status: models.RedeemStatusRedeemed,
				Codes:  assignment.RewardCodes,
			}
			return nil

		case models.AssignmentStatusSentToAdvisor:
			result = &models.AssigneeRedeemResult{Status: models.RedeemStatusPendingApproval}
			return nil

		default:
			update := tx.Model(&models.RewardAssignment{}).
				Where("id = ? AND sent_to_advisor = ?", assignment.ID, false).
				UpdateColumn("sent_to_advisor", true)
			if update.Error != nil {
				return errors.NewInternalServerError(update.Error, "Failed to send reward to advisor")
			}
			result = &models.AssigneeRedeemResult{Status: models.RedeemStatusSentToAdvisor}
			return nil
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *RedemptionService) loadReward(tx *gorm.DB, rewardID uuid.UUID) (*models.Reward, error) {
	var reward models.Reward
	err := tx.Where("id = ?", rewardID).First(&reward).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Reward not found")
		}
		if isInvalidCodePool(err) {
			return nil, errors.NewInternalServerError(err, "Reward code pool is corrupted")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get reward")
	}
	return &reward, nil
}

// isInvalidCodePool detects the CodePool scan failure through the
// database/sql error chain; not every Go version wraps scan errors, so the
// message is checked as a fallback.
func isInvalidCodePool(err error) bool {
	if goerrors.Is(err, models.ErrInvalidCodePool) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), models.ErrInvalidCodePool.Error())
}
