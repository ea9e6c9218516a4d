package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/moneykaki/kaki-core/internal/app/errors"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/infrastructures"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	stripe "github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

type TopupService struct {
	db             *gorm.DB
	validator      *infrastructures.Validator
	stripeClient   *infrastructures.StripeClient
	accountService *AccountService
}

func NewTopupService(db *gorm.DB, validator *infrastructures.Validator, stripeClient *infrastructures.StripeClient, accountService *AccountService) *TopupService {
	return &TopupService{
		db:             db,
		validator:      validator,
		stripeClient:   stripeClient,
		accountService: accountService,
	}
}

type TopupCreateRequest struct {
	AmountCents int64 `json:"amount_cents" validate:"required,min=100"`
}

type TopupCheckoutResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// CreateCheckoutSession starts a Stripe checkout for an advisor credit
// top-up. Nothing is credited until the webhook confirms payment.
func (s *TopupService) CreateCheckoutSession(accountID uuid.UUID, req *TopupCreateRequest) (*TopupCheckoutResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := s.stripeClient.CreateTopupCheckoutSession(accountID.String(), req.AmountCents)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create checkout session")
	}

	return &TopupCheckoutResponse{
		SessionID:   session.ID,
		CheckoutURL: session.URL,
	}, nil
}

// HandleWebhook verifies and processes a Stripe event. Credits are applied
// on payment_intent.succeeded; the payment intent id is stored as the
// transaction's external reference, so redelivered events credit nothing.
func (s *TopupService) HandleWebhook(payload []byte, sigHeader string) error {
	event, err := s.stripeClient.ConstructWebhookEvent(payload, sigHeader)
	if err != nil {
		return errors.NewBadRequestError("Invalid webhook signature")
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return errors.NewBadRequestError("Malformed payment intent payload")
		}
		return s.applyTopup(&intent)
	case "payment_intent.payment_failed":
		logrus.Warnf("Top-up payment failed: %s", event.ID)
		return nil
	default:
		return nil
	}
}

func (s *TopupService) applyTopup(intent *stripe.PaymentIntent) error {
	accountIDRaw, ok := intent.Metadata["account_id"]
	if !ok {
		return errors.NewBadRequestError("Payment intent has no account metadata")
	}
	accountID, err := uuid.Parse(accountIDRaw)
	if err != nil {
		return errors.NewBadRequestError("Invalid account metadata on payment intent")
	}

	amount := decimal.NewFromInt(intent.Amount).Div(decimal.NewFromInt(100))

	return s.db.Transaction(func(tx *gorm.DB) error {
		externalReferenceID := intent.ID
		description := fmt.Sprintf("Stripe top-up of %s", amount.StringFixed(2))
		record := &models.Transaction{
			AccountID:           accountID,
			Type:                models.TransactionTypeTopup,
			Amount:              amount,
			Description:         &description,
			Date:                time.Now(),
			Status:              models.TransactionStatusCompleted,
			ExternalReferenceID: &externalReferenceID,
		}
		if err := tx.Create(record).Error; err != nil {
			if err == gorm.ErrDuplicatedKey {
				logrus.Infof("Top-up %s already processed, skipping", intent.ID)
				return nil
			}
			return errors.NewInternalServerError(err, "Failed to record top-up")
		}
		return s.accountService.AddCredits(tx, accountID, amount)
	})
}
