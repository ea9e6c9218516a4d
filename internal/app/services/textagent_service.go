package services

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/moneykaki/kaki-core/internal/app/errors"
	"github.com/moneykaki/kaki-core/internal/infrastructures"
	"github.com/shopspring/decimal"
)

// TextExtractor is the narrow boundary to the AI extraction service. Prompt
// engineering and the vision path live on the other side of it.
type TextExtractor interface {
	ExtractAmount(field, prompt string) (decimal.Decimal, error)
	ExtractTransaction(prompt string) (*ExtractedTransaction, error)
}

// Extraction fields understood by the agent.
const (
	ExtractFieldMonthlyIncome  = "monthly_income"
	ExtractFieldMonthlyExpense = "monthly_expense"
	ExtractFieldSaveAmount     = "save_amount"
)

type ExtractedTransaction struct {
	Type     string          `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     *time.Time      `json:"date,omitempty"`
}

type TextAgentService struct {
	client *http.Client
}

func NewTextAgentService() *TextAgentService {
	return &TextAgentService{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type extractAmountRequest struct {
	Field  string `json:"field"`
	Prompt string `json:"prompt"`
}

type extractAmountResponse struct {
	Amount decimal.Decimal `json:"amount"`
}

// ExtractAmount asks the agent for the single numeric value named by field.
// A prompt with no relevant amount yields zero, mirroring the agent's
// contract.
func (s *TextAgentService) ExtractAmount(field, prompt string) (decimal.Decimal, error) {
	var result extractAmountResponse
	if err := s.post("/extract/amount", extractAmountRequest{Field: field, Prompt: prompt}, &result); err != nil {
		return decimal.Zero, err
	}
	return result.Amount, nil
}

func (s *TextAgentService) ExtractTransaction(prompt string) (*ExtractedTransaction, error) {
	var result ExtractedTransaction
	if err := s.post("/extract/transaction", extractAmountRequest{Prompt: prompt}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *TextAgentService) post(path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, infrastructures.Config.TEXTAGENT_BASE_URL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+infrastructures.Config.TEXTAGENT_API_KEY)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.NewAppError(resp.StatusCode, "Extraction service request failed")
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
