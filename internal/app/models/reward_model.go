package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrInvalidCodePool marks a persisted codes column that is neither the
// current object shape nor the legacy string-array shape.
var ErrInvalidCodePool = errors.New("invalid reward code pool encoding")

type RewardCode struct {
	Code       string `json:"code"`
	IsRedeemed bool   `json:"is_redeemed"`
}

// CodePool is the reward's redemption-code collection, stored as a JSON
// column. Older rows hold a plain string array; Scan normalizes that shape
// to unredeemed entries, and Value always writes the object shape.
type CodePool []RewardCode

func (p CodePool) Value() (driver.Value, error) {
	if p == nil {
		p = CodePool{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *CodePool) Scan(src any) error {
	if src == nil {
		*p = CodePool{}
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("%w: unsupported source type %T", ErrInvalidCodePool, src)
	}

	if len(raw) == 0 {
		*p = CodePool{}
		return nil
	}

	var pool []RewardCode
	if err := json.Unmarshal(raw, &pool); err == nil {
		*p = pool
		return nil
	}

	// Legacy shape: ["CODE-A", "CODE-B"], all unredeemed.
	var legacy []string
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidCodePool, raw)
	}
	pool = make([]RewardCode, 0, len(legacy))
	for _, code := range legacy {
		pool = append(pool, RewardCode{Code: code})
	}
	*p = pool
	return nil
}

// Available returns the count of unredeemed codes.
func (p CodePool) Available() int {
	n := 0
	for _, c := range p {
		if !c.IsRedeemed {
			n++
		}
	}
	return n
}

// Allocate flips the first quantity unredeemed codes in pool order and
// returns them. The pool is mutated in place.
func (p CodePool) Allocate(quantity int) ([]string, error) {
	if available := p.Available(); available < quantity {
		return nil, fmt.Errorf("pool has %d available codes, need %d", available, quantity)
	}
	allocated := make([]string, 0, quantity)
	for i := range p {
		if len(allocated) == quantity {
			break
		}
		if p[i].IsRedeemed {
			continue
		}
		p[i].IsRedeemed = true
		allocated = append(allocated, p[i].Code)
	}
	return allocated, nil
}

// CodeList holds codes already allocated to an assignment or challenge.
type CodeList []string

func (l CodeList) Value() (driver.Value, error) {
	if l == nil {
		l = CodeList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *CodeList) Scan(src any) error {
	if src == nil {
		*l = CodeList{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported code list source type %T", src)
	}
	if len(raw) == 0 {
		*l = CodeList{}
		return nil
	}
	return json.Unmarshal(raw, l)
}

type Reward struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Picture     string          `json:"picture"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2)" json:"price"`
	Codes       CodePool        `gorm:"type:jsonb" json:"codes"`
	CodeVersion int64           `json:"-"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"deleted_at"`
}

func (r *Reward) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// AvailableQuantity is the number of codes still redeemable.
func (r *Reward) AvailableQuantity() int {
	return r.Codes.Available()
}

type RewardCreateRequest struct {
	Picture string          `json:"picture" validate:"required"`
	Name    string          `json:"name" validate:"required,max=255"`
	Price   decimal.Decimal `json:"price" validate:"required"`
}

type RewardUpdateRequest struct {
	Picture *string          `json:"picture,omitempty"`
	Name    *string          `json:"name,omitempty" validate:"omitempty,max=255"`
	Price   *decimal.Decimal `json:"price,omitempty"`
}

type RewardAddCodeRequest struct {
	Code string `json:"code" validate:"required,max=100"`
}

type RewardAddCodesRequest struct {
	Codes []string `json:"codes" validate:"required,min=1,dive,required,max=100"`
}

type RewardRemoveCodeRequest struct {
	Code string `json:"code" validate:"required,max=100"`
}
