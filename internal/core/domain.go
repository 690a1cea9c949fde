package core

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

const (
	StatusConfirmed TransactionStatus = "CONFIRMED"
	StatusPending   TransactionStatus = "PENDING"
	StatusCancelled TransactionStatus = "CANCELLED"
)

type (
	// Granularity selects the resolution of a statistics tab and the step
	// size of its navigation cursor.
	Granularity string

	TransactionType   string
	TransactionStatus string

	// Transaction is a wallet movement as served by the wallet API.
	// Amount is always positive; the sign is carried by Type.
	Transaction struct {
		ID          int64             `json:"id"`
		Date        time.Time         `json:"date"`
		Type        TransactionType   `json:"type"`
		Category    Category          `json:"category"`
		Source      string            `json:"source"`
		Amount      decimal.Decimal   `json:"amount"`
		Description string            `json:"description"`
		Status      TransactionStatus `json:"status"`
		CreatedBy   string            `json:"createdBy"`
		CreatedAt   time.Time         `json:"createdAt"`
		UpdatedAt   time.Time         `json:"updatedAt"`
	}

	// FilterState is the criteria shared by the transaction list and the
	// exporters. It is orthogonal to the period cursors, which only drive
	// the statistics charts.
	FilterState struct {
		Search   string
		Type     TransactionType
		Category Category
		Status   TransactionStatus
		Source   string
		DateFrom time.Time
		DateTo   time.Time
		SortBy   string
		SortDir  string
	}
)

var (
	ErrInvalidGranularity = errors.New("invalid granularity")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidStatus      = errors.New("invalid transaction status")
	ErrInvalidAmount      = errors.New("invalid amount")
)

// ParseGranularity maps a query-string value onto a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(s))) {
	case Daily:
		return Daily, nil
	case Weekly:
		return Weekly, nil
	case Monthly:
		return Monthly, nil
	default:
		return "", ErrInvalidGranularity
	}
}

// Granularities lists all granularities in tab order.
func Granularities() []Granularity {
	return []Granularity{Daily, Weekly, Monthly}
}

func (g Granularity) Validate() error {
	switch g {
	case Daily, Weekly, Monthly:
		return nil
	default:
		return ErrInvalidGranularity
	}
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (s TransactionStatus) Validate() error {
	switch s {
	case StatusConfirmed, StatusPending, StatusCancelled:
		return nil
	default:
		return ErrInvalidStatus
	}
}

func (tx Transaction) Validate() error {
	if err := tx.Type.Validate(); err != nil {
		return err
	}
	if err := tx.Status.Validate(); err != nil {
		return err
	}
	if !tx.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// Query renders the filter as wallet API query parameters. Absent and empty
// values are omitted rather than sent as empty strings.
func (f FilterState) Query() url.Values {
	q := url.Values{}
	if v := strings.TrimSpace(f.Search); v != "" {
		q.Set("search", v)
	}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if f.Category != "" {
		q.Set("category", string(f.Category))
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if v := strings.TrimSpace(f.Source); v != "" {
		q.Set("source", v)
	}
	if !f.DateFrom.IsZero() {
		q.Set("dateFrom", f.DateFrom.Format("2006-01-02"))
	}
	if !f.DateTo.IsZero() {
		q.Set("dateTo", f.DateTo.Format("2006-01-02"))
	}
	if f.SortBy != "" {
		q.Set("sortBy", f.SortBy)
	}
	if f.SortDir != "" {
		q.Set("sortDir", f.SortDir)
	}
	return q
}

// SignedAmount returns the amount negated for expenses, for balance math.
func (tx Transaction) SignedAmount() decimal.Decimal {
	if tx.Type == Expense {
		return tx.Amount.Neg()
	}
	return tx.Amount
}
