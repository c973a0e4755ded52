package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bytebank/bytebank-client/internal/docstore"
)

// TransactionType is the kind of movement a transaction records.
type TransactionType string

const (
	TypeDeposit  TransactionType = "DEPOSIT"
	TypeWithdraw TransactionType = "WITHDRAW"
	TypeTransfer TransactionType = "TRANSFER"
)

// ParseType converts a wire/CLI string into a TransactionType.
func ParseType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TypeDeposit, TypeWithdraw, TypeTransfer:
		return TransactionType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

func (t TransactionType) valid() bool {
	switch t {
	case TypeDeposit, TypeWithdraw, TypeTransfer:
		return true
	}
	return false
}

// Validation failures, rejected before any store call.
var (
	ErrInvalidValue     = errors.New("ledger: value must be greater than zero")
	ErrInvalidType      = errors.New("ledger: invalid transaction type")
	ErrMissingAccountID = errors.New("ledger: accountId is required")
)

// Transaction is a movement against one account. AccountID is immutable once
// the document is written; only value, type, from and to may change later.
type Transaction struct {
	ID        string
	AccountID string
	Value     decimal.Decimal
	Type      TransactionType
	From      string
	To        string
	CreatedAt time.Time
	OwnerID   string
}

// Create is the input for recording a new transaction.
type Create struct {
	AccountID string
	Value     decimal.Decimal
	Type      TransactionType
	From      string
	To        string
}

// Update carries the editable subset of a transaction. Nil fields are left
// untouched; AccountID is deliberately absent.
type Update struct {
	Value *decimal.Decimal
	Type  *TransactionType
	From  *string
	To    *string
}

// BalanceStatus reports the outcome of the secondary balance write. The
// primary operation never fails because of it, but callers can detect drift.
type BalanceStatus int

const (
	// BalanceApplied means the account balance reflects this mutation.
	BalanceApplied BalanceStatus = iota
	// BalanceStale means the balance write failed and was dropped; the
	// account's balance no longer matches its transactions.
	BalanceStale
	// BalanceSkipped means the adjustment was not attempted because the
	// account or prior transaction document was missing.
	BalanceSkipped
)

func (s BalanceStatus) String() string {
	switch s {
	case BalanceApplied:
		return "applied"
	case BalanceStale:
		return "stale"
	case BalanceSkipped:
		return "skipped"
	}
	return "unknown"
}

// Result is the composite outcome of a ledger mutation.
type Result struct {
	Transaction *Transaction
	Balance     BalanceStatus
}

// delta is the signed contribution of a transaction to its account's balance.
func delta(t TransactionType, value decimal.Decimal) decimal.Decimal {
	if t == TypeDeposit {
		return value
	}
	return value.Neg()
}

// TransactionFromDocument maps a stored document onto the model.
func TransactionFromDocument(doc docstore.Document) *Transaction {
	return &Transaction{
		ID:        doc.ID(),
		AccountID: doc.String("accountId"),
		Value:     doc.Decimal("value"),
		Type:      TransactionType(doc.String("type")),
		From:      doc.String("from"),
		To:        doc.String("to"),
		CreatedAt: doc.Time("createdAt"),
		OwnerID:   doc.String("ownerId"),
	}
}
