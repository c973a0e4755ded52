package service

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/bytebank/bytebank-client/internal/docstore"
)

// Account represents an account in the service layer. Balance is denormalized
// and maintained by the ledger adapter as transactions change.
type Account struct {
	ID      string
	Name    string
	Balance decimal.Decimal
	OwnerID string
}

// ErrInvalidName is returned for account or user names shorter than two
// characters after trimming.
var ErrInvalidName = errors.New("service: name must be at least 2 characters")

func accountFromDocument(doc docstore.Document) Account {
	return Account{
		ID:      doc.ID(),
		Name:    doc.String("name"),
		Balance: doc.Decimal("balance"),
		OwnerID: doc.String("ownerId"),
	}
}
