// Package ledger keeps an account's denormalized balance consistent with its
// transaction documents. Every mutation is a short sequence of independent
// store calls issued optimistically from the client: there is no transaction
// boundary, no locking, and no retry. Concurrent mutations against the same
// account race, last writer wins.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/bytebank/bytebank-client/internal/docstore"
	"github.com/bytebank/bytebank-client/internal/identity"
)

// Ledger translates transaction mutations into compensating balance updates
// on the owning account document.
type Ledger struct {
	store   docstore.Store
	session identity.Session
	log     *logrus.Logger
	now     func() time.Time
}

func New(store docstore.Store, session identity.Session, log *logrus.Logger) *Ledger {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Ledger{
		store:   store,
		session: session,
		log:     log,
		now:     time.Now,
	}
}

// Create persists a new transaction, then adjusts the owning account's
// balance by the transaction's delta. The two writes are independent: a
// failed balance write leaves the transaction created and is reported as
// BalanceStale, not as an error. A missing account surfaces the store error
// after the transaction write has already happened.
func (l *Ledger) Create(ctx context.Context, input Create) (Result, error) {
	if input.AccountID == "" {
		return Result{}, ErrMissingAccountID
	}
	if !input.Value.IsPositive() {
		return Result{}, ErrInvalidValue
	}
	if !input.Type.valid() {
		return Result{}, ErrInvalidType
	}

	ownerID, _ := l.session.CurrentUserID()
	createdAt := l.now()

	id, err := l.store.Create(ctx, docstore.CollectionTransactions, docstore.Document{
		"accountId": input.AccountID,
		"value":     input.Value,
		"type":      string(input.Type),
		"from":      input.From,
		"to":        input.To,
		"createdAt": createdAt,
		"ownerId":   ownerID,
	})
	if err != nil {
		return Result{}, err
	}

	created := &Transaction{
		ID:        id,
		AccountID: input.AccountID,
		Value:     input.Value,
		Type:      input.Type,
		From:      input.From,
		To:        input.To,
		CreatedAt: createdAt,
		OwnerID:   ownerID,
	}

	account, err := l.store.Get(ctx, docstore.CollectionAccounts, input.AccountID)
	if err != nil {
		return Result{Transaction: created, Balance: BalanceSkipped}, err
	}

	status := l.writeBalance(ctx, input.AccountID,
		account.Decimal("balance").Add(delta(input.Type, input.Value)))
	return Result{Transaction: created, Balance: status}, nil
}

// Update edits a transaction's value/type/from/to and compensates the account
// balance by -prevDelta + nextDelta. If the prior transaction document is
// already gone, the balance step is skipped entirely and only the orphaned
// update is attempted.
func (l *Ledger) Update(ctx context.Context, id string, changes Update) (Result, error) {
	if changes.Value != nil && !changes.Value.IsPositive() {
		return Result{}, ErrInvalidValue
	}
	if changes.Type != nil && !changes.Type.valid() {
		return Result{}, ErrInvalidType
	}

	prior, err := l.store.Get(ctx, docstore.CollectionTransactions, id)
	if errors.Is(err, docstore.ErrNotFound) {
		err := l.store.Update(ctx, docstore.CollectionTransactions, id, changes.fields())
		return Result{Balance: BalanceSkipped}, err
	}
	if err != nil {
		return Result{Balance: BalanceSkipped}, err
	}

	prevValue := prior.Decimal("value")
	prevType := TransactionType(prior.String("type"))
	nextValue := prevValue
	if changes.Value != nil {
		nextValue = *changes.Value
	}
	nextType := prevType
	if changes.Type != nil {
		nextType = *changes.Type
	}

	if err := l.store.Update(ctx, docstore.CollectionTransactions, id, changes.fields()); err != nil {
		return Result{Balance: BalanceSkipped}, err
	}

	accountID := prior.String("accountId")
	account, err := l.store.Get(ctx, docstore.CollectionAccounts, accountID)
	if errors.Is(err, docstore.ErrNotFound) {
		return Result{Balance: BalanceSkipped}, nil
	}
	if err != nil {
		l.log.WithError(err).WithField("accountId", accountID).
			Warn("Ledger.Update.balance read dropped")
		return Result{Balance: BalanceStale}, nil
	}

	newBalance := account.Decimal("balance").
		Sub(delta(prevType, prevValue)).
		Add(delta(nextType, nextValue))
	status := l.writeBalance(ctx, accountID, newBalance)
	return Result{Balance: status}, nil
}

// Delete adjusts the account balance by -delta and then removes the
// transaction document, in that order. A missing account skips the
// adjustment; a missing transaction skips it too and the delete proceeds.
func (l *Ledger) Delete(ctx context.Context, id string) (Result, error) {
	prior, err := l.store.Get(ctx, docstore.CollectionTransactions, id)
	if errors.Is(err, docstore.ErrNotFound) {
		err := l.store.Delete(ctx, docstore.CollectionTransactions, id)
		return Result{Balance: BalanceSkipped}, err
	}
	if err != nil {
		return Result{Balance: BalanceSkipped}, err
	}

	status := BalanceSkipped
	accountID := prior.String("accountId")
	account, err := l.store.Get(ctx, docstore.CollectionAccounts, accountID)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		// account already gone, nothing to compensate
	case err != nil:
		l.log.WithError(err).WithField("accountId", accountID).
			Warn("Ledger.Delete.balance read dropped")
		status = BalanceStale
	default:
		d := delta(TransactionType(prior.String("type")), prior.Decimal("value"))
		status = l.writeBalance(ctx, accountID, account.Decimal("balance").Sub(d))
	}

	if err := l.store.Delete(ctx, docstore.CollectionTransactions, id); err != nil {
		return Result{Balance: status}, err
	}
	return Result{Balance: status}, nil
}

// writeBalance performs the secondary account write. Failures are logged and
// reported as stale, never returned: the primary mutation already happened.
func (l *Ledger) writeBalance(ctx context.Context, accountID string, balance decimal.Decimal) BalanceStatus {
	err := l.store.Update(ctx, docstore.CollectionAccounts, accountID, docstore.Document{
		"balance": balance,
	})
	if err != nil {
		l.log.WithError(err).WithFields(logrus.Fields{
			"accountId": accountID,
			"balance":   balance.String(),
		}).Warn("Ledger.writeBalance dropped")
		return BalanceStale
	}
	return BalanceApplied
}

// fields renders the non-nil changes as a partial document. AccountID is not
// an editable field and never appears here.
func (u Update) fields() docstore.Document {
	partial := docstore.Document{}
	if u.Value != nil {
		partial["value"] = *u.Value
	}
	if u.Type != nil {
		partial["type"] = string(*u.Type)
	}
	if u.From != nil {
		partial["from"] = *u.From
	}
	if u.To != nil {
		partial["to"] = *u.To
	}
	return partial
}
