package service

import (
	"context"
	"sort"

	"github.com/bytebank/bytebank-client/internal/cache"
	"github.com/bytebank/bytebank-client/internal/docstore"
	"github.com/bytebank/bytebank-client/internal/identity"
	"github.com/bytebank/bytebank-client/internal/ledger"
)

// TransactionService records, edits and lists transactions. Mutations go
// through the ledger adapter so the owning account's balance tracks them.
type TransactionService struct {
	ledger  *ledger.Ledger
	store   docstore.Store
	session identity.Session
	cache   *cache.Cache
	shared  bool
}

// Record creates a transaction and invalidates the affected lists. The
// account list is invalidated too: the balance on it just changed.
func (s *TransactionService) Record(ctx context.Context, input ledger.Create) (ledger.Result, error) {
	result, err := s.ledger.Create(ctx, input)
	if err != nil {
		return result, err
	}
	s.cache.Invalidate(cache.Key{Entity: cache.EntityTransactions, AccountID: input.AccountID})
	s.cache.InvalidateEntity(cache.EntityAccounts)
	return result, nil
}

// Update edits a transaction. The owning account isn't known to the caller,
// so both entity caches are cleared wholesale.
func (s *TransactionService) Update(ctx context.Context, id string, changes ledger.Update) (ledger.Result, error) {
	result, err := s.ledger.Update(ctx, id, changes)
	if err != nil {
		return result, err
	}
	s.cache.InvalidateEntity(cache.EntityTransactions)
	s.cache.InvalidateEntity(cache.EntityAccounts)
	return result, nil
}

// Delete removes a transaction and compensates the balance via the ledger.
func (s *TransactionService) Delete(ctx context.Context, id string) (ledger.Result, error) {
	result, err := s.ledger.Delete(ctx, id)
	if err != nil {
		return result, err
	}
	s.cache.InvalidateEntity(cache.EntityTransactions)
	s.cache.InvalidateEntity(cache.EntityAccounts)
	return result, nil
}

// List returns an account's transactions, newest first, through the query
// cache. By default documents owned by other users are filtered out; the
// shared-visibility option restores the raw accountId-only query.
func (s *TransactionService) List(ctx context.Context, accountID string) ([]ledger.Transaction, error) {
	ownerID, ok := s.session.CurrentUserID()
	if !ok && !s.shared {
		return nil, identity.ErrNotAuthenticated
	}

	key := cache.Key{Entity: cache.EntityTransactions, AccountID: accountID}
	cached, err := s.cache.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		docs, err := s.store.Query(ctx, docstore.CollectionTransactions, docstore.Filter{
			Field:  "accountId",
			Equals: accountID,
		})
		if err != nil {
			return nil, err
		}

		transactions := make([]ledger.Transaction, 0, len(docs))
		for _, doc := range docs {
			if !s.shared && doc.String("ownerId") != ownerID {
				continue
			}
			transactions = append(transactions, *ledger.TransactionFromDocument(doc))
		}
		sort.Slice(transactions, func(i, j int) bool {
			if !transactions[i].CreatedAt.Equal(transactions[j].CreatedAt) {
				return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
			}
			return transactions[i].ID > transactions[j].ID
		})
		return transactions, nil
	})
	if err != nil {
		return nil, err
	}
	return cached.([]ledger.Transaction), nil
}
