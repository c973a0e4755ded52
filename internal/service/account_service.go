package service

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bytebank/bytebank-client/internal/cache"
	"github.com/bytebank/bytebank-client/internal/docstore"
	"github.com/bytebank/bytebank-client/internal/identity"
)

// AccountService handles account business logic.
type AccountService struct {
	store   docstore.Store
	session identity.Session
	cache   *cache.Cache
}

// CreateAccount creates an account owned by the current user.
func (s *AccountService) CreateAccount(ctx context.Context, name string, balance decimal.Decimal) (*Account, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, ErrInvalidName
	}

	ownerID, _ := s.session.CurrentUserID()
	id, err := s.store.Create(ctx, docstore.CollectionAccounts, docstore.Document{
		"name":    name,
		"balance": balance,
		"ownerId": ownerID,
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateEntity(cache.EntityAccounts)
	return &Account{ID: id, Name: name, Balance: balance, OwnerID: ownerID}, nil
}

// GetAccount retrieves an account by ID.
func (s *AccountService) GetAccount(ctx context.Context, id string) (*Account, error) {
	doc, err := s.store.Get(ctx, docstore.CollectionAccounts, id)
	if err != nil {
		return nil, err
	}
	account := accountFromDocument(doc)
	return &account, nil
}

// ListAccounts returns the current user's accounts, name-ordered, through the
// query cache. A signed-out session is an error; there is no unscoped
// fallback.
func (s *AccountService) ListAccounts(ctx context.Context) ([]Account, error) {
	ownerID, ok := s.session.CurrentUserID()
	if !ok {
		return nil, identity.ErrNotAuthenticated
	}

	key := cache.Key{Entity: cache.EntityAccounts}
	cached, err := s.cache.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		docs, err := s.store.Query(ctx, docstore.CollectionAccounts, docstore.Filter{
			Field:  "ownerId",
			Equals: ownerID,
		})
		if err != nil {
			return nil, err
		}
		accounts := make([]Account, len(docs))
		for i, doc := range docs {
			accounts[i] = accountFromDocument(doc)
		}
		sort.Slice(accounts, func(i, j int) bool {
			if accounts[i].Name != accounts[j].Name {
				return accounts[i].Name < accounts[j].Name
			}
			return accounts[i].ID < accounts[j].ID
		})
		return accounts, nil
	})
	if err != nil {
		return nil, err
	}
	return cached.([]Account), nil
}

// UpdateAccount renames an account and/or overrides its balance manually.
// Nil fields are left untouched.
func (s *AccountService) UpdateAccount(ctx context.Context, id string, name *string, balance *decimal.Decimal) error {
	partial := docstore.Document{}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if len(trimmed) < 2 {
			return ErrInvalidName
		}
		partial["name"] = trimmed
	}
	if balance != nil {
		partial["balance"] = *balance
	}
	if len(partial) == 0 {
		return nil
	}

	if err := s.store.Update(ctx, docstore.CollectionAccounts, id, partial); err != nil {
		return err
	}
	s.cache.InvalidateEntity(cache.EntityAccounts)
	return nil
}

// DeleteAccount removes an account document. Transactions referencing it are
// left in place; the store enforces no referential integrity.
func (s *AccountService) DeleteAccount(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, docstore.CollectionAccounts, id); err != nil {
		return err
	}
	s.cache.InvalidateEntity(cache.EntityAccounts)
	s.cache.Invalidate(cache.Key{Entity: cache.EntityTransactions, AccountID: id})
	return nil
}
