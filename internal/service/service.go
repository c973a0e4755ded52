package service

import (
	"github.com/sirupsen/logrus"

	"github.com/bytebank/bytebank-client/internal/cache"
	"github.com/bytebank/bytebank-client/internal/docstore"
	"github.com/bytebank/bytebank-client/internal/identity"
	"github.com/bytebank/bytebank-client/internal/ledger"
)

// Service holds all business logic services.
type Service struct {
	Accounts     *AccountService
	Transactions *TransactionService
	Users        *UserService
}

// Option tweaks service construction.
type Option func(*Service)

// WithSharedVisibility disables the default owner filter on transaction
// lists, restoring cross-user visibility. Deliberately an explicit opt-in.
func WithSharedVisibility() Option {
	return func(s *Service) {
		s.Transactions.shared = true
	}
}

// NewService wires the services over one store, session and cache.
func NewService(store docstore.Store, session identity.Session, log *logrus.Logger, opts ...Option) *Service {
	queryCache := cache.New()
	ldg := ledger.New(store, session, log)

	svc := &Service{
		Accounts: &AccountService{
			store:   store,
			session: session,
			cache:   queryCache,
		},
		Transactions: &TransactionService{
			ledger:  ldg,
			store:   store,
			session: session,
			cache:   queryCache,
		},
		Users: &UserService{
			store:   store,
			session: session,
		},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}
