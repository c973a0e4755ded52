package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/bytebank/bytebank-client/internal/config"
	"github.com/bytebank/bytebank-client/internal/docstore"
	"github.com/bytebank/bytebank-client/internal/docstore/memstore"
	"github.com/bytebank/bytebank-client/internal/docstore/reststore"
	"github.com/bytebank/bytebank-client/internal/docstore/sqlstore"
	"github.com/bytebank/bytebank-client/internal/identity"
	"github.com/bytebank/bytebank-client/internal/ledger"
	"github.com/bytebank/bytebank-client/internal/logging"
	"github.com/bytebank/bytebank-client/internal/service"
)

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logger.Info("bytebank-client starting")

	session := &identity.StaticSession{
		UserID:      envConfig.UserID,
		BearerToken: envConfig.APIToken,
	}

	store, closeStore, err := openStore(envConfig, session)
	if err != nil {
		logger.WithError(err).Fatal("openStore")
		return
	}
	defer func() { _ = closeStore() }()

	svc := service.NewService(store, session, logger)

	app := newApp(svc, store, logger)
	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Error("app.Run")
		os.Exit(1)
	}
}

func openStore(cfg *config.Config, session identity.Session) (docstore.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store {
	case config.StoreSQLite:
		store, err := sqlstore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	case config.StoreRest:
		return reststore.New(cfg.APIBaseURL, session), noop, nil
	default:
		return memstore.New(), noop, nil
	}
}

func newApp(svc *service.Service, store docstore.Store, logger *logrus.Logger) *cli.App {
	return &cli.App{
		Name:  "bytebank",
		Usage: "personal banking data layer: accounts, transactions, balances",
		Commands: []*cli.Command{
			accountCommand(svc, logger),
			transactionCommand(svc, logger),
			userCommand(svc, logger),
			dumpCommand(store, logger),
		},
	}
}

func accountCommand(svc *service.Service, logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "manage accounts",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "balance", Value: "0"},
				},
				Action: logging.CommandWrapper("AccountCreate", logger, func(c *cli.Context, logData *logging.LogData) error {
					balance, err := decimal.NewFromString(c.String("balance"))
					if err != nil {
						return fmt.Errorf("invalid balance: %w", err)
					}
					account, err := svc.Accounts.CreateAccount(c.Context, c.String("name"), balance)
					if err != nil {
						return err
					}
					logData.AddData("accountId", account.ID)
					fmt.Printf("%s\t%s\t%s\n", account.ID, account.Name, account.Balance)
					return nil
				}),
			},
			{
				Name:  "list",
				Usage: "list the signed-in user's accounts",
				Action: logging.CommandWrapper("AccountList", logger, func(c *cli.Context, logData *logging.LogData) error {
					accounts, err := svc.Accounts.ListAccounts(c.Context)
					if err != nil {
						return err
					}
					logData.AddData("count", len(accounts))
					for _, account := range accounts {
						fmt.Printf("%s\t%s\t%s\n", account.ID, account.Name, account.Balance)
					}
					return nil
				}),
			},
			{
				Name:      "rm",
				Usage:     "delete an account",
				ArgsUsage: "<account-id>",
				Action: logging.CommandWrapper("AccountDelete", logger, func(c *cli.Context, logData *logging.LogData) error {
					if c.NArg() != 1 {
						return fmt.Errorf("expected exactly one account id")
					}
					return svc.Accounts.DeleteAccount(c.Context, c.Args().First())
				}),
			},
		},
	}
}

func transactionCommand(svc *service.Service, logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:  "tx",
		Usage: "record and manage transactions",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "record a transaction against an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "account", Required: true},
					&cli.StringFlag{Name: "value", Required: true},
					&cli.StringFlag{Name: "type", Value: string(ledger.TypeDeposit), Usage: "DEPOSIT, WITHDRAW or TRANSFER"},
					&cli.StringFlag{Name: "from"},
					&cli.StringFlag{Name: "to"},
				},
				Action: logging.CommandWrapper("TransactionAdd", logger, func(c *cli.Context, logData *logging.LogData) error {
					value, err := decimal.NewFromString(c.String("value"))
					if err != nil {
						return fmt.Errorf("invalid value: %w", err)
					}
					txType, err := ledger.ParseType(c.String("type"))
					if err != nil {
						return err
					}
					result, err := svc.Transactions.Record(c.Context, ledger.Create{
						AccountID: c.String("account"),
						Value:     value,
						Type:      txType,
						From:      c.String("from"),
						To:        c.String("to"),
					})
					if err != nil {
						return err
					}
					logData.AddData("transactionId", result.Transaction.ID)
					logData.AddData("balance", result.Balance.String())
					fmt.Printf("%s\t%s\t%s\n", result.Transaction.ID, result.Transaction.Type, result.Transaction.Value)
					reportBalance(result)
					return nil
				}),
			},
			{
				Name:      "edit",
				Usage:     "edit a transaction's value, type or counterparties",
				ArgsUsage: "<transaction-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "value"},
					&cli.StringFlag{Name: "type"},
					&cli.StringFlag{Name: "from"},
					&cli.StringFlag{Name: "to"},
				},
				Action: logging.CommandWrapper("TransactionEdit", logger, func(c *cli.Context, logData *logging.LogData) error {
					if c.NArg() != 1 {
						return fmt.Errorf("expected exactly one transaction id")
					}
					changes := ledger.Update{}
					if c.IsSet("value") {
						value, err := decimal.NewFromString(c.String("value"))
						if err != nil {
							return fmt.Errorf("invalid value: %w", err)
						}
						changes.Value = &value
					}
					if c.IsSet("type") {
						txType, err := ledger.ParseType(c.String("type"))
						if err != nil {
							return err
						}
						changes.Type = &txType
					}
					if c.IsSet("from") {
						from := c.String("from")
						changes.From = &from
					}
					if c.IsSet("to") {
						to := c.String("to")
						changes.To = &to
					}
					result, err := svc.Transactions.Update(c.Context, c.Args().First(), changes)
					if err != nil {
						return err
					}
					logData.AddData("balance", result.Balance.String())
					reportBalance(result)
					return nil
				}),
			},
			{
				Name:      "rm",
				Usage:     "delete a transaction",
				ArgsUsage: "<transaction-id>",
				Action: logging.CommandWrapper("TransactionDelete", logger, func(c *cli.Context, logData *logging.LogData) error {
					if c.NArg() != 1 {
						return fmt.Errorf("expected exactly one transaction id")
					}
					result, err := svc.Transactions.Delete(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					logData.AddData("balance", result.Balance.String())
					reportBalance(result)
					return nil
				}),
			},
			{
				Name:  "list",
				Usage: "list an account's transactions, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "account", Required: true},
				},
				Action: logging.CommandWrapper("TransactionList", logger, func(c *cli.Context, logData *logging.LogData) error {
					transactions, err := svc.Transactions.List(c.Context, c.String("account"))
					if err != nil {
						return err
					}
					logData.AddData("count", len(transactions))
					for _, tx := range transactions {
						fmt.Printf("%s\t%s\t%s\t%s\n", tx.ID, tx.Type, tx.Value, tx.CreatedAt.Format("2006-01-02 15:04"))
					}
					return nil
				}),
			},
		},
	}
}

func userCommand(svc *service.Service, logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "manage the signed-in user's profile",
		Subcommands: []*cli.Command{
			{
				Name:  "profile",
				Usage: "show the current profile",
				Action: logging.CommandWrapper("UserProfile", logger, func(c *cli.Context, logData *logging.LogData) error {
					user, err := svc.Users.Profile(c.Context)
					if err != nil {
						return err
					}
					fmt.Printf("%s\t%s\t%s\n", user.ID, user.Name, user.Email)
					return nil
				}),
			},
			{
				Name:  "set",
				Usage: "update profile name and/or email",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "email"},
				},
				Action: logging.CommandWrapper("UserUpdate", logger, func(c *cli.Context, logData *logging.LogData) error {
					var name, email *string
					if c.IsSet("name") {
						v := c.String("name")
						name = &v
					}
					if c.IsSet("email") {
						v := c.String("email")
						email = &v
					}
					return svc.Users.UpdateProfile(c.Context, name, email)
				}),
			},
		},
	}
}

func dumpCommand(store docstore.Store, logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "dump a collection's raw documents (debug)",
		ArgsUsage: "<collection>",
		Action: logging.CommandWrapper("Dump", logger, func(c *cli.Context, logData *logging.LogData) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one collection name")
			}
			docs, err := store.Query(c.Context, c.Args().First(), docstore.Filter{})
			if err != nil {
				return err
			}
			logData.AddData("count", len(docs))
			spew.Fdump(os.Stdout, docs)
			return nil
		}),
	}
}

// reportBalance tells the user when the denormalized balance did not track
// the mutation. The mutation itself already succeeded.
func reportBalance(result ledger.Result) {
	if result.Balance != ledger.BalanceApplied {
		fmt.Printf("warning: account balance %s\n", result.Balance)
	}
}
