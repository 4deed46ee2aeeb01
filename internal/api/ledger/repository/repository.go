package ledgerRepository

import (
	"ExpenseTracker/internal/entity"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

// NewClient returns a Client whose repositories share one executor. With
// tx=true every call runs inside a single database transaction; Commit
// makes the whole batch durable, Rollback discards it. Wallet adjustments
// and transaction-record writes that must land together go through one
// transactional client.
func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Wallets:      &walletRepository{q: sqlExecutor, log: r.log},
		Transactions: &transactionRepository{q: sqlExecutor, log: r.log},
		Commit:       commitFunc,
		Rollback:     rollbackFunc,
	}, nil
}

type Client struct {
	Wallets interface {
		Create(ctx context.Context, wallet entity.Wallet) error
		GetByID(ctx context.Context, id, userID string) (entity.Wallet, error)
		// GetByIDForUpdate row-locks the wallet so concurrent ledger
		// operations on it serialize. Only valid inside a transaction.
		GetByIDForUpdate(ctx context.Context, id, userID string) (entity.Wallet, error)
		GetByUserID(ctx context.Context, userID string) ([]entity.Wallet, error)
		Update(ctx context.Context, wallet entity.Wallet) error
		UpdateBalances(ctx context.Context, id, userID string, amount, totalIncome, totalExpenses float64) error
		Delete(ctx context.Context, id, userID string) error
	}

	Transactions interface {
		Create(ctx context.Context, transaction entity.Transaction) error
		GetByID(ctx context.Context, id, userID string) (entity.Transaction, error)
		GetByUserID(ctx context.Context, userID, search string, limit, offset int) ([]entity.Transaction, int, error)
		GetByDateRange(ctx context.Context, userID string, from, to time.Time) ([]entity.Transaction, error)
		Update(ctx context.Context, transaction entity.Transaction) error
		Delete(ctx context.Context, id, userID string) error
		DeleteByWalletID(ctx context.Context, walletID, userID string) error
	}

	Commit   func() error
	Rollback func() error
}

type walletRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type transactionRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
