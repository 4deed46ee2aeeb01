package ledgerRepository

import (
	"ExpenseTracker/internal/api/ledger"
	"ExpenseTracker/internal/entity"
	contextPkg "ExpenseTracker/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type TransactionDB struct {
	ID          sql.NullString  `db:"id"`
	UserID      sql.NullString  `db:"user_id"`
	WalletID    sql.NullString  `db:"wallet_id"`
	Type        sql.NullString  `db:"type"`
	Amount      sql.NullFloat64 `db:"amount"`
	Category    sql.NullString  `db:"category"`
	Description sql.NullString  `db:"description"`
	ImageURL    sql.NullString  `db:"image_url"`
	Date        time.Time       `db:"date"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r *transactionRepository) Create(ctx context.Context, transaction entity.Transaction) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryCreateTransaction, r.transactionArgs(transaction))
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateTransaction")
		return err
	}

	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating transaction")
		return err
	}

	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id, userID string) (entity.Transaction, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var transaction TransactionDB

	argsKV := map[string]interface{}{
		"id":      id,
		"user_id": userID,
	}

	query, args, err := sqlx.Named(queryGetTransactionByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTransactionByID named query preparation err")
		return entity.Transaction{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&transaction); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id":     requestID,
				"transaction_id": id,
			}).Warn("GetTransactionByID no rows found")
			return entity.Transaction{}, ledger.ErrTransactionNotFound
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTransactionByID execution err")

		return entity.Transaction{}, err
	}

	return r.makeTransaction(transaction), nil
}

func (r *transactionRepository) GetByUserID(ctx context.Context, userID, search string, limit, offset int) ([]entity.Transaction, int, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var transactions []TransactionDB
	var total int

	countArgsKV := map[string]interface{}{
		"user_id": userID,
		"search":  search,
	}

	countQuery, countArgs, err := sqlx.Named(queryCountTransactionsByUserID, countArgsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountTransactionsByUserID named query preparation err")
		return nil, 0, err
	}

	countQuery = r.q.Rebind(countQuery)

	if err := r.q.QueryRowxContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountTransactionsByUserID execution err")
		return nil, 0, err
	}

	argsKV := map[string]interface{}{
		"user_id": userID,
		"search":  search,
		"limit":   limit,
		"offset":  offset,
	}

	query, args, err := sqlx.Named(queryGetTransactionsByUserID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTransactionsByUserID named query preparation err")
		return nil, 0, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &transactions, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTransactionsByUserID execution err")
		return nil, 0, err
	}

	result := make([]entity.Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		result = append(result, r.makeTransaction(transaction))
	}

	return result, total, nil
}

func (r *transactionRepository) GetByDateRange(ctx context.Context, userID string, from, to time.Time) ([]entity.Transaction, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var transactions []TransactionDB

	argsKV := map[string]interface{}{
		"user_id": userID,
		"from":    from,
		"to":      to,
	}

	query, args, err := sqlx.Named(queryGetTransactionsByDateRange, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTransactionsByDateRange named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &transactions, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTransactionsByDateRange execution err")
		return nil, err
	}

	result := make([]entity.Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		result = append(result, r.makeTransaction(transaction))
	}

	return result, nil
}

func (r *transactionRepository) Update(ctx context.Context, transaction entity.Transaction) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryUpdateTransaction, r.transactionArgs(transaction))
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateTransaction named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateTransaction execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateTransaction rows affected err")
		return err
	}

	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warn("UpdateTransaction no rows affected")
		return ledger.ErrTransactionNotFound
	}

	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id, userID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":      id,
		"user_id": userID,
	}

	query, args, err := sqlx.Named(queryDeleteTransaction, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteTransaction named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteTransaction execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteTransaction rows affected err")
		return err
	}

	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warn("DeleteTransaction no rows affected")
		return ledger.ErrTransactionNotFound
	}

	return nil
}

func (r *transactionRepository) DeleteByWalletID(ctx context.Context, walletID, userID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"wallet_id": walletID,
		"user_id":   userID,
	}

	query, args, err := sqlx.Named(queryDeleteTransactionsByWalletID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteTransactionsByWalletID named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	// Zero rows is fine here: a wallet may have no transactions yet.
	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteTransactionsByWalletID execution err")
		return err
	}

	return nil
}

func (r *transactionRepository) transactionArgs(transaction entity.Transaction) map[string]interface{} {
	return map[string]interface{}{
		"id":          transaction.ID,
		"user_id":     transaction.UserID,
		"wallet_id":   transaction.WalletID,
		"type":        transaction.Type,
		"amount":      transaction.Amount,
		"category":    transaction.Category,
		"description": transaction.Description,
		"image_url":   transaction.ImageURL,
		"date":        transaction.Date,
		"created_at":  transaction.CreatedAt,
		"updated_at":  transaction.UpdatedAt,
	}
}

func (r *transactionRepository) makeTransaction(transaction TransactionDB) entity.Transaction {
	return entity.Transaction{
		ID:          transaction.ID.String,
		UserID:      transaction.UserID.String,
		WalletID:    transaction.WalletID.String,
		Type:        transaction.Type.String,
		Amount:      transaction.Amount.Float64,
		Category:    transaction.Category.String,
		Description: transaction.Description.String,
		ImageURL:    transaction.ImageURL.String,
		Date:        transaction.Date,
		CreatedAt:   transaction.CreatedAt,
		UpdatedAt:   transaction.UpdatedAt,
	}
}
