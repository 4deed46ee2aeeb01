package userRepository

import (
	"ExpenseTracker/internal/api/user"
	"ExpenseTracker/internal/entity"
	contextPkg "ExpenseTracker/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type UserDB struct {
	ID        sql.NullString `db:"id"`
	Name      sql.NullString `db:"name"`
	Email     sql.NullString `db:"email"`
	ImageURL  sql.NullString `db:"image_url"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r *userRepository) GetByID(ctx context.Context, id string) (entity.User, error) {
	return r.getOne(ctx, queryGetUserByID, map[string]interface{}{"id": id}, "GetUserByID")
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	return r.getOne(ctx, queryGetUserByEmail, map[string]interface{}{"email": email}, "GetUserByEmail")
}

func (r *userRepository) getOne(ctx context.Context, baseQuery string, argsKV map[string]interface{}, operation string) (entity.User, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var userDB UserDB

	query, args, err := sqlx.Named(baseQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(operation + " named query preparation err")
		return entity.User{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&userDB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Warn(operation + " no rows found")
			return entity.User{}, user.ErrUserNotFound
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(operation + " execution err")

		return entity.User{}, err
	}

	return r.makeUser(userDB), nil
}

func (r *userRepository) Update(ctx context.Context, u entity.User) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"image_url":  u.ImageURL,
		"updated_at": time.Now(),
	}

	query, args, err := sqlx.Named(queryUpdateUser, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateUser named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateUser execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateUser rows affected err")
		return err
	}

	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warn("UpdateUser no rows affected")
		return user.ErrUserNotFound
	}

	return nil
}

func (r *userRepository) makeUser(u UserDB) entity.User {
	return entity.User{
		ID:        u.ID.String,
		Name:      u.Name.String,
		Email:     u.Email.String,
		ImageURL:  u.ImageURL.String,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
