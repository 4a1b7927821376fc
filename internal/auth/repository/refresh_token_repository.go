package repository

import (
	"context"
	"errors"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	authdomain "github.com/AlibekovAA/sap-user-gateway/backend/internal/auth/domain"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/db"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
	userdomain "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/domain"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

type RefreshTokenRepository interface {
	Insert(ctx context.Context, token authdomain.RefreshToken) error
	FindByToken(ctx context.Context, token string) (authdomain.RefreshToken, error)
	DeleteByToken(ctx context.Context, token string) (int64, error)
	DeleteByUserAndToken(ctx context.Context, userID, token string) (int64, error)
	// Rotate deletes oldToken and inserts next as one unit. It fails with
	// ErrRefreshTokenNotFound, leaving the store untouched, when oldToken is
	// already gone.
	Rotate(ctx context.Context, oldToken string, next authdomain.RefreshToken) error
}

type PgRefreshTokenRepository struct {
	pool  *pgxpool.Pool
	txMgr *db.TxManager
	retry db.RetryConfig
	log   *logger.Logger
}

func NewPgRefreshTokenRepository(pool *pgxpool.Pool, log *logger.Logger) *PgRefreshTokenRepository {
	return &PgRefreshTokenRepository{
		pool:  pool,
		txMgr: db.NewTxManager(pool),
		retry: db.DefaultRetryConfig,
		log:   log,
	}
}

const insertRefreshTokenSQL = `INSERT INTO refresh_tokens (token_hash, user_id, expires_at, created_at)
	 VALUES ($1, $2, $3, $4)`

func (r *PgRefreshTokenRepository) Insert(ctx context.Context, token authdomain.RefreshToken) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		insertRefreshTokenSQL,
		authdomain.HashToken(token.Token),
		token.UserID,
		token.ExpiresAt,
		token.CreatedAt,
	)
	return db.HandleExecError(err, "insert refresh token", start)
}

func (r *PgRefreshTokenRepository) FindByToken(ctx context.Context, token string) (authdomain.RefreshToken, error) {
	var rec authdomain.RefreshToken
	err := db.RetryWithBackoff(ctx, r.log, r.retry, "find_refresh_token", func() error {
		var findErr error
		rec, findErr = r.findByToken(ctx, token)
		return findErr
	})
	return rec, err
}

func (r *PgRefreshTokenRepository) findByToken(ctx context.Context, token string) (authdomain.RefreshToken, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT rt.user_id, rt.expires_at, rt.created_at,
		        u.email, u.name, u.role, u.is_active, u.sap_id, u.created_at, u.updated_at
		 FROM refresh_tokens rt
		 JOIN users u ON u.id = rt.user_id
		 WHERE rt.token_hash = $1`,
		authdomain.HashToken(token),
	)

	var (
		rec  authdomain.RefreshToken
		role string
	)
	err := row.Scan(
		&rec.UserID, &rec.ExpiresAt, &rec.CreatedAt,
		&rec.User.Email, &rec.User.Name, &role, &rec.User.IsActive, &rec.User.SapID,
		&rec.User.CreatedAt, &rec.User.UpdatedAt,
	)
	if err := db.HandleQueryError(err, ErrRefreshTokenNotFound, "find refresh token", start); err != nil {
		return authdomain.RefreshToken{}, err
	}

	rec.Token = token
	rec.User.ID = userdomain.ID(rec.UserID)
	rec.User.Role = userdomain.Role(role)
	return rec, nil
}

func (r *PgRefreshTokenRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	start := time.Now()
	tag, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, authdomain.HashToken(token))
	if err := db.HandleExecError(err, "delete refresh token", start); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgRefreshTokenRepository) DeleteByUserAndToken(ctx context.Context, userID, token string) (int64, error) {
	start := time.Now()
	tag, err := r.pool.Exec(
		ctx,
		`DELETE FROM refresh_tokens WHERE user_id = $1 AND token_hash = $2`,
		userID,
		authdomain.HashToken(token),
	)
	if err := db.HandleExecError(err, "delete refresh token by user", start); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Rotate relies on the conditional delete: of two transactions presenting
// the same token only one sees a deleted row, the other gets zero rows and
// rolls back. Serialization failures and deadlocks retry the whole
// transaction.
func (r *PgRefreshTokenRepository) Rotate(ctx context.Context, oldToken string, next authdomain.RefreshToken) error {
	return db.RetryWithBackoff(ctx, r.log, r.retry, "rotate_refresh_token", func() error {
		return r.rotate(ctx, oldToken, next)
	})
}

func (r *PgRefreshTokenRepository) rotate(ctx context.Context, oldToken string, next authdomain.RefreshToken) error {
	return r.txMgr.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		start := time.Now()
		tag, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, authdomain.HashToken(oldToken))
		if err := db.HandleExecError(err, "rotate refresh token delete", start); err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrRefreshTokenNotFound
		}

		start = time.Now()
		_, err = tx.Exec(
			ctx,
			insertRefreshTokenSQL,
			authdomain.HashToken(next.Token),
			next.UserID,
			next.ExpiresAt,
			next.CreatedAt,
		)
		return db.HandleExecError(err, "rotate refresh token insert", start)
	})
}
