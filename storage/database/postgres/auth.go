package postgresrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/unidigital/academia/core/auth"
)

type authRepository struct {
	db *sqlx.DB
}

var _ auth.Repository = (*authRepository)(nil)

func NewAuthRepository(db *sqlx.DB) *authRepository {
	return &authRepository{db: db}
}

func (repo *authRepository) CreateRevokedToken(ctx context.Context, rt auth.RevokedToken) error {
	query := `
		INSERT INTO revoked_tokens (jti, revoked_at, expires_at)
		VALUES ($1, $2, $3)`
	if _, err := repo.db.ExecContext(ctx, query, rt.JTI, rt.RevokedAt, rt.ExpiresAt); err != nil {
		return translateErr(err, "", "token already revoked")
	}
	return nil
}

func (repo *authRepository) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	query := `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`
	if err := repo.db.GetContext(ctx, &revoked, query, jti); err != nil {
		return false, errors.Wrap(err, "checking token revocation")
	}
	return revoked, nil
}

func (repo *authRepository) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, errors.Wrap(err, "deleting expired tokens")
	}
	n, err := res.RowsAffected()
	return n, errors.Wrap(err, "counting deleted tokens")
}
