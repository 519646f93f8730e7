package inmemdb

import (
	"context"
	"time"

	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/auth"
)

type authRepository struct {
	db *DB
}

var _ auth.Repository = (*authRepository)(nil)

func NewAuthRepository(db *DB) *authRepository {
	return &authRepository{db: db}
}

func (repo *authRepository) CreateRevokedToken(_ context.Context, rt auth.RevokedToken) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.revoked[rt.JTI]; ok {
		return core.Conflict("token already revoked")
	}
	rt.ID = repo.db.nextID()
	repo.db.revoked[rt.JTI] = &rt
	return nil
}

func (repo *authRepository) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.revoked[jti]
	return ok, nil
}

func (repo *authRepository) DeleteExpiredTokens(_ context.Context, now time.Time) (int64, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var n int64
	for jti, rt := range repo.db.revoked {
		if rt.ExpiresAt.Before(now) {
			delete(repo.db.revoked, jti)
			n++
		}
	}
	return n, nil
}
