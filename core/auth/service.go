package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/user"
)

var errSecretNotSet = errors.New("secret key not configured")

type (
	Repository interface {
		CreateRevokedToken(ctx context.Context, rt RevokedToken) error
		IsTokenRevoked(ctx context.Context, jti string) (bool, error)
		DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
	}

	// Service owns credential verification, token issuance/decoding,
	// revocation tracking and identity resolution.
	Service struct {
		repo   Repository
		usrSvc *user.Service
		conf   *core.Config
	}
)

func NewService(conf *core.Config, repo Repository, usrSvc *user.Service) *Service {
	return &Service{repo: repo, usrSvc: usrSvc, conf: conf}
}

// Authenticate verifies the credential pair and the account state.
// Wrong credentials are indistinguishable from an unknown email.
func (svc *Service) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	usr, err := svc.usrSvc.GetByEmail(ctx, email)
	if err != nil {
		if core.IsKind(err, core.KindNotFound) {
			return user.User{}, core.Unauthorized("invalid credentials")
		}
		return user.User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(password); err != nil {
		return user.User{}, core.Unauthorized("invalid credentials")
	}
	if !usr.IsActive {
		return user.User{}, core.Forbidden("account deactivated")
	}
	return usr, nil
}

// IssueToken signs a token for the user with a fresh jti and the configured
// expiry window.
func (svc *Service) IssueToken(usr user.User) (token, jti string, expiresAt time.Time, err error) {
	if svc.conf.SecretKey == "" {
		return "", "", time.Time{}, errSecretNotSet
	}

	jti = uuid.New().String()
	expiresAt = time.Now().Add(svc.conf.Server.JWTExpiration)
	claims := &jwt.StandardClaims{
		Subject:   strconv.Itoa(usr.ID),
		Id:        jti,
		ExpiresAt: expiresAt.Unix(),
		IssuedAt:  time.Now().Unix(),
		Issuer:    svc.conf.AppName,
	}

	method := jwt.GetSigningMethod(svc.conf.Server.JWTAlgorithm)
	token, err = jwt.NewWithClaims(method, claims).SignedString([]byte(svc.conf.SecretKey))
	if err != nil {
		return "", "", time.Time{}, errors.Wrap(err, "signing token")
	}
	return token, jti, expiresAt.UTC(), nil
}

// DecodeToken verifies the signature and expiry and returns the claims.
// Callers map decode failures to Unauthorized.
func (svc *Service) DecodeToken(token string) (*jwt.StandardClaims, error) {
	if svc.conf.SecretKey == "" {
		return nil, errSecretNotSet
	}

	claims := new(jwt.StandardClaims)
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != svc.conf.Server.JWTAlgorithm {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(svc.conf.SecretKey), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "parsing token")
	}
	return claims, nil
}

func isDecodeError(err error) bool {
	if _, ok := errors.Cause(err).(*jwt.ValidationError); ok {
		return true
	}
	return false
}

// Revoke persists a revocation record for the jti. Revoking an already
// revoked jti is a no-op (the store's unique constraint is absorbed).
func (svc *Service) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	err := svc.repo.CreateRevokedToken(ctx, RevokedToken{
		JTI:       jti,
		RevokedAt: time.Now().UTC(),
		ExpiresAt: expiresAt.UTC(),
	})
	if err != nil && !core.IsKind(err, core.KindConflict) {
		return errors.Wrap(err, "revoking token")
	}
	return nil
}

func (svc *Service) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return svc.repo.IsTokenRevoked(ctx, jti)
}

// ResolveActor resolves the acting user from a raw token:
// decode -> claims presence -> revocation -> load user -> active check.
// The returned user carries its role-name set.
func (svc *Service) ResolveActor(ctx context.Context, token string) (user.User, error) {
	claims, err := svc.DecodeToken(token)
	if err != nil {
		if isDecodeError(err) {
			return user.User{}, core.Unauthorized("invalid token")
		}
		return user.User{}, err
	}
	if claims.Id == "" || claims.Subject == "" {
		return user.User{}, core.Unauthorized("invalid token")
	}

	revoked, err := svc.repo.IsTokenRevoked(ctx, claims.Id)
	if err != nil {
		return user.User{}, errors.Wrap(err, "checking revocation")
	}
	if revoked {
		return user.User{}, core.Unauthorized("token revoked")
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return user.User{}, core.Unauthorized("invalid token")
	}
	usr, err := svc.usrSvc.GetByID(ctx, id)
	if err != nil {
		return user.User{}, err // NotFound propagates as-is
	}
	if !usr.IsActive {
		return user.User{}, core.Forbidden("account deactivated")
	}
	return usr, nil
}

// ExtractTokenData pulls (jti, expiry) out of a token for revocation on
// logout. Decode failures surface as Unauthorized; the logout path
// deliberately suppresses them.
func (svc *Service) ExtractTokenData(token string) (jti string, expiresAt time.Time, err error) {
	claims, err := svc.DecodeToken(token)
	if err != nil {
		if isDecodeError(err) {
			return "", time.Time{}, core.Unauthorized("invalid token")
		}
		return "", time.Time{}, err
	}
	if claims.Id == "" || claims.ExpiresAt == 0 {
		return "", time.Time{}, core.Unauthorized("invalid token")
	}
	return claims.Id, time.Unix(claims.ExpiresAt, 0).UTC(), nil
}

// PurgeExpired removes revocation records whose tokens are past expiry;
// they can no longer decode successfully and need no tracking.
func (svc *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return svc.repo.DeleteExpiredTokens(ctx, time.Now().UTC())
}
