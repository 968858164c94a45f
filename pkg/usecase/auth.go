package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/model/auth"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"golang.org/x/crypto/bcrypt"
)

// AuthUseCaseInterface is implemented by AuthUseCase and NoAuthnUseCase
type AuthUseCaseInterface interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
	Me(ctx context.Context, claims *auth.Claims) (*model.User, error)
	IsNoAuthn() bool
}

// LoginResult is a signed token together with the user it was issued to
type LoginResult struct {
	Token     string `masq:"secret"`
	ExpiresAt time.Time
	User      *model.User
}

const (
	// DefaultTokenTTL is the validity period of an issued token
	DefaultTokenTTL = 24 * time.Hour

	tokenIssuer = "kyclytics"
	claimEmail  = "email"
	claimName   = "name"
	claimRole   = "role"
)

// AuthUseCase authenticates operators with email and password and issues
// HS256-signed JWTs.
type AuthUseCase struct {
	repo   interfaces.Repository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// AuthOption is a functional option for AuthUseCase
type AuthOption func(*AuthUseCase)

// WithTokenTTL overrides DefaultTokenTTL
func WithTokenTTL(ttl time.Duration) AuthOption {
	return func(uc *AuthUseCase) {
		if ttl > 0 {
			uc.ttl = ttl
		}
	}
}

// WithAuthClock replaces time.Now for token issue and validation
func WithAuthClock(now func() time.Time) AuthOption {
	return func(uc *AuthUseCase) {
		uc.now = now
	}
}

func NewAuthUseCase(repo interfaces.Repository, secret []byte, options ...AuthOption) (*AuthUseCase, error) {
	if len(secret) == 0 {
		return nil, goerr.New("JWT secret is required")
	}

	uc := &AuthUseCase{
		repo:   repo,
		secret: secret,
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range options {
		opt(uc)
	}
	return uc, nil
}

// IsNoAuthn returns false for regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

// Login checks the credentials and issues a token. Unknown emails and wrong
// passwords fail with the same error.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, goerr.Wrap(ErrInvalidCredentials, "email and password are required")
	}

	user, err := uc.repo.User().GetByEmail(ctx, email)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, goerr.Wrap(ErrInvalidCredentials, "login failed", goerr.V(EmailKey, email))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(EmailKey, email))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, goerr.Wrap(ErrInvalidCredentials, "login failed", goerr.V(EmailKey, email))
	}

	now := uc.now()
	expiresAt := now.Add(uc.ttl)
	token, err := uc.sign(user, now, expiresAt)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (uc *AuthUseCase) sign(user *model.User, issuedAt, expiresAt time.Time) (string, error) {
	token, err := jwt.NewBuilder().
		Issuer(tokenIssuer).
		Subject(user.ID.String()).
		IssuedAt(issuedAt).
		Expiration(expiresAt).
		Claim(claimEmail, user.Email).
		Claim(claimName, user.Name).
		Claim(claimRole, user.Role.Normalize().String()).
		Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build token")
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, uc.secret))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign token")
	}
	return string(signed), nil
}

// ValidateToken verifies the signature and expiry of a token and returns its claims
func (uc *AuthUseCase) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, goerr.Wrap(ErrInvalidToken, "token is empty")
	}

	parsed, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256, uc.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithClock(jwt.ClockFunc(uc.now)),
	)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidToken, "failed to verify token", goerr.V("reason", err.Error()))
	}

	claims := &auth.Claims{
		UserID:    types.UserID(parsed.Subject()),
		ExpiresAt: parsed.Expiration(),
	}
	claims.Email = stringClaim(parsed, claimEmail)
	claims.Name = stringClaim(parsed, claimName)
	claims.Role = types.Role(stringClaim(parsed, claimRole)).Normalize()

	if err := claims.UserID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidToken, "token subject is not a user ID")
	}
	return claims, nil
}

// Me returns the user the claims were issued to
func (uc *AuthUseCase) Me(ctx context.Context, claims *auth.Claims) (*model.User, error) {
	if claims == nil {
		return nil, goerr.Wrap(ErrInvalidToken, "no claims")
	}

	user, err := uc.repo.User().Get(ctx, claims.UserID)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, goerr.Wrap(ErrUserNotFound, "failed to get current user", goerr.V("user_id", claims.UserID))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get current user", goerr.V("user_id", claims.UserID))
	}
	return user, nil
}

func stringClaim(token jwt.Token, name string) string {
	v, ok := token.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
