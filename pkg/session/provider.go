/**
 * @description
 * Session provider for requests coming from the browser client. Sessions are owned
 * by the hosted auth backend, which signs access tokens with a shared HS256 secret;
 * this package only verifies them and maps the claims to a domain.User.
 *
 * @dependencies
 * - github.com/golang-jwt/jwt/v5
 */
package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sufyan123ayaz/Bank-Clone/internal/domain"
)

// ErrNoSession means the request carries no valid session.
var ErrNoSession = errors.New("no active session")

// Claims is the access token payload issued by the hosted auth backend.
type Claims struct {
	Email        string       `json:"email"`
	UserMetadata UserMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

// UserMetadata holds the profile fields the auth backend embeds in the token.
type UserMetadata struct {
	FullName string `json:"full_name,omitempty"`
}

// Config configures token verification.
type Config struct {
	Secret   string
	Issuer   string
	Audience string
	Leeway   time.Duration
}

// Provider verifies bearer tokens.
type Provider struct {
	secret []byte
	cfg    Config
	parser *jwt.Parser
}

// NewProvider creates a provider for HS256 tokens signed with cfg.Secret.
func NewProvider(cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("session secret is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &Provider{
		secret: []byte(cfg.Secret),
		cfg:    cfg,
		parser: jwt.NewParser(opts...),
	}, nil
}

// CurrentUser returns the user behind the request's bearer token.
func (p *Provider) CurrentUser(r *http.Request) (*domain.User, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, ErrNoSession
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || tokenString == "" {
		return nil, fmt.Errorf("%w: invalid Authorization header format", ErrNoSession)
	}
	return p.Verify(tokenString)
}

// Verify parses and validates a raw token.
func (p *Provider) Verify(tokenString string) (*domain.User, error) {
	var claims Claims
	token, err := p.parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrNoSession)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrNoSession)
	}

	return &domain.User{
		ID:          claims.Subject,
		Email:       claims.Email,
		FullName:    strings.TrimSpace(claims.UserMetadata.FullName),
		DisplayName: domain.ResolveDisplayName(claims.UserMetadata.FullName, claims.Email),
	}, nil
}

// Issue signs a token for user that expires after ttl. The auth backend issues
// real tokens; this is used by local tooling and tests.
func (p *Provider) Issue(user domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:        user.Email,
		UserMetadata: UserMetadata{FullName: user.FullName},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    p.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if p.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{p.cfg.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}
