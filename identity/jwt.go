package identity

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod selects the JWT verification algorithm.
type SigningMethod string

const (
	// MethodEd25519 verifies EdDSA signatures against an Ed25519 public key.
	MethodEd25519 SigningMethod = "ed25519"
	// MethodHS256 verifies HMAC-SHA256 signatures against a shared secret.
	MethodHS256 SigningMethod = "hs256"
)

// ErrTokenInvalid is returned for any token that fails parsing, signature
// verification, or claim validation. The cause is deliberately not exposed.
var ErrTokenInvalid = errors.New("invalid token")

// JWTConfig configures a [JWTResolver]. Key is either the raw 32-byte
// Ed25519 public key or the HS256 shared secret, depending on SigningMethod.
type JWTConfig struct {
	SigningMethod    SigningMethod
	Key              []byte
	Issuer           string
	Audience         string
	Leeway           time.Duration
	AuthoritiesClaim string // claim holding the authority list, default "authorities"
}

// JWTResolver is a verify-only [Resolver]: it parses a signed access token
// and maps its subject and authorities claim to a [Principal]. It never
// issues or refreshes tokens.
type JWTResolver struct {
	config JWTConfig
	parser *jwt.Parser
	key    any
}

// NewJWTResolver validates the configuration and returns a ready resolver.
func NewJWTResolver(cfg JWTConfig) (*JWTResolver, error) {
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.AuthoritiesClaim == "" {
		cfg.AuthoritiesClaim = "authorities"
	}

	var key any
	var methods []string
	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.Key) == 0 {
			return nil, errors.New("hs256 requires a shared secret")
		}
		key = cfg.Key
		methods = []string{jwt.SigningMethodHS256.Alg()}
	case MethodEd25519:
		if len(cfg.Key) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("ed25519 public key must be %d bytes", ed25519.PublicKeySize)
		}
		key = ed25519.PublicKey(cfg.Key)
		methods = []string{jwt.SigningMethodEdDSA.Alg()}
	default:
		return nil, fmt.Errorf("unsupported signing method %q", cfg.SigningMethod)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &JWTResolver{
		config: cfg,
		parser: jwt.NewParser(opts...),
		key:    key,
	}, nil
}

// Resolve verifies the token and returns the embedded principal. Every
// failure collapses to [ErrTokenInvalid].
func (r *JWTResolver) Resolve(_ context.Context, token string) (Principal, error) {
	if r == nil || token == "" {
		return Principal{}, ErrTokenInvalid
	}

	claims := jwt.MapClaims{}
	parsed, err := r.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return r.key, nil
	})
	if err != nil || !parsed.Valid {
		return Principal{}, ErrTokenInvalid
	}
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return Principal{}, ErrTokenInvalid
	}

	return Principal{
		ID:          subject,
		Authorities: authoritiesFromClaim(claims[r.config.AuthoritiesClaim]),
	}, nil
}

func authoritiesFromClaim(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// StaticResolver maps fixed tokens to principals. Intended for tests and
// wiring examples.
type StaticResolver map[string]Principal

// Resolve implements [Resolver].
func (s StaticResolver) Resolve(_ context.Context, token string) (Principal, error) {
	p, ok := s[token]
	if !ok {
		return Principal{}, ErrTokenInvalid
	}
	return p, nil
}
