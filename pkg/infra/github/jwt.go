package github

import (
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ffbot/pkg/domain/types"
)

const (
	// iat is backdated to tolerate clock drift between us and GitHub
	jwtClockSkew = 60 * time.Second
	jwtLifetime  = 120 * time.Second
)

// TokenCreator builds App JWTs used to request installation access tokens
type TokenCreator struct {
	issuer string
	key    jwk.Key
	now    func() time.Time
}

// TokenCreatorOption is a functional option for TokenCreator
type TokenCreatorOption func(*TokenCreator)

// WithClock replaces time.Now
func WithClock(now func() time.Time) TokenCreatorOption {
	return func(c *TokenCreator) {
		c.now = now
	}
}

// NewTokenCreator parses the RSA private key of the App. issuer is the App client ID (or App ID).
func NewTokenCreator(issuer string, privateKey types.PrivateKey, opts ...TokenCreatorOption) (*TokenCreator, error) {
	key, err := jwk.ParseKey(privateKey, jwk.WithPEM(true))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse GitHub App private key")
	}
	if key.KeyType() != jwa.RSA {
		return nil, goerr.New("GitHub App private key must be an RSA key", goerr.V("key_type", key.KeyType()))
	}
	if _, ok := key.(jwk.RSAPrivateKey); !ok {
		return nil, goerr.New("GitHub App private key must be a private key")
	}

	c := &TokenCreator{
		issuer: issuer,
		key:    key,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BuildToken returns a freshly signed RS256 JWT valid for three minutes
func (c *TokenCreator) BuildToken() (string, error) {
	now := c.now()

	token, err := jwt.NewBuilder().
		Issuer(c.issuer).
		IssuedAt(now.Add(-jwtClockSkew)).
		Expiration(now.Add(jwtLifetime)).
		Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build JWT")
	}

	hdrs := jws.NewHeaders()
	if err := hdrs.Set(jws.TypeKey, "JWT"); err != nil {
		return "", goerr.Wrap(err, "failed to set JWT header")
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.RS256, c.key, jws.WithProtectedHeaders(hdrs)))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign JWT")
	}

	return string(signed), nil
}
