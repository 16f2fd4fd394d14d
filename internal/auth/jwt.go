// Package auth verifies the operator tokens issued by the identity service.
package auth

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

var (
	ErrMissingBearer = errors.New("missing_bearer_token")
	ErrInvalidKey    = errors.New("invalid_public_key")
)

// Claims carries the operator identity. Tokens without user_id fall back to sub.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// OperatorID is the user the token was issued to.
func (c *Claims) OperatorID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// Verifier checks operator bearer tokens. A nil Verifier means authentication is
// not configured.
type Verifier struct {
	key    *rsa.PublicKey
	parser *jwt.Parser
}

// NewVerifier returns nil, nil when pemData is empty.
func NewVerifier(pemData, issuer string) (*Verifier, error) {
	if strings.TrimSpace(pemData) == "" {
		return nil, nil
	}
	key, err := decodeRSAKey(pemData)
	if err != nil {
		return nil, err
	}
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()})}
	if issuer != "" {
		options = append(options, jwt.WithIssuer(issuer))
	}
	return &Verifier{key: key, parser: jwt.NewParser(options...)}, nil
}

// Verify parses an Authorization header value.
func (v *Verifier) Verify(header string) (*Claims, error) {
	raw, ok := BearerToken(header)
	if !ok {
		return nil, ErrMissingBearer
	}
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "parse operator token")
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func decodeRSAKey(pemData string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, ErrInvalidKey
	}
	if block.Type == "RSA PUBLIC KEY" {
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		return key, errors.Wrap(err, "pkcs1 public key")
	}
	if block.Type != "PUBLIC KEY" {
		return nil, errors.Wrapf(ErrInvalidKey, "pem block %q", block.Type)
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrap(err, "pkix public key")
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errors.Wrap(ErrInvalidKey, "not an RSA key")
	}
	return key, nil
}

func BearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
