package auth

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/question-service/internal/config"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID       string
	Name         string
	Organization string
}

// TokenParser verifies a raw JWT and returns who it belongs to.
type TokenParser interface {
	ParseToken(token string) (*Identity, error)
}

type CasdoorTokenParser struct {
	client *casdoorsdk.Client
}

func NewCasdoorTokenParser(cfg config.AuthConfig) (*CasdoorTokenParser, error) {
	if cfg.Endpoint == "" || cfg.Certificate == "" {
		return nil, errors.New("casdoor endpoint and certificate are required when auth is enabled")
	}
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Certificate,
		cfg.OrganizationName,
		cfg.ApplicationName,
	)
	return &CasdoorTokenParser{client: client}, nil
}

func (p *CasdoorTokenParser) ParseToken(token string) (*Identity, error) {
	claims, err := p.client.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	identity := &Identity{
		UserID:       claims.User.Id,
		Name:         claims.User.Name,
		Organization: claims.User.Owner,
	}
	if identity.UserID == "" {
		identity.UserID = claims.RegisteredClaims.Subject
	}
	if identity.UserID == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrInvalidToken)
	}
	return identity, nil
}
