package service

import (
	"crypto/subtle"
	"fmt"
	"strconv"

	infrajwt "github.com/jonesrussell/cityvoice/infrastructure/jwt"
	"github.com/jonesrussell/cityvoice/internal/domain"
	"github.com/jonesrussell/cityvoice/internal/zones"
)

// AuthorityService authenticates zone authorities against configured
// passwords. A zone without a password cannot log in.
type AuthorityService struct {
	passwords map[domain.Zone]string
	issuer    TokenIssuer
}

// NewAuthorityService creates the authority service.
func NewAuthorityService(passwords map[domain.Zone]string, issuer TokenIssuer) *AuthorityService {
	return &AuthorityService{passwords: passwords, issuer: issuer}
}

// Login issues an authority token carrying the zone claim.
func (s *AuthorityService) Login(zone, password string) (*Token, *zones.Authority, error) {
	authority, ok := zones.AuthorityFor(domain.Zone(zone))
	if !ok {
		return nil, nil, ErrInvalidCredentials
	}
	want := s.passwords[authority.Zone]
	if want == "" || subtle.ConstantTimeCompare([]byte(want), []byte(password)) != 1 {
		return nil, nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.issuer.Issue(
		strconv.Itoa(authority.OfficerID), infrajwt.RoleAuthority, string(authority.Zone),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("issue token: %w", err)
	}
	return &Token{AccessToken: token, ExpiresAt: expiresAt}, &authority, nil
}
