package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/venue-access-service/internal/domain"
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute, now: time.Now}
}

// Claims describes JWT payload. ProfileID and VenueID are set only on staff tokens.
type Claims struct {
	SubjectID string             `json:"sub"`
	Subject   domain.SubjectType `json:"subject"`
	ProfileID string             `json:"profile_id,omitempty"`
	VenueID   string             `json:"venue_id,omitempty"`
	jwt.RegisteredClaims
}

// GenerateAccountToken signs an identity-only token.
func (tm *TokenManager) GenerateAccountToken(accountID string) (string, time.Time, error) {
	return tm.generate(&Claims{SubjectID: accountID, Subject: domain.SubjectTypeAccount})
}

// GenerateStaffToken signs a token bound to one staff profile and its venue.
func (tm *TokenManager) GenerateStaffToken(accountID string, profile *domain.StaffProfile) (string, time.Time, error) {
	return tm.generate(&Claims{
		SubjectID: accountID,
		Subject:   domain.SubjectTypeStaff,
		ProfileID: profile.ID,
		VenueID:   profile.VenueID,
	})
}

func (tm *TokenManager) generate(claims *Claims) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   claims.SubjectID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	switch claims.Subject {
	case domain.SubjectTypeAccount:
	case domain.SubjectTypeStaff:
		if claims.ProfileID == "" || claims.VenueID == "" {
			return nil, errors.New("staff token missing profile binding")
		}
	default:
		return nil, errors.New("unknown token subject")
	}
	return claims, nil
}
