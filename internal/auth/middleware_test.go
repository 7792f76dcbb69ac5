package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/venue-access-service/internal/domain"
	"github.com/spec-kit/venue-access-service/internal/rbac"
)

type middlewareFixture struct {
	tokens   *TokenManager
	revoked  staticRevocations
	accounts *mockAccountRepository
	profiles *mockProfileStore
	app      *fiber.App
	seen     *Principal
}

func newMiddlewareFixture() *middlewareFixture {
	f := &middlewareFixture{
		tokens:   NewTokenManager("secret", 10),
		revoked:  staticRevocations{},
		accounts: new(mockAccountRepository),
		profiles: new(mockProfileStore),
	}
	mw := NewAuthMiddleware(f.tokens, f.revoked, f.accounts, f.profiles, nil)
	f.app = newTestApp()
	f.app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		f.seen = p
		return c.SendStatus(http.StatusOK)
	})
	return f
}

func (f *middlewareFixture) get(t *testing.T, header string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddlewareRejectsMissingOrMalformedHeader(t *testing.T) {
	f := newMiddlewareFixture()
	assert.Equal(t, http.StatusUnauthorized, f.get(t, "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, f.get(t, "Token abc").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, f.get(t, "Bearer not-a-jwt").StatusCode)
}

func TestAuthMiddlewareLoadsAccount(t *testing.T) {
	f := newMiddlewareFixture()
	f.accounts.On("GetByID", mock.Anything, "acc-1").Return(&domain.Account{ID: "acc-1", Email: "a@b.c"}, nil)

	token, _, err := f.tokens.GenerateAccountToken("acc-1")
	require.NoError(t, err)

	resp := f.get(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, f.seen)
	assert.Equal(t, domain.SubjectTypeAccount, f.seen.SubjectType)
	assert.Equal(t, "a@b.c", f.seen.Account.Email)
	assert.NotEmpty(t, f.seen.TokenID)
}

func TestAuthMiddlewareLoadsStaffProfile(t *testing.T) {
	f := newMiddlewareFixture()
	profile := staff(rbac.RoleSecurity, "V1", true)
	f.profiles.On("GetProfile", mock.Anything, "p-1").Return(profile, nil)

	token, _, err := f.tokens.GenerateStaffToken("acc-1", profile)
	require.NoError(t, err)

	resp := f.get(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, f.seen)
	assert.Equal(t, rbac.RoleSecurity, f.seen.Profile.Role)
}

func TestAuthMiddlewareRejectsRebindProfile(t *testing.T) {
	f := newMiddlewareFixture()
	issued := staff(rbac.RoleSecurity, "V1", true)
	token, _, err := f.tokens.GenerateStaffToken("acc-1", issued)
	require.NoError(t, err)

	rebound := staff(rbac.RoleSecurity, "V1", true)
	rebound.PrincipalID = "acc-2"
	f.profiles.On("GetProfile", mock.Anything, "p-1").Return(rebound, nil)

	assert.Equal(t, http.StatusUnauthorized, f.get(t, "Bearer "+token).StatusCode)
}

func TestAuthMiddlewareRejectsMissingProfile(t *testing.T) {
	f := newMiddlewareFixture()
	profile := staff(rbac.RoleSecurity, "V1", true)
	token, _, err := f.tokens.GenerateStaffToken("acc-1", profile)
	require.NoError(t, err)
	f.profiles.On("GetProfile", mock.Anything, "p-1").Return(nil, pgx.ErrNoRows)

	assert.Equal(t, http.StatusUnauthorized, f.get(t, "Bearer "+token).StatusCode)
}

func TestAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	f := newMiddlewareFixture()
	token, _, err := f.tokens.GenerateAccountToken("acc-1")
	require.NoError(t, err)
	claims, err := f.tokens.ParseToken(token)
	require.NoError(t, err)
	f.revoked[claims.ID] = true

	assert.Equal(t, http.StatusUnauthorized, f.get(t, "Bearer "+token).StatusCode)
	f.accounts.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
