package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorutil "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

func orgScopedApp(secret string) (*fiber.App, *OrgContext) {
	captured := &OrgContext{}
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := errorutil.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{
				"error": fiber.Map{"code": domainErr.Code, "message": domainErr.Message},
			})
		},
	})
	middleware := NewOrgMiddleware(NewTokenManager(secret))
	app.Get("/orgs/:orgID/tickets", middleware.Handle, func(c *fiber.Ctx) error {
		orgCtx, ok := OrgFromContext(c)
		if !ok {
			return errorutil.NewInternalError(nil)
		}
		*captured = *orgCtx
		return c.SendStatus(fiber.StatusOK)
	})
	return app, captured
}

func TestOrgMiddlewareAdmitsMatchingOrg(t *testing.T) {
	app, captured := orgScopedApp("test-secret")
	tokens := NewTokenManager("test-secret")
	orgID := uuid.NewString()
	profileID := uuid.NewString()

	token, err := tokens.GenerateToken(profileID, orgID, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/orgs/"+orgID+"/tickets", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, orgID, captured.OrgID)
	assert.Equal(t, profileID, captured.ProfileID)
}

func TestOrgMiddlewareRejectsCrossTenantToken(t *testing.T) {
	app, _ := orgScopedApp("test-secret")
	tokens := NewTokenManager("test-secret")

	token, err := tokens.GenerateToken(uuid.NewString(), uuid.NewString(), time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/orgs/"+uuid.NewString()+"/tickets", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOrgMiddlewareRejectsMalformedHeaders(t *testing.T) {
	app, _ := orgScopedApp("test-secret")
	orgID := uuid.NewString()

	cases := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/orgs/"+orgID+"/tickets", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestOrgMiddlewareRejectsWrongSecret(t *testing.T) {
	app, _ := orgScopedApp("test-secret")
	orgID := uuid.NewString()

	token, err := NewTokenManager("other-secret").GenerateToken(uuid.NewString(), orgID, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/orgs/"+orgID+"/tickets", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTokenManagerRejectsExpiredAndOrglessTokens(t *testing.T) {
	tokens := NewTokenManager("test-secret")

	expired, err := tokens.GenerateToken(uuid.NewString(), uuid.NewString(), -time.Minute)
	require.NoError(t, err)
	_, err = tokens.ParseToken(expired)
	assert.Error(t, err)

	orgless, err := tokens.GenerateToken(uuid.NewString(), "", time.Minute)
	require.NoError(t, err)
	_, err = tokens.ParseToken(orgless)
	assert.Error(t, err)
}
