package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	errorutil "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

const orgContextKey = "org_context"

// OrgContext identifies the tenant and acting profile behind a request.
type OrgContext struct {
	OrgID     string
	ProfileID string
}

// OrgMiddleware validates bearer tokens and binds the tenant scope.
type OrgMiddleware struct {
	tokens *TokenManager
}

// NewOrgMiddleware constructs middleware.
func NewOrgMiddleware(tokens *TokenManager) *OrgMiddleware {
	return &OrgMiddleware{tokens: tokens}
}

// Handle enforces that the token's org claim matches the org in the path.
// A cross-tenant request is rejected here; nothing below this point can see
// another organization's rows.
func (m *OrgMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return errorutil.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return errorutil.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return errorutil.NewUnauthorized("invalid token")
	}

	orgID := c.Params("orgID")
	if orgID == "" || claims.OrgID != orgID {
		return errorutil.NewUnauthorized("token not valid for organization")
	}

	c.Locals(orgContextKey, &OrgContext{OrgID: claims.OrgID, ProfileID: claims.Subject})
	return c.Next()
}

// OrgFromContext retrieves the authenticated tenant scope.
func OrgFromContext(c *fiber.Ctx) (*OrgContext, bool) {
	val := c.Locals(orgContextKey)
	if val == nil {
		return nil, false
	}
	orgCtx, ok := val.(*OrgContext)
	return orgCtx, ok
}
