package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/support-desk/internal/config"
	errorutil "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// AdminGuard enforces HTTP Basic authentication on administrative routes.
// The credential snapshot is injected at construction; request handling never
// consults the environment. Every request is independently re-authorized:
// there is no session state and no token issuance.
type AdminGuard struct {
	cfg config.AdminConfig
}

// NewAdminGuard constructs the guard.
func NewAdminGuard(cfg config.AdminConfig) *AdminGuard {
	return &AdminGuard{cfg: cfg}
}

// Handle admits or rejects the request. Missing credentials in the running
// environment fail closed with 503; a missing or mismatched Basic pair is
// rejected with 401 and a realm challenge.
func (g *AdminGuard) Handle(c *fiber.Ctx) error {
	if !g.cfg.Configured() {
		return errorutil.NewServiceUnavailable("admin credentials not configured")
	}

	user, pass, ok := parseBasicAuth(c.Get(fiber.HeaderAuthorization))
	if !ok || !g.match(user, pass) {
		c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="`+g.cfg.Realm+`"`)
		return errorutil.NewUnauthorized("invalid admin credentials")
	}
	return c.Next()
}

func (g *AdminGuard) match(user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(g.cfg.Username)) == 1

	var passOK bool
	if g.cfg.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(g.cfg.PasswordHash), []byte(pass)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(pass), []byte(g.cfg.Password)) == 1
	}
	return userOK && passOK
}

func parseBasicAuth(header string) (user, pass string, ok bool) {
	const prefix = "Basic "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}
	pair := strings.SplitN(string(decoded), ":", 2)
	if len(pair) != 2 {
		return "", "", false
	}
	return pair[0], pair[1], true
}
