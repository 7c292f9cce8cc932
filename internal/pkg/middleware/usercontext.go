package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/leaguehq/LeagueHQ/app/models"
	"github.com/leaguehq/LeagueHQ/internal/pkg/database"
	"github.com/leaguehq/LeagueHQ/internal/pkg/session"
	"github.com/leaguehq/LeagueHQ/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request.
// This centralizes session handling: controllers read locals instead of
// touching the session store directly. TenantID resolution loads the user row
// so assistant managers act on behalf of their parent league manager.
func UserContextMiddleware(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		setAnonymousContext(c)
		return c.Next()
	}

	rawUserID := sess.Get(usercontext.KeyUserID)
	userID, ok := rawUserID.(uint)
	if !ok || userID == 0 {
		setAnonymousContext(c)
		return c.Next()
	}

	username := session.GetSessionValue(c, usercontext.KeyUsername)
	role := session.GetSessionValue(c, "user_role")
	tenantID := userID

	if role == "" || role == models.ROLE_ASSISTANT_MANAGER {
		if db := database.GetDB(); db != nil {
			var user models.User
			if err := db.First(&user, userID).Error; err == nil {
				role = user.Role
				tenantID = user.TenantID()
				_ = session.SetSessionValue(c, "user_role", role)
			} else if errors.Is(err, gorm.ErrRecordNotFound) {
				// Session survived a deleted account.
				setAnonymousContext(c)
				return c.Next()
			}
		}
	}

	userCtx := usercontext.UserContext{
		UserID:     userID,
		TenantID:   tenantID,
		Username:   username,
		Role:       role,
		IsLoggedIn: true,
		IsAdmin:    role == models.ROLE_ADMIN,
	}
	c.Locals("USER_CONTEXT", userCtx)

	c.Locals(usercontext.KeyFromProtected, true)
	c.Locals(usercontext.KeyUserID, userID)
	c.Locals(usercontext.KeyTenantID, tenantID)
	c.Locals(usercontext.KeyUsername, username)
	c.Locals(usercontext.KeyIsAdmin, userCtx.IsAdmin)

	return c.Next()
}

func setAnonymousContext(c *fiber.Ctx) {
	c.Locals("USER_CONTEXT", usercontext.UserContext{
		IsLoggedIn: false,
		IsAdmin:    false,
	})
	c.Locals(usercontext.KeyFromProtected, false)
	c.Locals(usercontext.KeyIsAdmin, false)
}
