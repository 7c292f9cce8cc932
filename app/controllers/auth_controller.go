package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/leaguehq/LeagueHQ/app/models"
	"github.com/leaguehq/LeagueHQ/app/repository"
	"github.com/leaguehq/LeagueHQ/internal/pkg/database"
	"github.com/leaguehq/LeagueHQ/internal/pkg/mail"
	"github.com/leaguehq/LeagueHQ/internal/pkg/session"
	"github.com/leaguehq/LeagueHQ/internal/pkg/usercontext"
)

type registerRequest struct {
	Name          string `json:"name" validate:"required,min=3,max=150"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=6"`
	ContactNumber string `json:"contact_number" validate:"max=50"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type assistantRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleAuthRegister creates a league manager account. The new account is its
// own tenant; the subscription arrives later via checkout.
func HandleAuthRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return jsonError(c, fe.Code, "bad_request", fe.Message)
		}
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if _, err := repo.GetByEmail(req.Email); err == nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "registration failed")
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password, models.ROLE_LEAGUE_MANAGER)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	user.ContactNumber = req.ContactNumber

	if err := repo.Create(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "registration failed")
	}

	go func() {
		if err := mail.SendWelcomeMail(user.Email, user.Name); err != nil {
			log.Printf("welcome mail to %s failed: %v", user.Email, err)
		}
	}()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

// HandleAuthLogin verifies credentials and establishes the session.
func HandleAuthLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return jsonError(c, fe.Code, "bad_request", fe.Message)
		}
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request")
	}

	// Deliberately the same message for unknown email and wrong password.
	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(req.Email)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "invalid credentials")
	}
	if !user.CheckPassword(req.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "invalid credentials")
	}
	if !user.IsActive() {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "account disabled")
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "session failure")
	}
	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUsername, user.Name)
	sess.Set("user_role", user.Role)
	if err := sess.Save(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "session failure")
	}

	database.GetDB().Model(user).Update("last_login_at", time.Now())

	return c.JSON(fiber.Map{
		"id":        user.ID,
		"name":      user.Name,
		"role":      user.Role,
		"tenant_id": user.TenantID(),
	})
}

// HandleAuthLogout destroys the session.
func HandleAuthLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		_ = sess.Destroy()
	}
	c.Locals(usercontext.KeyFromProtected, false)
	return c.JSON(fiber.Map{"ok": true})
}

// HandleAuthMe returns the authenticated account.
func HandleAuthMe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "user not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "failed to load user")
	}

	return c.JSON(fiber.Map{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"role":          user.Role,
		"tenant_id":     user.TenantID(),
		"has_api_key":   user.HasActiveAPIKey(),
		"created_at":    user.CreatedAt.UTC().Format(time.RFC3339),
		"last_login_at": formatTimePtr(user.LastLoginAt),
	})
}

// HandleCreateAssistant lets a league manager add an assistant manager under
// their tenant.
func HandleCreateAssistant(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if userCtx.Role != models.ROLE_LEAGUE_MANAGER {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "only league managers can add assistants")
	}

	var req assistantRequest
	if err := parseBody(c, &req); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return jsonError(c, fe.Code, "bad_request", fe.Message)
		}
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if _, err := repo.GetByEmail(req.Email); err == nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "assistant creation failed")
	}

	assistant, err := models.CreateUser(req.Name, req.Email, req.Password, models.ROLE_ASSISTANT_MANAGER)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	parentID := userCtx.UserID
	assistant.ParentLeagueManagerID = &parentID

	if err := repo.Create(assistant); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "assistant creation failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":        assistant.ID,
		"name":      assistant.Name,
		"email":     assistant.Email,
		"role":      assistant.Role,
		"tenant_id": assistant.TenantID(),
	})
}

// HandleListAssistants lists the assistant managers of the current tenant.
func HandleListAssistants(c *fiber.Ctx) error {
	tenantID := usercontext.GetTenantID(c)
	repo := repository.GetGlobalFactory().GetUserRepository()

	assistants, err := repo.ListAssistants(tenantID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "failed to load assistants")
	}

	out := make([]fiber.Map, 0, len(assistants))
	for _, a := range assistants {
		out = append(out, fiber.Map{
			"id":     a.ID,
			"name":   a.Name,
			"email":  a.Email,
			"status": a.Status,
		})
	}
	return c.JSON(fiber.Map{"assistants": out})
}

// HandleIssueAPIKey generates a fresh API key for the account. The raw key is
// only visible in this response.
func HandleIssueAPIKey(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetUserRepository()

	user, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "failed to load user")
	}

	rawKey, err := user.IssueAPIKey()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "key generation failed")
	}
	if err := repo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "key persistence failed")
	}

	return c.JSON(fiber.Map{
		"api_key":    rawKey,
		"prefix":     user.APIKeyPrefix,
		"created_at": formatTimePtr(user.APIKeyCreatedAt),
	})
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
