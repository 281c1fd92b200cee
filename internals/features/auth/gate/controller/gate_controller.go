package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"admon_backend/internals/configs"
	"admon_backend/internals/features/auth/gate/dto"
	"admon_backend/internals/features/auth/gate/service"
	helper "admon_backend/internals/helpers"
)

type GateController struct {
	Gate *service.Gate
}

func NewGateController(g *service.Gate) *GateController {
	return &GateController{Gate: g}
}

/* ===================== LOGIN ===================== */
// POST /api/auth/login
func (h *GateController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	sess, ok, err := h.Gate.CheckPassphrase(c.UserContext(), req.Clave, service.Meta{
		UserAgent: c.Get(fiber.HeaderUserAgent),
		IP:        c.IP(),
	})
	switch {
	case errors.Is(err, service.ErrNoPassphrase):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case err != nil:
		log.Printf("[AUTH] login: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not check passphrase")
	case !ok:
		return fiber.NewError(fiber.StatusUnauthorized, "invalid passphrase")
	}

	setSessionCookie(c, sess.Token, *sess.ExpiresAt)
	return helper.JsonOK(c, "logged in", dto.LoginResponse{
		Token:         sess.Token,
		Authenticated: true,
		ExpiresAt:     sess.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

/* ===================== LOGOUT ===================== */
// POST /api/auth/logout
func (h *GateController) Logout(c *fiber.Ctx) error {
	if raw := helper.GetRawAccessToken(c); raw != "" {
		if sess, err := h.Gate.Verify(c.UserContext(), raw); err == nil {
			if err := h.Gate.Logout(c.UserContext(), sess.ID); err != nil {
				log.Printf("[AUTH] logout %s: %v", sess.ID, err)
				return fiber.NewError(fiber.StatusInternalServerError, "could not end session")
			}
		}
	}
	clearSessionCookie(c)
	return helper.JsonOK(c, "logged out", service.Session{})
}

/* ===================== SESSION ===================== */
// GET /api/auth/session
func (h *GateController) Session(c *fiber.Ctx) error {
	raw := helper.GetRawAccessToken(c)
	if raw == "" {
		return helper.JsonOK(c, "ok", service.Session{})
	}
	sess, err := h.Gate.Verify(c.UserContext(), raw)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidToken) && !errors.Is(err, service.ErrSessionInactive) {
			log.Printf("[AUTH] session check: %v", err)
		}
		return helper.JsonOK(c, "ok", service.Session{})
	}
	return helper.JsonOK(c, "ok", sess)
}

/* ===================== CHANGE PASSPHRASE ===================== */
// PUT /api/auth/clave
func (h *GateController) ChangePassphrase(c *fiber.Ctx) error {
	var req dto.ChangePassphraseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	keep, _ := c.Locals(helper.LocSessionID).(uuid.UUID)

	revoked, err := h.Gate.ChangePassphrase(c.UserContext(), req.Current, req.Next, keep)
	switch {
	case errors.Is(err, service.ErrInvalidPassphrase):
		return fiber.NewError(fiber.StatusUnauthorized, "current passphrase is incorrect")
	case errors.Is(err, service.ErrNoPassphrase):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case err != nil:
		log.Printf("[AUTH] change passphrase: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not change passphrase")
	}
	return helper.JsonUpdated(c, "passphrase changed", fiber.Map{"sesiones_revocadas": revoked})
}

func setSessionCookie(c *fiber.Ctx, token string, exp time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     helper.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HTTPOnly: true,
		Secure:   configs.GetEnvBool("COOKIE_SECURE", true),
		SameSite: "Lax",
	})
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     helper.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   configs.GetEnvBool("COOKIE_SECURE", true),
		SameSite: "Lax",
	})
}
