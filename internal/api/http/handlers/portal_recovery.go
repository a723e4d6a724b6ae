package handlers

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-portal/internal/api/dto"
	"github.com/spec-kit/chat-portal/internal/guard"
)

// Recovery wizard pages. Each later step is reachable only after the one
// before it; the progress lives in browser-session cookies.
const (
	CheckEmailPath  = "/checkEmail"
	ConfirmCodePath = "/confirmCode"
	NewPasswordPath = "/newPassword"

	recoveryEmailCookie = "recoveryEmail"
	recoveryStepCookie  = "recoveryStep"

	stepConfirmCode = "code"
	stepNewPassword = "reset"
)

// recoveryState reads and writes the wizard cookies of one request.
type recoveryState struct {
	c *fiber.Ctx
	h *PortalHandler
}

func (h *PortalHandler) recovery(c *fiber.Ctx) recoveryState {
	return recoveryState{c: c, h: h}
}

func (r recoveryState) email() string {
	val, err := url.QueryUnescape(r.c.Cookies(recoveryEmailCookie))
	if err != nil {
		return ""
	}
	return val
}

func (r recoveryState) step() string {
	return r.c.Cookies(recoveryStepCookie)
}

// reached reports whether the wizard got at least to step.
func (r recoveryState) reached(step string) bool {
	switch step {
	case stepConfirmCode:
		return r.email() != "" && (r.step() == stepConfirmCode || r.step() == stepNewPassword)
	case stepNewPassword:
		return r.email() != "" && r.step() == stepNewPassword
	}
	return false
}

func (r recoveryState) advance(email, step string) {
	r.set(recoveryEmailCookie, url.QueryEscape(email))
	r.set(recoveryStepCookie, step)
}

func (r recoveryState) reset() {
	for _, name := range []string{recoveryEmailCookie, recoveryStepCookie} {
		r.c.Cookie(&fiber.Cookie{
			Name:     name,
			Path:     "/",
			Domain:   r.h.cookies.Domain,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			Secure:   r.h.cookies.Secure,
			HTTPOnly: true,
		})
	}
}

func (r recoveryState) set(name, value string) {
	r.c.Cookie(&fiber.Cookie{
		Name:        name,
		Value:       value,
		Path:        "/",
		Domain:      r.h.cookies.Domain,
		Secure:      r.h.cookies.Secure,
		HTTPOnly:    true,
		SessionOnly: true,
		SameSite:    fiber.CookieSameSiteLaxMode,
	})
}

// CheckEmailView handles GET /checkEmail.
func (h *PortalHandler) CheckEmailView(c *fiber.Ctx) error {
	return c.JSON(h.view(c, "checkEmail", "Recover password"))
}

// CheckEmail handles POST /checkEmail.
func (h *PortalHandler) CheckEmail(c *fiber.Ctx) error {
	var form dto.RecoveryEmailForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	payload, err := h.gateway.SendRecoveryCode(c.UserContext(), form.Email)
	if err != nil {
		return portalError(err)
	}

	h.recovery(c).advance(form.Email, stepConfirmCode)
	return c.JSON(dto.ActionResult{Message: payload.Message, Redirect: ConfirmCodePath})
}

// ConfirmCodeView handles GET /confirmCode.
func (h *PortalHandler) ConfirmCodeView(c *fiber.Ctx) error {
	state := h.recovery(c)
	if !state.reached(stepConfirmCode) {
		return c.Redirect(CheckEmailPath, fiber.StatusFound)
	}
	v := h.view(c, "confirmCode", "Enter recovery code")
	v.Data = fiber.Map{"email": state.email()}
	return c.JSON(v)
}

// ConfirmCode handles POST /confirmCode.
func (h *PortalHandler) ConfirmCode(c *fiber.Ctx) error {
	state := h.recovery(c)
	if !state.reached(stepConfirmCode) {
		return c.Redirect(CheckEmailPath, fiber.StatusFound)
	}
	var form dto.RecoveryCodeForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	payload, err := h.gateway.VerifyRecoveryCode(c.UserContext(), state.email(), form.Code)
	if err != nil {
		return portalError(err)
	}

	state.advance(state.email(), stepNewPassword)
	return c.JSON(dto.ActionResult{Message: payload.Message, Redirect: NewPasswordPath})
}

// NewPasswordView handles GET /newPassword.
func (h *PortalHandler) NewPasswordView(c *fiber.Ctx) error {
	if !h.recovery(c).reached(stepNewPassword) {
		return c.Redirect(ConfirmCodePath, fiber.StatusFound)
	}
	return c.JSON(h.view(c, "newPassword", "Choose a new password"))
}

// NewPassword handles POST /newPassword.
func (h *PortalHandler) NewPassword(c *fiber.Ctx) error {
	state := h.recovery(c)
	if !state.reached(stepNewPassword) {
		return c.Redirect(ConfirmCodePath, fiber.StatusFound)
	}
	var form dto.NewPasswordForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	payload, err := h.gateway.ResetPassword(c.UserContext(), state.email(), form.NewPassword)
	if err != nil {
		return portalError(err)
	}

	state.reset()
	return c.JSON(dto.ActionResult{Message: payload.Message, Redirect: guard.LoginPath})
}
