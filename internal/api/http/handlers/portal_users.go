package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-portal/internal/api/dto"
	"github.com/spec-kit/chat-portal/internal/credentials"
	"github.com/spec-kit/chat-portal/internal/domain"
	"github.com/spec-kit/chat-portal/internal/gateway"
	apperrors "github.com/spec-kit/chat-portal/pkg/util"
)

// usersView lists the directory. A 401/403 from the backend renders an empty
// list with the backend message instead of failing the page.
func (h *PortalHandler) usersView(s Screen) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := domain.UserFilter(c.Query("filter", string(domain.UserFilterAll)))
		if !filter.Valid() {
			return apperrors.NewValidationError("invalid user filter", map[string]any{"filter": filter})
		}

		res, err := h.gateway.ListUsers(c.UserContext(), credentials.FromContext(c), filter)
		if err != nil {
			return portalError(err)
		}

		v := h.view(c, s.Name, s.Title)
		v.Message = res.Message
		v.Data = fiber.Map{
			"filter":   filter,
			"users":    res.Value,
			"degraded": res.Degraded,
		}
		return c.JSON(v)
	}
}

// CreateUser handles POST /users.
func (h *PortalHandler) CreateUser(c *fiber.Ctx) error {
	var form dto.AdminUserForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	message, err := h.gateway.CreateUser(c.UserContext(), credentials.FromContext(c), gateway.CreateUserRequest{
		FullName:       form.FullName,
		FirstLastName:  form.FirstLastName,
		SecondLastName: form.SecondLastName,
		Phone:          form.Phone,
		Email:          form.Email,
		Password:       form.Password,
		Role:           form.Role,
	})
	if err != nil {
		return portalError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ActionResult{Message: message})
}

// ToggleStatus handles PUT /users/:id/status.
func (h *PortalHandler) ToggleStatus(c *fiber.Ctx) error {
	payload, err := h.gateway.ChangeStatus(c.UserContext(), credentials.FromContext(c), c.Params("id"))
	if err != nil {
		return portalError(err)
	}
	return c.JSON(dto.ActionResult{Message: payload.Message, Data: payload.Result})
}

// ToggleRole handles PUT /users/:id/role.
func (h *PortalHandler) ToggleRole(c *fiber.Ctx) error {
	payload, err := h.gateway.ChangeRole(c.UserContext(), credentials.FromContext(c), c.Params("id"))
	if err != nil {
		return portalError(err)
	}
	return c.JSON(dto.ActionResult{Message: payload.Message, Data: payload.Result})
}

// UpdateUser handles PUT /users/:id.
func (h *PortalHandler) UpdateUser(c *fiber.Ctx) error {
	var req gateway.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.ID = c.Params("id")

	payload, err := h.gateway.UpdateUser(c.UserContext(), credentials.FromContext(c), req)
	if err != nil {
		return portalError(err)
	}
	return c.JSON(dto.ActionResult{Message: payload.Message, Data: payload.Result})
}
