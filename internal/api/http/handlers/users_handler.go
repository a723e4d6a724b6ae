package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-portal/internal/api/dto"
	"github.com/spec-kit/chat-portal/internal/auth"
	"github.com/spec-kit/chat-portal/internal/domain"
	"github.com/spec-kit/chat-portal/internal/service"
	apperrors "github.com/spec-kit/chat-portal/pkg/util"
)

// UsersHandler exposes account and directory endpoints.
type UsersHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, userService *service.UserService) *UsersHandler {
	return &UsersHandler{auth: authService, users: userService}
}

// Save handles POST /users/save. Anonymous callers self-register and get a
// plain-text token; administrators create accounts and get a JSON message.
func (h *UsersHandler) Save(c *fiber.Ctx) error {
	var req dto.SaveUserRequest
	principal, authenticated := auth.PrincipalFromContext(c)

	if !authenticated {
		if err := bind(c, &req); err != nil {
			return plainError(c, err)
		}
		_, token, err := h.auth.Register(c.UserContext(), saveInput(req, domain.RoleExterno))
		if err != nil {
			return plainError(c, err)
		}
		return c.Status(fiber.StatusOK).SendString(token)
	}

	if principal.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("only administrators can create users")
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.Create(c.UserContext(), saveInput(req, req.Role))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Envelope{Result: user, Message: "user created"})
}

func saveInput(req dto.SaveUserRequest, role domain.Role) service.RegisterInput {
	return service.RegisterInput{
		FullName:       req.FullName,
		FirstLastName:  req.FirstLastName,
		SecondLastName: req.SecondLastName,
		Phone:          req.Phone,
		Email:          req.Email,
		Password:       req.Password,
		Role:           role,
	}
}

// List returns a handler for GET /users/{all,active,inactive}.
func (h *UsersHandler) List(filter domain.UserFilter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := h.users.List(c.UserContext(), filter)
		if err != nil {
			return err
		}
		return c.JSON(dto.Envelope{Result: users})
	}
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.Envelope{Result: user})
}

// ChangeStatus handles PUT /users/change-status/:id.
func (h *UsersHandler) ChangeStatus(c *fiber.Ctx) error {
	user, err := h.users.ToggleStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.Envelope{Result: user, Message: "status updated"})
}

// ChangeRole handles PUT /users/change-rol/:id.
func (h *UsersHandler) ChangeRole(c *fiber.Ctx) error {
	user, err := h.users.ToggleRole(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.Envelope{Result: user, Message: "role updated"})
}

// Update handles POST /users/update. Non-administrators may only edit
// themselves and keep their role.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if principal.Role != domain.RoleAdmin {
		if principal.UserID != req.ID {
			return apperrors.NewForbidden("cannot edit another user")
		}
		req.Role = principal.Role
	}

	user, err := h.users.Update(c.UserContext(), service.UpdateUserInput{
		ID:             req.ID,
		FullName:       req.FullName,
		FirstLastName:  req.FirstLastName,
		SecondLastName: req.SecondLastName,
		Phone:          req.Phone,
		Email:          req.Email,
		Role:           req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.Envelope{Result: user, Message: "user updated"})
}

// ChangePassword handles POST /users/change-password-user. Success answers
// "result": null; a wrong current password answers "result": false.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if principal.UserID != req.UserID {
		return apperrors.NewForbidden("cannot change another user's password")
	}

	changed, err := h.auth.ChangePassword(c.UserContext(), req.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}
	if !changed {
		return c.JSON(dto.Envelope{Result: false, Message: "current password is incorrect"})
	}
	return c.JSON(dto.Envelope{Result: nil, Message: "password updated"})
}
