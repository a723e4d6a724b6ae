package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/chat-portal/pkg/util"
	"github.com/spec-kit/chat-portal/pkg/validator"
)

// bind parses the request body into dst and validates it.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return validate(dst)
}

func validate(dst any) error {
	if err := validator.Validate(dst); err != nil {
		var vErr *validator.ValidationError
		if errors.As(err, &vErr) {
			return apperrors.NewValidationError(vErr.Error(), vErr.Details())
		}
		return apperrors.NewValidationError(err.Error(), nil)
	}
	return nil
}

// plainError answers client errors as a plain-text body, the format the token
// endpoints use. Server errors go to the error middleware.
func plainError(c *fiber.Ctx, err error) error {
	domainErr := apperrors.ToDomainError(err)
	if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
		return err
	}
	return c.Status(domainErr.HTTPStatus).SendString(domainErr.Message)
}
