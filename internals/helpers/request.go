package helper

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

// Validate runs the struct tags of a request DTO.
func Validate(v any) error {
	return validate.Struct(v)
}

// ValidateVar checks a single value against a tag list, e.g. "email".
func ValidateVar(v any, tag string) error {
	return validate.Var(v, tag)
}

// ParseUUIDParam reads a path param and rejects anything that is not a UUID.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Params(name))
	if raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" is not a valid UUID")
	}
	return id, nil
}

// LikePattern builds a case-insensitive LIKE operand; use with LOWER(col) LIKE ?.
func LikePattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}
