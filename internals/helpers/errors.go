package helper

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// FromFiberError renders err through the JSON envelope; anything that is not
// a *fiber.Error becomes a 500 with the original message.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, err.Error())
}

// ErrorHandler is installed as fiber.Config.ErrorHandler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
	}
	return FromFiberError(c, err)
}

// MapDBError turns row store failures into HTTP errors.
// 23505 unique → 409, 23503 foreign key → 400, other constraint codes → 400.
func MapDBError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, what+" not found")
	}

	code := ""
	var pgErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgErr):
		code = pgErr.Code
	case errors.As(err, &pqErr):
		code = string(pqErr.Code)
	}

	switch code {
	case "23505":
		return fiber.NewError(fiber.StatusConflict, what+" already exists")
	case "23503":
		return fiber.NewError(fiber.StatusBadRequest, what+" references a missing record")
	case "23502", "23514", "22P02":
		return fiber.NewError(fiber.StatusBadRequest, "invalid "+what+" data")
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") {
		return fiber.NewError(fiber.StatusConflict, what+" already exists")
	}
	if strings.Contains(msg, "foreign key") {
		return fiber.NewError(fiber.StatusBadRequest, what+" references a missing record")
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

// ValidationErrorMap flattens validator output into field → rules.
func ValidationErrorMap(err error) map[string][]string {
	out := map[string][]string{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = append(out[fe.Field()], fe.Tag())
	}
	return out
}
