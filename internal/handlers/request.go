package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// newValidator returns a validator that reports JSON field names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// bcrypt rejects passwords over 72 bytes, and max counts runes.
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
	return v
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// errorResponse writes the {"error": message} payload with status.
func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// decodeJSON checks the content type, parses the body into dst and validates
// it. On failure it writes the 400 response and returns ok=false.
func decodeJSON(c *fiber.Ctx, v *validator.Validate, dst any) (ok bool, err error) {
	if !c.Is("json") {
		return false, errorResponse(c, fiber.StatusBadRequest, "Your content-type must be application/json")
	}
	if err := c.BodyParser(dst); err != nil {
		return false, errorResponse(c, fiber.StatusBadRequest, "request body must be a valid JSON object")
	}
	if err := v.Struct(dst); err != nil {
		return false, errorResponse(c, fiber.StatusBadRequest, validationMessage(err))
	}
	return true, nil
}

// validationMessage lists missing required fields, e.g. "title, description
// must be in the request body", or describes the first invalid fields.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}

	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
			continue
		}
		invalid = append(invalid, fe.Field()+" "+describeFieldError(fe))
	}
	if len(missing) > 0 {
		return strings.Join(missing, ", ") + " must be in the request body"
	}
	return strings.Join(invalid, "; ")
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Param() == "1" {
			return "must not be empty"
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("must be at most %s bytes", fe.Param())
	default:
		return "is invalid"
	}
}

// parseID reads a positive integer route parameter.
func parseID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
