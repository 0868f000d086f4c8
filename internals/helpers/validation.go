package helper

import (
	"errors"
	"reflect"
	"strings"

	"internlink_backend/internals/helpers/fault"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// NewValidator: satu instance per app, dibagikan ke semua controller.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate memetakan validator.ValidationErrors → fault.Validation (400)
// dengan detail per field.
func Validate(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fault.Validation("invalid request")
	}
	fields := make(map[string]string, len(ves))
	missing := make([]string, 0)
	for _, fe := range ves {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "is required"
			missing = append(missing, fe.Field())
		case "email":
			fields[fe.Field()] = "must be a valid email"
		case "min":
			fields[fe.Field()] = "must be at least " + fe.Param()
		case "max":
			fields[fe.Field()] = "must be at most " + fe.Param()
		case "oneof":
			fields[fe.Field()] = "must be one of " + fe.Param()
		default:
			fields[fe.Field()] = "is invalid"
		}
	}
	msg := "validation failed"
	if len(missing) > 0 {
		msg = "missing required fields: " + strings.Join(missing, ", ")
	}
	return fault.Validation(msg).WithDetails(fields)
}

// ParseAndValidate: BodyParser + Validate, dipakai hampir semua handler POST/PUT.
func ParseAndValidate(c *fiber.Ctx, v *validator.Validate, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fault.Validation("invalid request body")
	}
	return Validate(v, dst)
}
