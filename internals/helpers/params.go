package helper

import (
	"strings"

	"internlink_backend/internals/helpers/fault"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ParseUUIDParam: path param → uuid, gagal → 400 "invalid <label>".
func ParseUUIDParam(c *fiber.Ctx, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fault.Validation("invalid " + label)
	}
	return id, nil
}
