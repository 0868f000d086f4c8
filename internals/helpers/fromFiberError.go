package helper

import (
	"errors"
	"log"

	"internlink_backend/internals/helpers/fault"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FromError mengubah error dari service (biasanya *fault.Fault atau
// *fiber.Error) menjadi response JSON konsisten. Pesan error internal
// tidak pernah dikirim ke client.
func FromError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	if f, ok := fault.As(err); ok {
		status := f.Status()
		switch {
		case f.Kind == fault.KindUnrecoverable:
			log.Printf("[FATAL] %s %s: %v", c.Method(), c.Path(), f)
		case status >= 500:
			log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), f)
		}
		return JsonErrorEx(c, status, f.Message, f.Code, f.Details)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return JsonError(c, fiber.StatusNotFound, "not found")
	}

	log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
	return JsonError(c, fiber.StatusInternalServerError, "internal server error")
}

// ErrorHandler dipasang di fiber.Config supaya error yang lolos dari
// handler/middleware tetap memakai shape yang sama.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromError(c, err)
}
