package route

import (
	"internlink_backend/internals/features/interview/voice/controller"
	"internlink_backend/internals/features/interview/voice/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// VoiceRoutes: boleh tanpa login; transcript hanya disimpan untuk intern yang login.
func VoiceRoutes(r fiber.Router, svc *service.Service, v *validator.Validate, mw ...fiber.Handler) {
	ctrl := controller.NewVoiceController(svc, v)
	with := func(h fiber.Handler) []fiber.Handler { return append(append([]fiber.Handler{}, mw...), h) }

	g := r.Group("/interview")
	g.Post("/voice/stt", with(ctrl.SpeechToText)...)
	g.Post("/voice/tts", with(ctrl.TextToSpeech)...)
	g.Post("/feedback", with(ctrl.Feedback)...)
}
