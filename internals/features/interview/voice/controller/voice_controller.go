package controller

import (
	"io"
	"strconv"
	"strings"

	"internlink_backend/internals/features/interview/voice/dto"
	"internlink_backend/internals/features/interview/voice/service"
	authModel "internlink_backend/internals/features/users/auth/model"
	helper "internlink_backend/internals/helpers"
	helperAuth "internlink_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type VoiceController struct {
	Svc      *service.Service
	Validate *validator.Validate
}

func NewVoiceController(svc *service.Service, v *validator.Validate) *VoiceController {
	return &VoiceController{Svc: svc, Validate: v}
}

// intern yang login → transcript disimpan
func internFromCtx(c *fiber.Ctx) *uuid.UUID {
	id, ok := helperAuth.GetUserIDOptional(c)
	if !ok || helperAuth.GetRole(c) != authModel.RoleIntern {
		return nil
	}
	return &id
}

// POST /api/interview/voice/stt (multipart: audio, question?, duration_seconds?)
func (ctrl *VoiceController) SpeechToText(c *fiber.Ctx) error {
	fh, err := c.FormFile("audio")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "audio file is required")
	}
	if err := service.CheckAudioSize(fh.Size); err != nil {
		return helper.FromError(c, err)
	}

	f, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "cannot read audio file")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, service.MaxAudioBytes+1))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "cannot read audio file")
	}

	in := dto.TranscribeInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
		Question:    c.FormValue("question"),
	}
	if raw := strings.TrimSpace(c.FormValue("duration_seconds")); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil || d < 0 {
			return helper.JsonError(c, fiber.StatusBadRequest, "duration_seconds must be a positive number")
		}
		in.DurationSeconds = d
	}

	out, err := ctrl.Svc.Transcribe(c.Context(), internFromCtx(c), in)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "transcribed", out)
}

// POST /api/interview/voice/tts → audio/mpeg
func (ctrl *VoiceController) TextToSpeech(c *fiber.Ctx) error {
	var req dto.SpeakRequest
	if err := helper.ParseAndValidate(c, ctrl.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	audio, err := ctrl.Svc.Speak(c.Context(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	c.Set(fiber.HeaderContentType, "audio/mpeg")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Status(fiber.StatusOK).Send(audio)
}

// POST /api/interview/feedback
func (ctrl *VoiceController) Feedback(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := helper.ParseAndValidate(c, ctrl.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	out, err := ctrl.Svc.Feedback(c.Context(), internFromCtx(c), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}
