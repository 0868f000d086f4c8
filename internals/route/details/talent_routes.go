package details

import (
	scoringRoute "internlink_backend/internals/features/interview/scoring/route"
	voiceRoute "internlink_backend/internals/features/interview/voice/route"
	conversationRoute "internlink_backend/internals/features/messaging/conversations/route"
	searchRoute "internlink_backend/internals/features/search/candidates/route"
	authMw "internlink_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
)

// InterviewPublicRoutes: latihan interview boleh tanpa login.
func InterviewPublicRoutes(public fiber.Router, d Deps, s *Services) {
	voiceRoute.VoiceRoutes(public, s.Voice, d.Validate, authMw.OptionalAuthMiddleware(d.Cfg, d.DB))
}

func TalentUserRoutes(protected fiber.Router, d Deps, s *Services) {
	scoringRoute.ScoringRoutes(protected, s.Scoring)
	searchRoute.SearchRoutes(protected, s.Search, d.Validate)
	conversationRoute.ConversationRoutes(protected, s.Conversations, d.Validate)
}
