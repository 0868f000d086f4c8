package details

import (
	appService "internlink_backend/internals/features/applications/applications/service"
	formService "internlink_backend/internals/features/forms/forms/service"
	generatorService "internlink_backend/internals/features/forms/generator/service"
	bankService "internlink_backend/internals/features/forms/question_bank/service"
	respService "internlink_backend/internals/features/forms/responses/service"
	scoringService "internlink_backend/internals/features/interview/scoring/service"
	voiceService "internlink_backend/internals/features/interview/voice/service"
	convService "internlink_backend/internals/features/messaging/conversations/service"
	internshipService "internlink_backend/internals/features/opportunities/internships/service"
	searchService "internlink_backend/internals/features/search/candidates/service"
	authService "internlink_backend/internals/features/users/auth/service"
	companyService "internlink_backend/internals/features/users/companies/service"
	internService "internlink_backend/internals/features/users/interns/service"
)

type Services struct {
	Auth          *authService.Service
	Companies     *companyService.Service
	Interns       *internService.Service
	Internships   *internshipService.Service
	Bank          *bankService.Service
	Forms         *formService.Service
	Responses     *respService.Service
	Applications  *appService.Service
	Generator     *generatorService.Service
	Scoring       *scoringService.Service
	Voice         *voiceService.Service
	Search        *searchService.Service
	Conversations *convService.Service
}

func BuildServices(d Deps) *Services {
	s := &Services{
		Auth:          authService.New(d.DB, d.Cfg),
		Companies:     companyService.New(d.DB, d.Files),
		Interns:       internService.New(d.DB),
		Internships:   internshipService.New(d.DB, d.Elevated),
		Bank:          bankService.New(d.DB),
		Responses:     respService.New(d.DB, d.Files),
		Scoring:       scoringService.New(d.DB, d.AI),
		Voice:         voiceService.New(d.DB, d.AI, d.AI, d.AI),
		Search:        searchService.New(d.DB, d.AI, d.Store),
		Conversations: convService.New(d.DB),
	}
	s.Forms = formService.New(d.DB, s.Bank)
	s.Applications = appService.New(d.DB, s.Forms, s.Responses)
	s.Generator = generatorService.New(d.DB, d.AI, d.Web, s.Forms)
	return s
}
