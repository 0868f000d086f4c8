package database

import (
	"log"

	applicationModel "internlink_backend/internals/features/applications/applications/model"
	formModel "internlink_backend/internals/features/forms/forms/model"
	bankModel "internlink_backend/internals/features/forms/question_bank/model"
	responseModel "internlink_backend/internals/features/forms/responses/model"
	voiceModel "internlink_backend/internals/features/interview/voice/model"
	conversationModel "internlink_backend/internals/features/messaging/conversations/model"
	internshipModel "internlink_backend/internals/features/opportunities/internships/model"
	authModel "internlink_backend/internals/features/users/auth/model"
	companyModel "internlink_backend/internals/features/users/companies/model"
	internModel "internlink_backend/internals/features/users/interns/model"

	"gorm.io/gorm"
)

// AllModels: urutan parent → child.
func AllModels() []any {
	return []any{
		&authModel.UserModel{},
		&authModel.RefreshToken{},
		&authModel.TokenBlacklist{},
		&companyModel.CompanyModel{},
		&internModel.InternProfileModel{},
		&internshipModel.InternshipModel{},
		&bankModel.QuestionBankModel{},
		&formModel.FormModel{},
		&formModel.FormSectionModel{},
		&formModel.FormQuestionModel{},
		&formModel.FormQuestionOptionModel{},
		&responseModel.FormResponseModel{},
		&responseModel.ResponseAnswerModel{},
		&applicationModel.ApplicationModel{},
		&conversationModel.ConversationModel{},
		&conversationModel.MessageModel{},
		&voiceModel.InterviewResponseModel{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return err
	}
	log.Println("[INFO] migration completed")
	return nil
}
