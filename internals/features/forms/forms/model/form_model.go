package model

import (
	"time"

	bankModel "internlink_backend/internals/features/forms/question_bank/model"
	internshipModel "internlink_backend/internals/features/opportunities/internships/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeShortText      = "short_text"
	TypeLongText       = "long_text"
	TypeMultipleChoice = "multiple_choice"
	TypeCheckboxes     = "checkboxes"
	TypeDropdown       = "dropdown"
	TypeFileUpload     = "file_upload"
	TypeVideoUpload    = "video_upload"
)

// MinChoiceOptions: pertanyaan pilihan wajib punya minimal 2 opsi.
const MinChoiceOptions = 2

func ValidQuestionType(t string) bool {
	switch t {
	case TypeShortText, TypeLongText, TypeMultipleChoice, TypeCheckboxes,
		TypeDropdown, TypeFileUpload, TypeVideoUpload:
		return true
	}
	return false
}

func IsChoiceType(t string) bool {
	return t == TypeMultipleChoice || t == TypeCheckboxes || t == TypeDropdown
}

func IsUploadType(t string) bool {
	return t == TypeFileUpload || t == TypeVideoUpload
}

/* =========================================================
   forms (1:1 dengan internships)
========================================================= */

type FormModel struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	InternshipID uuid.UUID `gorm:"column:internship_id;type:uuid;not null;uniqueIndex" json:"internship_id"`
	Title        string    `gorm:"column:title;size:200;not null" json:"title"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Internship *internshipModel.InternshipModel `gorm:"foreignKey:InternshipID;constraint:OnDelete:CASCADE" json:"-"`
}

func (FormModel) TableName() string { return "forms" }

func (m *FormModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

/* =========================================================
   form_sections
========================================================= */

type FormSectionModel struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FormID      uuid.UUID `gorm:"column:form_id;type:uuid;not null;index" json:"form_id"`
	Title       string    `gorm:"column:title;size:200;not null" json:"title"`
	Description string    `gorm:"column:description;not null;default:''" json:"description"`
	OrderIndex  int       `gorm:"column:order_index;not null;default:0" json:"order_index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Form *FormModel `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"-"`
}

func (FormSectionModel) TableName() string { return "form_sections" }

func (m *FormSectionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

/* =========================================================
   form_questions
========================================================= */

type FormQuestionModel struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SectionID      uuid.UUID  `gorm:"column:section_id;type:uuid;not null;index" json:"section_id"`
	QuestionBankID *uuid.UUID `gorm:"column:question_bank_id;type:uuid;index" json:"question_bank_id,omitempty"`
	Type           string     `gorm:"column:type;size:30;not null" json:"type"`
	QuestionText   string     `gorm:"column:question_text;not null" json:"question_text"`
	Required       bool       `gorm:"column:required;not null;default:false" json:"required"`
	OrderIndex     int        `gorm:"column:order_index;not null;default:0" json:"order_index"`
	Description    string     `gorm:"column:description;not null;default:''" json:"description"`
	Hint           string     `gorm:"column:hint;not null;default:''" json:"hint"`
	Placeholder    string     `gorm:"column:placeholder;not null;default:''" json:"placeholder"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Section      *FormSectionModel            `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"-"`
	QuestionBank *bankModel.QuestionBankModel `gorm:"foreignKey:QuestionBankID;constraint:OnDelete:SET NULL" json:"-"`
}

func (FormQuestionModel) TableName() string { return "form_questions" }

func (m *FormQuestionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

/* =========================================================
   form_question_options (pengganti kolom choice_1..15 / dropdown_1..50)
========================================================= */

type FormQuestionOptionModel struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	QuestionID  uuid.UUID `gorm:"column:question_id;type:uuid;not null;uniqueIndex:uq_question_option_index,priority:1" json:"question_id"`
	OptionIndex int       `gorm:"column:option_index;not null;uniqueIndex:uq_question_option_index,priority:2" json:"option_index"`
	Label       string    `gorm:"column:label;not null" json:"label"`

	Question *FormQuestionModel `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (FormQuestionOptionModel) TableName() string { return "form_question_options" }

func (m *FormQuestionOptionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
