package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"internlink_backend/internals/features/forms/forms/dto"
	"internlink_backend/internals/features/forms/forms/model"
	bankService "internlink_backend/internals/features/forms/question_bank/service"
	responseModel "internlink_backend/internals/features/forms/responses/model"
	internshipModel "internlink_backend/internals/features/opportunities/internships/model"
	"internlink_backend/internals/helpers/fault"
	"internlink_backend/internals/helpers/pgerr"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	DB   *gorm.DB
	Bank *bankService.Service
}

func New(db *gorm.DB, bank *bankService.Service) *Service {
	return &Service{DB: db, Bank: bank}
}

/* =========================================================
   READ
========================================================= */

// GetForm: sections urut order_index (tie → created_at), questions urut
// order_index, opsi urut option_index. Index boleh bolong/negatif.
func (s *Service) GetForm(ctx context.Context, formID uuid.UUID) (*dto.FormTree, error) {
	return s.loadTree(ctx, s.DB, formID)
}

func (s *Service) GetFormByInternship(ctx context.Context, internshipID uuid.UUID) (*dto.FormTree, error) {
	var f model.FormModel
	err := s.DB.WithContext(ctx).Where("internship_id = ?", internshipID).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.NotFound("form not found")
	}
	if err != nil {
		return nil, pgerr.Map(err, "form")
	}
	return s.loadTree(ctx, s.DB, f.ID)
}

func (s *Service) loadTree(ctx context.Context, db *gorm.DB, formID uuid.UUID) (*dto.FormTree, error) {
	db = db.WithContext(ctx)

	var f model.FormModel
	if err := db.First(&f, "id = ?", formID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.NotFound("form not found")
		}
		return nil, pgerr.Map(err, "form")
	}

	var sections []model.FormSectionModel
	if err := db.Where("form_id = ?", formID).
		Order("order_index ASC").Order("created_at ASC").Order("id ASC").
		Find(&sections).Error; err != nil {
		return nil, pgerr.Map(err, "form sections")
	}

	tree := &dto.FormTree{
		ID:           f.ID,
		InternshipID: f.InternshipID,
		Title:        f.Title,
		CreatedAt:    f.CreatedAt,
		Sections:     make([]dto.SectionView, 0, len(sections)),
	}
	if len(sections) == 0 {
		return tree, nil
	}

	sectionIDs := make([]uuid.UUID, 0, len(sections))
	for _, sec := range sections {
		sectionIDs = append(sectionIDs, sec.ID)
	}

	var questions []model.FormQuestionModel
	if err := db.Where("section_id IN ?", sectionIDs).
		Order("order_index ASC").Order("created_at ASC").Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, pgerr.Map(err, "form questions")
	}

	opts, err := loadOptions(db, questionIDsOf(questions))
	if err != nil {
		return nil, err
	}

	bySection := make(map[uuid.UUID][]dto.QuestionView, len(sections))
	for _, q := range questions {
		bySection[q.SectionID] = append(bySection[q.SectionID], dto.NewQuestionView(q, opts[q.ID]))
	}
	for _, sec := range sections {
		qs := bySection[sec.ID]
		if qs == nil {
			qs = []dto.QuestionView{}
		}
		tree.Sections = append(tree.Sections, dto.SectionView{
			ID:          sec.ID,
			Title:       sec.Title,
			Description: sec.Description,
			OrderIndex:  sec.OrderIndex,
			Questions:   qs,
		})
	}
	return tree, nil
}

func questionIDsOf(qs []model.FormQuestionModel) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(qs))
	for _, q := range qs {
		ids = append(ids, q.ID)
	}
	return ids
}

func loadOptions(db *gorm.DB, questionIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	out := make(map[uuid.UUID][]string, len(questionIDs))
	if len(questionIDs) == 0 {
		return out, nil
	}
	var rows []model.FormQuestionOptionModel
	if err := db.Where("question_id IN ?", questionIDs).
		Order("question_id ASC").Order("option_index ASC").
		Find(&rows).Error; err != nil {
		return nil, pgerr.Map(err, "question options")
	}
	for _, o := range rows {
		out[o.QuestionID] = append(out[o.QuestionID], o.Label)
	}
	return out, nil
}

/* =========================================================
   OWNERSHIP
========================================================= */

// OwnedForm: form + company pemilik (via internship). 404 / 403.
func (s *Service) OwnedForm(ctx context.Context, db *gorm.DB, companyID, formID uuid.UUID) (*model.FormModel, error) {
	if db == nil {
		db = s.DB
	}
	var f model.FormModel
	err := db.WithContext(ctx).Preload("Internship").First(&f, "id = ?", formID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.NotFound("form not found")
	}
	if err != nil {
		return nil, pgerr.Map(err, "form")
	}
	if f.Internship == nil || f.Internship.CompanyID != companyID {
		return nil, fault.Forbidden("you do not own this form")
	}
	return &f, nil
}

// EnsureForm: satu form per internship, idempotent.
func (s *Service) EnsureForm(ctx context.Context, companyID, internshipID uuid.UUID, title string) (*dto.FormTree, error) {
	var in internshipModel.InternshipModel
	err := s.DB.WithContext(ctx).First(&in, "id = ?", internshipID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.NotFound("opportunity not found")
	}
	if err != nil {
		return nil, pgerr.Map(err, "opportunity")
	}
	if in.CompanyID != companyID {
		return nil, fault.Forbidden("you do not own this opportunity")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = in.Title + " Application"
	}
	row := model.FormModel{InternshipID: internshipID, Title: title}
	if err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "internship_id"}}, DoNothing: true}).
		Create(&row).Error; err != nil {
		return nil, pgerr.Map(err, "form")
	}
	return s.GetFormByInternship(ctx, internshipID)
}

/* =========================================================
   UPSERT QUESTIONS
========================================================= */

// ValidateQuestionInput: dipakai sebelum tx, jadi payload invalid tidak
// pernah menulis apa pun.
func ValidateQuestionInput(i int, q dto.QuestionInput) error {
	label := fmt.Sprintf("questions[%d]", i)
	if !model.ValidQuestionType(q.Type) {
		return fault.Validation(label + ": unknown question type " + q.Type)
	}
	// update dengan teks kosong mempertahankan teks tersimpan
	if strings.TrimSpace(q.QuestionText) == "" && q.QuestionBankID == nil && q.ID == nil {
		return fault.Validation(label + ": question_text is required")
	}
	if model.IsChoiceType(q.Type) && len(cleanOptions(q.Options)) < model.MinChoiceOptions {
		return fault.Validation(fmt.Sprintf("%s: %s questions need at least %d options", label, q.Type, model.MinChoiceOptions))
	}
	if q.SectionID == nil && strings.TrimSpace(q.SectionKey) == "" && q.ID == nil {
		return fault.Validation(label + ": section_id or section_key is required")
	}
	return nil
}

func cleanOptions(in []string) []string {
	out := make([]string, 0, len(in))
	for _, o := range in {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// UpsertQuestions: section di payload di-upsert dulu, lalu question,
// lalu penghapusan (question dulu, baru section).
func (s *Service) UpsertQuestions(ctx context.Context, companyID, formID uuid.UUID, in dto.UpsertQuestionsRequest) ([]dto.QuestionView, error) {
	for i, q := range in.Questions {
		if err := ValidateQuestionInput(i, q); err != nil {
			return nil, err
		}
	}

	deletedQuestions := idSet(in.DeletedQuestionIDs)
	deletedSections := idSet(in.DeletedSectionIDs)

	var touched []uuid.UUID
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.OwnedForm(ctx, tx, companyID, formID); err != nil {
			return err
		}

		keyToID, err := s.upsertSections(tx, formID, in.Sections)
		if err != nil {
			return err
		}

		formSections, err := s.sectionSet(tx, formID)
		if err != nil {
			return err
		}

		for i, q := range in.Questions {
			if q.ID != nil && deletedQuestions[*q.ID] {
				continue
			}
			id, err := s.upsertQuestion(ctx, tx, companyID, formID, i, q, keyToID, formSections, deletedSections)
			if err != nil {
				return err
			}
			touched = append(touched, id)
		}

		if err := deleteQuestions(tx, formID, in.DeletedQuestionIDs); err != nil {
			return err
		}
		return deleteSections(tx, formID, in.DeletedSectionIDs)
	})
	if err != nil {
		if _, ok := fault.As(err); ok {
			return nil, err
		}
		return nil, pgerr.Map(err, "form questions")
	}

	return s.questionViews(ctx, touched)
}

func idSet(ids []uuid.UUID) map[uuid.UUID]bool {
	m := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func (s *Service) sectionSet(tx *gorm.DB, formID uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	if err := tx.Model(&model.FormSectionModel{}).Where("form_id = ?", formID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return idSet(ids), nil
}

func (s *Service) upsertSections(tx *gorm.DB, formID uuid.UUID, sections []dto.SectionInput) (map[string]uuid.UUID, error) {
	keyToID := make(map[string]uuid.UUID, len(sections))
	for i, sec := range sections {
		title := strings.TrimSpace(sec.Title)
		if title == "" {
			title = fmt.Sprintf("Section %d", i+1)
		}

		if sec.ID != nil {
			res := tx.Model(&model.FormSectionModel{}).
				Where("id = ? AND form_id = ?", *sec.ID, formID).
				Updates(map[string]any{
					"title":       title,
					"description": sec.Description,
					"order_index": sec.OrderIndex,
				})
			if res.Error != nil {
				return nil, res.Error
			}
			if res.RowsAffected == 0 {
				return nil, fault.InvalidSection(sec.ID.String())
			}
			if sec.Key != "" {
				keyToID[sec.Key] = *sec.ID
			}
			continue
		}

		row := model.FormSectionModel{
			FormID:      formID,
			Title:       title,
			Description: sec.Description,
			OrderIndex:  sec.OrderIndex,
		}
		if err := tx.Create(&row).Error; err != nil {
			return nil, err
		}
		if sec.Key != "" {
			keyToID[sec.Key] = row.ID
		}
	}
	return keyToID, nil
}

func (s *Service) upsertQuestion(
	ctx context.Context,
	tx *gorm.DB,
	companyID, formID uuid.UUID,
	i int,
	q dto.QuestionInput,
	keyToID map[string]uuid.UUID,
	formSections, deletedSections map[uuid.UUID]bool,
) (uuid.UUID, error) {
	var existing *model.FormQuestionModel
	if q.ID != nil {
		var cur model.FormQuestionModel
		err := tx.Joins("JOIN form_sections fs ON fs.id = form_questions.section_id").
			Where("form_questions.id = ? AND fs.form_id = ?", *q.ID, formID).
			First(&cur).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, fault.Validation(fmt.Sprintf("questions[%d]: question does not belong to this form", i))
		}
		if err != nil {
			return uuid.Nil, err
		}
		existing = &cur
	}

	sectionID, err := resolveSection(q, keyToID, existing)
	if err != nil {
		return uuid.Nil, err
	}
	if !formSections[sectionID] || deletedSections[sectionID] {
		return uuid.Nil, fault.InvalidSection(sectionID.String())
	}

	text := strings.TrimSpace(q.QuestionText)

	if existing != nil {
		updates := map[string]any{
			"section_id":  sectionID,
			"type":        q.Type,
			"required":    q.Required,
			"order_index": q.OrderIndex,
			"description": q.Description,
			"hint":        q.Hint,
			"placeholder": q.Placeholder,
		}
		if text != "" {
			updates["question_text"] = text
		}
		if err := tx.Model(&model.FormQuestionModel{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			return uuid.Nil, err
		}
		if err := replaceOptions(tx, existing.ID, q.Type, q.Options); err != nil {
			return uuid.Nil, err
		}
		return existing.ID, nil
	}

	var bankID uuid.UUID
	if q.QuestionBankID != nil {
		entry, err := s.Bank.Use(ctx, tx, companyID, *q.QuestionBankID)
		if err != nil {
			return uuid.Nil, err
		}
		bankID = entry.ID
		if text == "" {
			text = entry.QuestionText
		}
	} else {
		bankID, err = s.Bank.GetOrCreateQuestion(ctx, tx, companyID, q.Type, text, q.Category)
		if err != nil {
			return uuid.Nil, err
		}
	}

	row := model.FormQuestionModel{
		SectionID:      sectionID,
		QuestionBankID: &bankID,
		Type:           q.Type,
		QuestionText:   text,
		Required:       q.Required,
		OrderIndex:     q.OrderIndex,
		Description:    q.Description,
		Hint:           q.Hint,
		Placeholder:    q.Placeholder,
	}
	if err := tx.Create(&row).Error; err != nil {
		return uuid.Nil, err
	}
	if err := replaceOptions(tx, row.ID, q.Type, q.Options); err != nil {
		return uuid.Nil, err
	}
	return row.ID, nil
}

func resolveSection(q dto.QuestionInput, keyToID map[string]uuid.UUID, existing *model.FormQuestionModel) (uuid.UUID, error) {
	if q.SectionID != nil {
		return *q.SectionID, nil
	}
	if k := strings.TrimSpace(q.SectionKey); k != "" {
		id, ok := keyToID[k]
		if !ok {
			return uuid.Nil, fault.InvalidSection(k)
		}
		return id, nil
	}
	if existing != nil {
		return existing.SectionID, nil
	}
	return uuid.Nil, fault.Validation("section_id or section_key is required")
}

// replaceOptions: opsi hanya disimpan untuk tipe pilihan.
func replaceOptions(tx *gorm.DB, questionID uuid.UUID, qType string, options []string) error {
	if err := tx.Where("question_id = ?", questionID).Delete(&model.FormQuestionOptionModel{}).Error; err != nil {
		return err
	}
	if !model.IsChoiceType(qType) {
		return nil
	}
	clean := cleanOptions(options)
	rows := make([]model.FormQuestionOptionModel, 0, len(clean))
	for i, label := range clean {
		rows = append(rows, model.FormQuestionOptionModel{
			QuestionID:  questionID,
			OptionIndex: i,
			Label:       label,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// deleteQuestions: id yang bukan milik form diabaikan.
func deleteQuestions(tx *gorm.DB, formID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	var owned []uuid.UUID
	if err := tx.Model(&model.FormQuestionModel{}).
		Joins("JOIN form_sections fs ON fs.id = form_questions.section_id").
		Where("form_questions.id IN ? AND fs.form_id = ?", ids, formID).
		Pluck("form_questions.id", &owned).Error; err != nil {
		return err
	}
	return purgeQuestions(tx, owned)
}

func deleteSections(tx *gorm.DB, formID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	var owned []uuid.UUID
	if err := tx.Model(&model.FormSectionModel{}).
		Where("id IN ? AND form_id = ?", ids, formID).
		Pluck("id", &owned).Error; err != nil {
		return err
	}
	if len(owned) == 0 {
		return nil
	}
	// pertanyaan yang tersisa di section ikut terhapus; yang sudah dihapus
	// sebelumnya tidak bikin gagal
	var remaining []uuid.UUID
	if err := tx.Model(&model.FormQuestionModel{}).
		Where("section_id IN ?", owned).
		Pluck("id", &remaining).Error; err != nil {
		return err
	}
	if err := purgeQuestions(tx, remaining); err != nil {
		return err
	}
	return tx.Where("id IN ?", owned).Delete(&model.FormSectionModel{}).Error
}

// purgeQuestions: jawaban → opsi → question.
func purgeQuestions(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("question_id IN ?", ids).Delete(&responseModel.ResponseAnswerModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("question_id IN ?", ids).Delete(&model.FormQuestionOptionModel{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&model.FormQuestionModel{}).Error
}

func (s *Service) questionViews(ctx context.Context, ids []uuid.UUID) ([]dto.QuestionView, error) {
	out := make([]dto.QuestionView, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	db := s.DB.WithContext(ctx)
	var rows []model.FormQuestionModel
	if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, pgerr.Map(err, "form questions")
	}
	opts, err := loadOptions(db, ids)
	if err != nil {
		return nil, err
	}
	pos := make(map[uuid.UUID]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	sort.SliceStable(rows, func(a, b int) bool { return pos[rows[a].ID] < pos[rows[b].ID] })
	for _, q := range rows {
		out = append(out, dto.NewQuestionView(q, opts[q.ID]))
	}
	return out, nil
}
