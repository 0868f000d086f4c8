package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"internlink_backend/internals/features/applications/applications/dto"
	"internlink_backend/internals/features/applications/applications/model"
	formDto "internlink_backend/internals/features/forms/forms/dto"
	formModel "internlink_backend/internals/features/forms/forms/model"
	formService "internlink_backend/internals/features/forms/forms/service"
	respDto "internlink_backend/internals/features/forms/responses/dto"
	respModel "internlink_backend/internals/features/forms/responses/model"
	respService "internlink_backend/internals/features/forms/responses/service"
	internshipModel "internlink_backend/internals/features/opportunities/internships/model"
	companyModel "internlink_backend/internals/features/users/companies/model"
	internModel "internlink_backend/internals/features/users/interns/model"
	"internlink_backend/internals/helpers/fault"
	"internlink_backend/internals/helpers/pgerr"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	DB        *gorm.DB
	Forms     *formService.Service
	Responses *respService.Service
}

func New(db *gorm.DB, forms *formService.Service, responses *respService.Service) *Service {
	return &Service{DB: db, Forms: forms, Responses: responses}
}

/* =========================================================
   START
========================================================= */

// Start membuat application pending + draft response (kalau internship punya
// form) dalam satu transaksi. Baris yang sudah ada dikembalikan apa adanya.
// created=false berarti baris lama.
func (s *Service) Start(ctx context.Context, internID, internshipID uuid.UUID, fresh bool) (*model.ApplicationModel, bool, error) {
	db := s.DB.WithContext(ctx)

	var in internshipModel.InternshipModel
	err := db.First(&in, "id = ?", internshipID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !in.IsActive) {
		return nil, false, fault.NotFound("opportunity not found")
	}
	if err != nil {
		return nil, false, pgerr.Map(err, "opportunity")
	}

	existing, err := s.find(db, internID, internshipID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		out, err := s.resume(ctx, existing, fresh)
		return out, false, err
	}

	var created model.ApplicationModel
	err = db.Transaction(func(tx *gorm.DB) error {
		created = model.ApplicationModel{InternID: internID, InternshipID: internshipID, Status: model.StatusPending}
		respID, err := createDraft(tx, internID, internshipID)
		if err != nil {
			return err
		}
		created.FormResponseID = respID
		return tx.Create(&created).Error
	})
	if err == nil {
		log.Printf("[INFO] application started intern=%s internship=%s id=%s", internID, internshipID, created.ID)
		return &created, true, nil
	}
	if !pgerr.IsUniqueViolation(err) {
		return nil, false, pgerr.Map(pgerr.MissingParent(err, "opportunity"), "application")
	}

	// start paralel menang duluan → pakai baris yang sudah ada
	existing, err = s.find(db, internID, internshipID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fault.Internal("failed to start application", nil)
	}
	out, err := s.resume(ctx, existing, fresh)
	return out, false, err
}

func (s *Service) find(db *gorm.DB, internID, internshipID uuid.UUID) (*model.ApplicationModel, error) {
	var app model.ApplicationModel
	err := db.Where("intern_id = ? AND internship_id = ?", internID, internshipID).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pgerr.Map(err, "application")
	}
	return &app, nil
}

// resume: fresh=true hanya boleh kalau baris lama masih pending. Form yang
// dibuat setelah apply mendapat draft response di sini.
func (s *Service) resume(ctx context.Context, app *model.ApplicationModel, fresh bool) (*model.ApplicationModel, error) {
	if fresh && app.Status != model.StatusPending {
		return nil, fault.AlreadySubmitted()
	}
	if app.Status != model.StatusPending || app.FormResponseID != nil {
		return app, nil
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		respID, err := createDraft(tx, app.InternID, app.InternshipID)
		if err != nil || respID == nil {
			return err
		}
		res := tx.Model(&model.ApplicationModel{}).
			Where("id = ? AND form_response_id IS NULL", app.ID).
			Update("form_response_id", *respID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tx.Delete(&respModel.FormResponseModel{}, "id = ?", *respID).Error
		}
		app.FormResponseID = respID
		return nil
	})
	if err != nil {
		return nil, pgerr.Map(pgerr.MissingParent(err, "opportunity"), "application")
	}
	return app, nil
}

func createDraft(tx *gorm.DB, internID, internshipID uuid.UUID) (*uuid.UUID, error) {
	var form formModel.FormModel
	err := tx.Where("internship_id = ?", internshipID).First(&form).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	resp := respModel.FormResponseModel{FormID: form.ID, UserID: internID, Status: respModel.StatusDraft}
	if err := tx.Create(&resp).Error; err != nil {
		return nil, pgerr.MissingParent(err, "opportunity")
	}
	return &resp.ID, nil
}

/* =========================================================
   SUBMIT
========================================================= */

// Submit: answers nil → jawaban tersimpan dipakai apa adanya; selain itu
// disimpan dulu dalam mode replace-all.
func (s *Service) Submit(ctx context.Context, internID, applicationID uuid.UUID, answers []respDto.AnswerEntry) (*model.ApplicationModel, error) {
	var app model.ApplicationModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&app, "id = ?", applicationID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fault.NotFound("application not found")
		}
		if err != nil {
			return err
		}
		if app.InternID != internID {
			return fault.Forbidden("this application belongs to another intern")
		}
		switch {
		case app.Status == model.StatusSubmitted:
			return fault.AlreadySubmitted()
		case model.IsTerminal(app.Status):
			return fault.AlreadyDecided()
		}
		if app.FormResponseID == nil {
			return fault.MissingResponse()
		}
		responseID := *app.FormResponseID

		if answers != nil {
			if err := s.Responses.SaveAnswers(ctx, tx, responseID, answers, true); err != nil {
				return err
			}
		}

		missing, err := unansweredRequired(tx, responseID)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fault.Validation("required questions are unanswered").
				WithDetails(map[string]any{"question_ids": missing})
		}

		now := time.Now().UTC()
		res := tx.Model(&respModel.FormResponseModel{}).
			Where("id = ? AND status = ?", responseID, respModel.StatusDraft).
			Updates(map[string]any{"status": respModel.StatusSubmitted, "submitted_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fault.Conflict(fault.CodeResponseLocked, "form response already submitted")
		}
		if err := tx.Model(&app).Updates(map[string]any{
			"status":       model.StatusSubmitted,
			"submitted_at": now,
		}).Error; err != nil {
			return err
		}
		app.Status = model.StatusSubmitted
		app.SubmittedAt = &now
		return nil
	})
	if err != nil {
		return nil, pgerr.Map(err, "application")
	}
	log.Printf("[INFO] application submitted id=%s intern=%s", app.ID, internID)
	return &app, nil
}

// unansweredRequired: id pertanyaan wajib yang jawabannya kosong / tidak ada.
func unansweredRequired(tx *gorm.DB, responseID uuid.UUID) ([]uuid.UUID, error) {
	var resp respModel.FormResponseModel
	if err := tx.First(&resp, "id = ?", responseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.MissingResponse()
		}
		return nil, err
	}

	var required []uuid.UUID
	if err := tx.Model(&formModel.FormQuestionModel{}).
		Joins("JOIN form_sections fs ON fs.id = form_questions.section_id").
		Where("fs.form_id = ? AND form_questions.required = ?", resp.FormID, true).
		Order("fs.order_index ASC").Order("form_questions.order_index ASC").
		Pluck("form_questions.id", &required).Error; err != nil {
		return nil, err
	}
	if len(required) == 0 {
		return nil, nil
	}

	var answers []respModel.ResponseAnswerModel
	if err := tx.Where("response_id = ? AND question_id IN ?", responseID, required).Find(&answers).Error; err != nil {
		return nil, err
	}
	answered := make(map[uuid.UUID]bool, len(answers))
	for _, a := range answers {
		if hasValue(a) {
			answered[a.QuestionID] = true
		}
	}
	missing := make([]uuid.UUID, 0)
	for _, id := range required {
		if !answered[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func hasValue(a respModel.ResponseAnswerModel) bool {
	if a.AnswerText != nil {
		return strings.TrimSpace(*a.AnswerText) != ""
	}
	data := bytes.TrimSpace(a.AnswerData)
	switch string(data) {
	case "", "null", "[]", "{}", `""`:
		return false
	}
	return true
}

/* =========================================================
   DECIDE
========================================================= */

// Decide: hanya company pemilik; retry dengan hasil sama = no-op.
func (s *Service) Decide(ctx context.Context, companyID, applicationID uuid.UUID, accepted bool) (*model.ApplicationModel, error) {
	outcome := model.StatusRejected
	if accepted {
		outcome = model.StatusAccepted
	}

	var app model.ApplicationModel
	changed := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&app, "id = ?", applicationID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fault.NotFound("application not found")
		}
		if err != nil {
			return err
		}

		var in internshipModel.InternshipModel
		if err := tx.First(&in, "id = ?", app.InternshipID).Error; err != nil {
			return err
		}
		if in.CompanyID != companyID {
			return fault.Forbidden("you do not own this opportunity")
		}

		if model.IsTerminal(app.Status) {
			if app.Status == outcome {
				return nil
			}
			return fault.AlreadyDecided()
		}
		if app.Status != model.StatusSubmitted {
			return fault.Conflict("NOT_SUBMITTED", "application has not been submitted yet")
		}

		now := time.Now().UTC()
		if err := tx.Model(&app).Updates(map[string]any{
			"status":     outcome,
			"decided_at": now,
		}).Error; err != nil {
			return err
		}
		app.Status = outcome
		app.DecidedAt = &now
		changed = true

		if !accepted {
			return nil
		}
		var company companyModel.CompanyModel
		if err := tx.First(&company, "id = ?", companyID).Error; err != nil {
			return err
		}
		return tx.Model(&internModel.InternProfileModel{}).
			Where("id = ?", app.InternID).
			Updates(map[string]any{"team": company.Team(), "team_company_id": companyID}).Error
	})
	if err != nil {
		return nil, pgerr.Map(err, "application")
	}
	if changed {
		log.Printf("[INFO] application decided id=%s outcome=%s", app.ID, outcome)
	}
	return &app, nil
}

/* =========================================================
   READ SIDE
========================================================= */

// ListForInternship: shape review bertingkat untuk company pemilik.
func (s *Service) ListForInternship(ctx context.Context, companyID, internshipID uuid.UUID, status string) ([]dto.ReviewItem, error) {
	db := s.DB.WithContext(ctx)

	var in internshipModel.InternshipModel
	if err := db.Preload("Company").First(&in, "id = ?", internshipID).Error; err != nil {
		return nil, pgerr.Map(err, "opportunity")
	}
	if in.CompanyID != companyID {
		return nil, fault.Forbidden("you do not own this opportunity")
	}

	q := db.Where("internship_id = ?", internshipID)
	if status = strings.ToLower(strings.TrimSpace(status)); status != "" {
		q = q.Where("status = ?", status)
	}
	var apps []model.ApplicationModel
	if err := q.Order("applied_at DESC").Find(&apps).Error; err != nil {
		return nil, pgerr.Map(err, "applications")
	}
	out := make([]dto.ReviewItem, 0, len(apps))
	if len(apps) == 0 {
		return out, nil
	}

	internIDs := make([]uuid.UUID, 0, len(apps))
	responseIDs := make([]uuid.UUID, 0, len(apps))
	for _, a := range apps {
		internIDs = append(internIDs, a.InternID)
		if a.FormResponseID != nil {
			responseIDs = append(responseIDs, *a.FormResponseID)
		}
	}

	var (
		profiles  []internModel.InternProfileModel
		responses []respModel.FormResponseModel
		answers   map[uuid.UUID]map[uuid.UUID]respModel.ResponseAnswerModel
		tree      *formDto.FormTree
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.DB.WithContext(gctx).Where("id IN ?", internIDs).Find(&profiles).Error
	})
	g.Go(func() error {
		if len(responseIDs) == 0 {
			return nil
		}
		if err := s.DB.WithContext(gctx).Where("id IN ?", responseIDs).Find(&responses).Error; err != nil {
			return err
		}
		var err error
		answers, err = respService.AnswersByResponse(s.DB.WithContext(gctx), responseIDs)
		return err
	})
	g.Go(func() error {
		t, err := s.Forms.GetFormByInternship(gctx, internshipID)
		if fault.Is(err, fault.KindNotFound) {
			return nil
		}
		tree = t
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, pgerr.Map(err, "applications")
	}

	profileByID := make(map[uuid.UUID]internModel.InternProfileModel, len(profiles))
	for _, p := range profiles {
		profileByID[p.ID] = p
	}
	statusByResponse := make(map[uuid.UUID]string, len(responses))
	for _, r := range responses {
		statusByResponse[r.ID] = r.Status
	}

	brief := internshipBrief(in)
	for _, a := range apps {
		item := dto.ReviewItem{Application: dto.FromModel(a), Internship: brief}
		if p, ok := profileByID[a.InternID]; ok {
			item.Applicant = applicantView(p)
		}
		if tree != nil {
			views := map[uuid.UUID]respDto.AnswerView{}
			respStatus := ""
			if a.FormResponseID != nil {
				for qid, ans := range answers[*a.FormResponseID] {
					views[qid] = respDto.NewAnswerView(ans)
				}
				respStatus = statusByResponse[*a.FormResponseID]
			}
			item.Form = dto.NewReviewForm(tree, respStatus, views)
		}
		out = append(out, item)
	}
	return out, nil
}

// ListMine: semua application milik intern, terbaru dulu.
func (s *Service) ListMine(ctx context.Context, internID uuid.UUID) ([]dto.MineItem, error) {
	db := s.DB.WithContext(ctx)
	var apps []model.ApplicationModel
	if err := db.Preload("Internship").Preload("Internship.Company").
		Where("intern_id = ?", internID).
		Order("applied_at DESC").
		Find(&apps).Error; err != nil {
		return nil, pgerr.Map(err, "applications")
	}
	out := make([]dto.MineItem, 0, len(apps))
	for _, a := range apps {
		item := dto.MineItem{Application: dto.FromModel(a)}
		if a.Internship != nil {
			item.Internship = internshipBrief(*a.Internship)
		}
		out = append(out, item)
	}
	return out, nil
}

func internshipBrief(in internshipModel.InternshipModel) dto.InternshipBrief {
	b := dto.InternshipBrief{ID: in.ID, Title: in.Title, CompanyID: in.CompanyID, IsActive: in.IsActive}
	if in.Company != nil {
		b.CompanyName = in.Company.Name
	}
	return b
}

func applicantView(p internModel.InternProfileModel) *dto.ApplicantView {
	v := &dto.ApplicantView{
		ID:                p.ID,
		FullName:          p.FullName,
		School:            p.School,
		Grade:             p.Grade,
		City:              p.City,
		State:             p.State,
		Team:              p.Team,
		ProfileCompletion: p.ProfileCompletion,
	}
	if len(p.Skills) > 0 {
		v.Skills = []byte(p.Skills)
	}
	return v
}
