package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	appModel "internlink_backend/internals/features/applications/applications/model"
	formModel "internlink_backend/internals/features/forms/forms/model"
	respModel "internlink_backend/internals/features/forms/responses/model"
	"internlink_backend/internals/features/opportunities/internships/dto"
	"internlink_backend/internals/features/opportunities/internships/model"
	"internlink_backend/internals/helpers/fault"
	"internlink_backend/internals/helpers/pgerr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service: DB = handle restricted untuk CRUD biasa, Elevated dipakai
// khusus cascade delete (lintas tabel milik applicant).
type Service struct {
	DB       *gorm.DB
	Elevated *gorm.DB
}

func New(db, elevated *gorm.DB) *Service {
	if elevated == nil {
		elevated = db
	}
	return &Service{DB: db, Elevated: elevated}
}

/* =========================================================
   CRUD
========================================================= */

func (s *Service) Create(ctx context.Context, companyID uuid.UUID, req dto.CreateInternshipRequest) (*dto.InternshipView, error) {
	row := req.ToModel(companyID)
	db := s.DB.WithContext(ctx)
	if err := db.Create(&row).Error; err != nil {
		return nil, pgerr.Map(err, "opportunity")
	}
	// default:true di kolom → false harus di-update terpisah
	if req.IsActive != nil && !*req.IsActive {
		if err := db.Model(&row).Update("is_active", false).Error; err != nil {
			return nil, pgerr.Map(err, "opportunity")
		}
	}
	log.Printf("[INFO] opportunity created id=%s company=%s", row.ID, companyID)
	return s.Get(ctx, row.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*dto.InternshipView, error) {
	var row model.InternshipModel
	if err := s.DB.WithContext(ctx).Preload("Company").First(&row, "id = ?", id).Error; err != nil {
		return nil, pgerr.Map(err, "opportunity")
	}
	v := dto.FromModel(row)
	return &v, nil
}

// Owned: 404 kalau tidak ada, 403 kalau milik company lain.
func (s *Service) Owned(ctx context.Context, db *gorm.DB, companyID, id uuid.UUID) (*model.InternshipModel, error) {
	if db == nil {
		db = s.DB
	}
	var row model.InternshipModel
	err := db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.NotFound("opportunity not found")
	}
	if err != nil {
		return nil, pgerr.Map(err, "opportunity")
	}
	if row.CompanyID != companyID {
		return nil, fault.Forbidden("you do not own this opportunity")
	}
	return &row, nil
}

func (s *Service) Update(ctx context.Context, companyID, id uuid.UUID, req dto.UpdateInternshipRequest) (*dto.InternshipView, error) {
	row, err := s.Owned(ctx, nil, companyID, id)
	if err != nil {
		return nil, err
	}
	cols := req.Columns()
	if t, ok := cols["title"].(string); ok && t == "" {
		return nil, fault.Validation("title cannot be empty")
	}
	if len(cols) > 0 {
		if err := s.DB.WithContext(ctx).Model(row).Updates(cols).Error; err != nil {
			return nil, pgerr.Map(err, "opportunity")
		}
	}
	return s.Get(ctx, id)
}

func (s *Service) SetActive(ctx context.Context, companyID, id uuid.UUID, active bool) (*dto.InternshipView, error) {
	row, err := s.Owned(ctx, nil, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(row).Update("is_active", active).Error; err != nil {
		return nil, pgerr.Map(err, "opportunity")
	}
	return s.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f dto.ListFilter) ([]model.InternshipModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.InternshipModel{})
	if kw := strings.ToLower(strings.TrimSpace(f.Q)); kw != "" {
		like := "%" + kw + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(COALESCE(position, '')) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?", like, like, like)
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(c))
	}
	if lt := strings.TrimSpace(f.LocationType); lt != "" {
		q = q.Where("location_type = ?", strings.ToLower(lt))
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if f.CompanyID != nil {
		q = q.Where("company_id = ?", *f.CompanyID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, pgerr.Map(err, "opportunities")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	var rows []model.InternshipModel
	if err := q.Preload("Company").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(f.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, pgerr.Map(err, "opportunities")
	}
	return rows, total, nil
}

/* =========================================================
   CASCADE-PRESERVING DELETE
========================================================= */

type acceptedRow struct {
	InternID uuid.UUID
	Name     string
	Team     *string
}

// DeleteOpportunity menghapus internship beserta form, response, jawaban dan
// semua application-nya dalam satu transaksi. Team intern yang sudah diterima
// dan seluruh percakapan tidak disentuh; kalau team berubah → rollback.
func (s *Service) DeleteOpportunity(ctx context.Context, internshipID, requesterID uuid.UUID) (*dto.DeleteSummary, error) {
	db := s.Elevated.WithContext(ctx)
	if _, err := s.Owned(ctx, db, requesterID, internshipID); err != nil {
		return nil, err
	}

	snapshot, err := acceptedInterns(db, internshipID)
	if err != nil {
		return nil, pgerr.Map(err, "accepted applications")
	}

	summary := &dto.DeleteSummary{
		DeletedCascade: []string{},
		DeletedCounts:  map[string]int64{},
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		return cascadeDelete(tx, internshipID, snapshot, summary)
	})
	if err != nil {
		if flt, ok := fault.As(err); ok && (flt.Kind == fault.KindUnrecoverable || flt.Kind == fault.KindNotFound) {
			return nil, flt
		}
		return nil, fault.Unrecoverable("opportunity deletion failed; nothing was deleted", err)
	}

	preserved := make([]dto.PreservedIntern, 0, len(snapshot))
	for _, a := range snapshot {
		preserved = append(preserved, dto.PreservedIntern{InternID: a.InternID, Name: a.Name, Team: a.Team})
	}
	summary.Preserved = dto.Preserved{AcceptedUsersCount: len(preserved), AcceptedUsers: preserved}

	log.Printf("[INFO] opportunity deleted id=%s by=%s counts=%v preserved=%d",
		internshipID, requesterID, summary.DeletedCounts, len(preserved))
	return summary, nil
}

func acceptedInterns(db *gorm.DB, internshipID uuid.UUID) ([]acceptedRow, error) {
	var rows []acceptedRow
	err := db.Table("applications AS a").
		Select("a.intern_id AS intern_id, p.full_name AS name, p.team AS team").
		Joins("JOIN intern_profiles p ON p.id = a.intern_id").
		Where("a.internship_id = ? AND a.status = ?", internshipID, appModel.StatusAccepted).
		Order("p.full_name ASC").
		Scan(&rows).Error
	return rows, err
}

func cascadeDelete(tx *gorm.DB, internshipID uuid.UUID, snapshot []acceptedRow, summary *dto.DeleteSummary) error {
	record := func(name string, res *gorm.DB) error {
		if res.Error != nil {
			return fmt.Errorf("delete %s: %w", name, res.Error)
		}
		summary.DeletedCascade = append(summary.DeletedCascade, name)
		summary.DeletedCounts[name] = res.RowsAffected
		return nil
	}

	var formIDs, sectionIDs, questionIDs, responseIDs []uuid.UUID
	if err := tx.Model(&formModel.FormModel{}).Where("internship_id = ?", internshipID).Pluck("id", &formIDs).Error; err != nil {
		return err
	}
	if len(formIDs) > 0 {
		if err := tx.Model(&formModel.FormSectionModel{}).Where("form_id IN ?", formIDs).Pluck("id", &sectionIDs).Error; err != nil {
			return err
		}
		if err := tx.Model(&respModel.FormResponseModel{}).Where("form_id IN ?", formIDs).Pluck("id", &responseIDs).Error; err != nil {
			return err
		}
	}
	if len(sectionIDs) > 0 {
		if err := tx.Model(&formModel.FormQuestionModel{}).Where("section_id IN ?", sectionIDs).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
	}

	// answers: lewat response maupun lewat question
	answers := tx.Where("1 = 0")
	switch {
	case len(responseIDs) > 0 && len(questionIDs) > 0:
		answers = tx.Where("response_id IN ? OR question_id IN ?", responseIDs, questionIDs)
	case len(responseIDs) > 0:
		answers = tx.Where("response_id IN ?", responseIDs)
	case len(questionIDs) > 0:
		answers = tx.Where("question_id IN ?", questionIDs)
	}
	if err := record("response_answers", answers.Delete(&respModel.ResponseAnswerModel{})); err != nil {
		return err
	}
	if err := record("applications", tx.Where("internship_id = ?", internshipID).Delete(&appModel.ApplicationModel{})); err != nil {
		return err
	}
	if err := record("form_responses", deleteIn(tx, "id", responseIDs, &respModel.FormResponseModel{})); err != nil {
		return err
	}
	if err := record("form_question_options", deleteIn(tx, "question_id", questionIDs, &formModel.FormQuestionOptionModel{})); err != nil {
		return err
	}
	if err := record("form_questions", deleteIn(tx, "id", questionIDs, &formModel.FormQuestionModel{})); err != nil {
		return err
	}
	if err := record("form_sections", deleteIn(tx, "id", sectionIDs, &formModel.FormSectionModel{})); err != nil {
		return err
	}
	if err := record("forms", deleteIn(tx, "id", formIDs, &formModel.FormModel{})); err != nil {
		return err
	}
	res := tx.Where("id = ?", internshipID).Delete(&model.InternshipModel{})
	if err := record("internships", res); err != nil {
		return err
	}
	if res.RowsAffected != 1 {
		return fault.NotFound("opportunity not found")
	}

	return verifyTeams(tx, snapshot)
}

func deleteIn(tx *gorm.DB, column string, ids []uuid.UUID, m any) *gorm.DB {
	if len(ids) == 0 {
		return tx.Where("1 = 0").Delete(m)
	}
	return tx.Where(column+" IN ?", ids).Delete(m)
}

// verifyTeams: team tiap intern yang diterima harus sama seperti sebelum delete.
func verifyTeams(tx *gorm.DB, snapshot []acceptedRow) error {
	if len(snapshot) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(snapshot))
	for _, a := range snapshot {
		ids = append(ids, a.InternID)
	}
	var after []acceptedRow
	if err := tx.Table("intern_profiles").
		Select("id AS intern_id, full_name AS name, team").
		Where("id IN ?", ids).
		Scan(&after).Error; err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*string, len(after))
	for _, a := range after {
		byID[a.InternID] = a.Team
	}
	for _, before := range snapshot {
		now, ok := byID[before.InternID]
		if !ok || !sameTeam(before.Team, now) {
			return fault.Unrecoverable("accepted intern team changed during opportunity deletion",
				fmt.Errorf("intern %s team mismatch", before.InternID))
		}
	}
	return nil
}

func sameTeam(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
