package service

import (
	"context"
	"errors"
	"strings"

	"internlink_backend/internals/features/forms/question_bank/dto"
	"internlink_backend/internals/features/forms/question_bank/model"
	"internlink_backend/internals/helpers/fault"
	"internlink_backend/internals/helpers/pgerr"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{DB: db} }

// NormalizeText: NFC + trim + spasi ganda dirapatkan. Ini kunci dedup bank.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// GetOrCreateQuestion berjalan di dalam tx milik caller (form store).
// Entri baru usage_count = 1; entri yang sudah ada hanya dinaikkan usage-nya,
// teks/tipe tidak pernah diubah.
func (s *Service) GetOrCreateQuestion(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, qType, text string, category *string) (uuid.UUID, error) {
	if tx == nil {
		tx = s.DB
	}
	text = NormalizeText(text)
	if text == "" {
		return uuid.Nil, fault.Validation("question text is required")
	}

	row := model.QuestionBankModel{
		CompanyID:    companyID,
		Type:         qType,
		QuestionText: text,
		Category:     category,
		UsageCount:   1,
	}
	err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "company_id"}, {Name: "question_text"}},
		DoUpdates: clause.Assignments(map[string]any{
			"usage_count": gorm.Expr("question_bank.usage_count + 1"),
		}),
	}).Create(&row).Error
	if err != nil {
		return uuid.Nil, pgerr.Map(err, "question bank entry")
	}

	// ID di struct bisa saja ID baru yang tidak jadi dipakai (jalur conflict)
	var existing model.QuestionBankModel
	if err := tx.WithContext(ctx).Select("id").
		Where("company_id = ? AND question_text = ?", companyID, text).
		First(&existing).Error; err != nil {
		return uuid.Nil, pgerr.Map(err, "question bank entry")
	}
	return existing.ID, nil
}

// Use: reuse by reference. Entri milik company lain hanya boleh kalau publik.
func (s *Service) Use(ctx context.Context, tx *gorm.DB, companyID, bankID uuid.UUID) (*model.QuestionBankModel, error) {
	if tx == nil {
		tx = s.DB
	}
	var m model.QuestionBankModel
	err := tx.WithContext(ctx).
		Where("id = ? AND (company_id = ? OR is_private = ?)", bankID, companyID, false).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.NotFound("question bank entry not found")
	}
	if err != nil {
		return nil, pgerr.Map(err, "question bank entry")
	}
	if err := tx.WithContext(ctx).Model(&model.QuestionBankModel{}).
		Where("id = ?", bankID).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
		return nil, pgerr.Map(err, "question bank entry")
	}
	m.UsageCount++
	return &m, nil
}

func (s *Service) Create(ctx context.Context, companyID uuid.UUID, req dto.CreateQuestionBankRequest) (*model.QuestionBankModel, error) {
	var out model.QuestionBankModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := s.GetOrCreateQuestion(ctx, tx, companyID, req.Type, req.QuestionText, req.Category)
		if err != nil {
			return err
		}
		if req.IsPrivate {
			if err := tx.Model(&model.QuestionBankModel{}).Where("id = ?", id).
				Update("is_private", true).Error; err != nil {
				return err
			}
		}
		return tx.First(&out, "id = ?", id).Error
	})
	if err != nil {
		if _, ok := fault.As(err); ok {
			return nil, err
		}
		return nil, pgerr.Map(err, "question bank entry")
	}
	return &out, nil
}

// List: entri milik sendiri + entri publik company lain, paling sering dipakai dulu.
func (s *Service) List(ctx context.Context, companyID uuid.UUID, f dto.ListFilter) ([]model.QuestionBankModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.QuestionBankModel{}).
		Where("company_id = ? OR is_private = ?", companyID, false)
	if t := strings.TrimSpace(f.Type); t != "" {
		q = q.Where("type = ?", t)
	}
	if cat := strings.TrimSpace(f.Category); cat != "" {
		q = q.Where("category = ?", cat)
	}
	if kw := strings.TrimSpace(f.Q); kw != "" {
		q = q.Where("LOWER(question_text) LIKE ?", "%"+strings.ToLower(kw)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, pgerr.Map(err, "question bank")
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	var rows []model.QuestionBankModel
	if err := q.Order("usage_count DESC").Order("created_at DESC").
		Limit(f.Limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, pgerr.Map(err, "question bank")
	}
	return rows, total, nil
}
