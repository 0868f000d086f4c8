package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	formModel "internlink_backend/internals/features/forms/forms/model"
	"internlink_backend/internals/features/forms/responses/dto"
	"internlink_backend/internals/features/forms/responses/model"
	authModel "internlink_backend/internals/features/users/auth/model"
	"internlink_backend/internals/helpers/fault"
	helperOSS "internlink_backend/internals/helpers/oss"
	"internlink_backend/internals/helpers/pgerr"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	MaxAnswerFileBytes  = 10 << 20
	MaxAnswerVideoBytes = 50 << 20
)

type Service struct {
	DB    *gorm.DB
	Files helperOSS.Store // nil → upload 503
}

func New(db *gorm.DB, files helperOSS.Store) *Service {
	return &Service{DB: db, Files: files}
}

/* =========================================================
   VALUE SPLIT: string → answer_text, lainnya → answer_data
========================================================= */

func SplitValue(raw []byte) (*string, datatypes.JSON, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil, nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := sonic.Unmarshal(trimmed, &s); err != nil {
			return nil, nil, err
		}
		return &s, nil, nil
	}
	if !sonic.Valid(trimmed) {
		return nil, nil, fmt.Errorf("answer value is not valid JSON")
	}
	return nil, datatypes.JSON(append([]byte(nil), trimmed...)), nil
}

/* =========================================================
   SAVE ANSWERS
========================================================= */

// SaveAnswers: upsert per (response_id, question_id), last write wins.
// replaceAll menghapus set jawaban lama lebih dulu. Harus dipanggil dengan
// tx milik caller kalau bagian dari operasi yang lebih besar (submit).
func (s *Service) SaveAnswers(ctx context.Context, tx *gorm.DB, responseID uuid.UUID, entries []dto.AnswerEntry, replaceAll bool) error {
	if tx == nil {
		return s.DB.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
			return s.SaveAnswers(ctx, inner, responseID, entries, replaceAll)
		})
	}
	tx = tx.WithContext(ctx)

	var resp model.FormResponseModel
	err := tx.First(&resp, "id = ?", responseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fault.NotFound("form response not found")
	}
	if err != nil {
		return err
	}
	if resp.Status == model.StatusSubmitted {
		return fault.Conflict(fault.CodeResponseLocked, "form response already submitted")
	}

	// dedupe: entri terakhir untuk question yang sama yang menang
	order := make([]uuid.UUID, 0, len(entries))
	latest := make(map[uuid.UUID]dto.AnswerEntry, len(entries))
	for _, e := range entries {
		if _, seen := latest[e.QuestionID]; !seen {
			order = append(order, e.QuestionID)
		}
		latest[e.QuestionID] = e
	}

	if len(order) > 0 {
		var valid []uuid.UUID
		if err := tx.Model(&formModel.FormQuestionModel{}).
			Joins("JOIN form_sections fs ON fs.id = form_questions.section_id").
			Where("fs.form_id = ? AND form_questions.id IN ?", resp.FormID, order).
			Pluck("form_questions.id", &valid).Error; err != nil {
			return err
		}
		ok := make(map[uuid.UUID]bool, len(valid))
		for _, id := range valid {
			ok[id] = true
		}
		for _, qid := range order {
			if !ok[qid] {
				return fault.Validation("question " + qid.String() + " does not belong to this form")
			}
		}
	}

	if replaceAll {
		if err := tx.Where("response_id = ?", responseID).Delete(&model.ResponseAnswerModel{}).Error; err != nil {
			return err
		}
	}
	if len(order) == 0 {
		return touchResponse(tx, responseID)
	}

	rows := make([]model.ResponseAnswerModel, 0, len(order))
	for _, qid := range order {
		text, data, err := SplitValue(latest[qid].Value)
		if err != nil {
			return fault.Validation("question " + qid.String() + ": " + err.Error())
		}
		rows = append(rows, model.ResponseAnswerModel{
			ResponseID: responseID,
			QuestionID: qid,
			AnswerText: text,
			AnswerData: data,
		})
	}
	if err := upsertAnswers(tx, rows); err != nil {
		return err
	}
	return touchResponse(tx, responseID)
}

// response/question bisa terhapus (cascade opportunity) setelah divalidasi
func upsertAnswers(tx *gorm.DB, rows []model.ResponseAnswerModel) error {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "response_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"answer_text", "answer_data", "updated_at"}),
	}).Create(&rows).Error
	return pgerr.MissingParent(err, "form response")
}

func touchResponse(tx *gorm.DB, responseID uuid.UUID) error {
	return tx.Model(&model.FormResponseModel{}).Where("id = ?", responseID).
		UpdateColumn("updated_at", time.Now().UTC()).Error
}

// SaveAnswersForUser: jalur HTTP (PUT /api/responses/:id/answers), hanya pemilik.
func (s *Service) SaveAnswersForUser(ctx context.Context, userID, responseID uuid.UUID, req dto.SaveAnswersRequest) (*dto.ResponseView, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ownResponse(tx, userID, responseID); err != nil {
			return err
		}
		return s.SaveAnswers(ctx, tx, responseID, req.Answers, req.ReplaceAll)
	})
	if err != nil {
		if _, ok := fault.As(err); ok {
			return nil, err
		}
		return nil, pgerr.Map(err, "answers")
	}
	return s.load(ctx, responseID)
}

func ownResponse(tx *gorm.DB, userID, responseID uuid.UUID) (*model.FormResponseModel, error) {
	var resp model.FormResponseModel
	err := tx.First(&resp, "id = ?", responseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.NotFound("form response not found")
	}
	if err != nil {
		return nil, err
	}
	if resp.UserID != userID {
		return nil, fault.Forbidden("this form response belongs to another user")
	}
	return &resp, nil
}

/* =========================================================
   READ
========================================================= */

// Get: boleh dilihat pemilik response atau company pemilik form.
func (s *Service) Get(ctx context.Context, viewerID uuid.UUID, role string, responseID uuid.UUID) (*dto.ResponseView, error) {
	db := s.DB.WithContext(ctx)
	var resp model.FormResponseModel
	err := db.First(&resp, "id = ?", responseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.NotFound("form response not found")
	}
	if err != nil {
		return nil, pgerr.Map(err, "form response")
	}

	allowed := resp.UserID == viewerID
	if !allowed && role == authModel.RoleCompany {
		var n int64
		if err := db.Table("forms").
			Joins("JOIN internships i ON i.id = forms.internship_id").
			Where("forms.id = ? AND i.company_id = ?", resp.FormID, viewerID).
			Count(&n).Error; err != nil {
			return nil, pgerr.Map(err, "form")
		}
		allowed = n > 0
	}
	if !allowed {
		return nil, fault.Forbidden("you cannot view this form response")
	}
	return s.load(ctx, responseID)
}

func (s *Service) load(ctx context.Context, responseID uuid.UUID) (*dto.ResponseView, error) {
	db := s.DB.WithContext(ctx)
	var resp model.FormResponseModel
	if err := db.First(&resp, "id = ?", responseID).Error; err != nil {
		return nil, pgerr.Map(err, "form response")
	}
	var answers []model.ResponseAnswerModel
	if err := db.Where("response_id = ?", responseID).Order("created_at ASC").Find(&answers).Error; err != nil {
		return nil, pgerr.Map(err, "answers")
	}
	v := dto.NewResponseView(resp, answers)
	return &v, nil
}

// AnswersByResponse: dipakai read-side review aplikasi.
func AnswersByResponse(db *gorm.DB, responseIDs []uuid.UUID) (map[uuid.UUID]map[uuid.UUID]model.ResponseAnswerModel, error) {
	out := make(map[uuid.UUID]map[uuid.UUID]model.ResponseAnswerModel, len(responseIDs))
	if len(responseIDs) == 0 {
		return out, nil
	}
	var rows []model.ResponseAnswerModel
	if err := db.Where("response_id IN ?", responseIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, a := range rows {
		if out[a.ResponseID] == nil {
			out[a.ResponseID] = map[uuid.UUID]model.ResponseAnswerModel{}
		}
		out[a.ResponseID][a.QuestionID] = a
	}
	return out, nil
}

/* =========================================================
   FILE ANSWERS
========================================================= */

func (s *Service) UploadAnswerFile(ctx context.Context, userID, responseID, questionID uuid.UUID, fh *multipart.FileHeader) (*dto.FileAnswer, error) {
	if s.Files == nil {
		return nil, fault.Unavailable("file storage is not configured")
	}
	if fh == nil {
		return nil, fault.Validation("file is required")
	}

	db := s.DB.WithContext(ctx)
	resp, err := ownResponse(db, userID, responseID)
	if err != nil {
		if _, ok := fault.As(err); ok {
			return nil, err
		}
		return nil, pgerr.Map(err, "form response")
	}
	if resp.Status == model.StatusSubmitted {
		return nil, fault.Conflict(fault.CodeResponseLocked, "form response already submitted")
	}

	var q formModel.FormQuestionModel
	err = db.Joins("JOIN form_sections fs ON fs.id = form_questions.section_id").
		Where("form_questions.id = ? AND fs.form_id = ?", questionID, resp.FormID).
		First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.Validation("question does not belong to this form")
	}
	if err != nil {
		return nil, pgerr.Map(err, "question")
	}
	if !formModel.IsUploadType(q.Type) {
		return nil, fault.Validation("question does not accept file uploads")
	}

	limit := int64(MaxAnswerFileBytes)
	if q.Type == formModel.TypeVideoUpload {
		limit = MaxAnswerVideoBytes
	}
	if fh.Size > limit {
		return nil, fault.Validation(fmt.Sprintf("file too large (max %d MB)", limit>>20))
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fault.Validation("cannot read uploaded file")
	}
	defer src.Close()
	data, err := helperOSS.ReadAllLimited(src, limit)
	if err != nil {
		return nil, fault.Validation(err.Error())
	}

	ct := helperOSS.SniffContentType(data)
	if q.Type == formModel.TypeVideoUpload && !strings.HasPrefix(ct, "video/") {
		return nil, fault.Validation("video_upload questions only accept video files")
	}

	key := helperOSS.BuildObjectKey("answers/"+responseID.String(), fh.Filename)
	url, err := s.Files.Put(ctx, key, ct, bytes.NewReader(data))
	if err != nil {
		return nil, fault.Upstream("failed to store file", err)
	}

	fa := dto.FileAnswer{URL: url, Name: fh.Filename, Size: int64(len(data)), ContentType: ct}
	raw, err := sonic.Marshal(fa)
	if err != nil {
		return nil, fault.Internal("failed to encode file answer", err)
	}
	err = s.SaveAnswers(ctx, nil, responseID, []dto.AnswerEntry{{QuestionID: questionID, Value: raw}}, false)
	if err != nil {
		if _, ok := fault.As(err); ok {
			return nil, err
		}
		return nil, pgerr.Map(err, "answer")
	}
	return &fa, nil
}
