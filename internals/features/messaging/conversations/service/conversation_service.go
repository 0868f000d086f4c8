package service

import (
	"context"
	"errors"
	"strings"
	"time"

	appModel "internlink_backend/internals/features/applications/applications/model"
	"internlink_backend/internals/features/messaging/conversations/dto"
	"internlink_backend/internals/features/messaging/conversations/model"
	internshipModel "internlink_backend/internals/features/opportunities/internships/model"
	authModel "internlink_backend/internals/features/users/auth/model"
	companyModel "internlink_backend/internals/features/users/companies/model"
	internModel "internlink_backend/internals/features/users/interns/model"
	"internlink_backend/internals/helpers/fault"
	"internlink_backend/internals/helpers/pgerr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{DB: db} }

/* =========================================================
   ELIGIBILITY
========================================================= */

// Eligible: intern punya application non-pending ke internship milik
// company, atau sudah tercatat di team company (bertahan setelah
// opportunity dihapus).
func (s *Service) Eligible(ctx context.Context, companyID, internID uuid.UUID) (bool, error) {
	db := s.DB.WithContext(ctx)

	var onTeam int64
	if err := db.Model(&internModel.InternProfileModel{}).
		Where("id = ? AND team_company_id = ?", internID, companyID).
		Count(&onTeam).Error; err != nil {
		return false, pgerr.Map(err, "intern profile")
	}
	if onTeam > 0 {
		return true, nil
	}

	var apps int64
	err := db.Model(&appModel.ApplicationModel{}).
		Joins("JOIN "+internshipModel.InternshipModel{}.TableName()+" i ON i.id = applications.internship_id").
		Where("applications.intern_id = ? AND i.company_id = ? AND applications.status <> ?", internID, companyID, appModel.StatusPending).
		Count(&apps).Error
	if err != nil {
		return false, pgerr.Map(err, "applications")
	}
	return apps > 0, nil
}

// Open: lapisan pemanggil; cek role + eligibility lalu get-or-create.
func (s *Service) Open(ctx context.Context, callerID uuid.UUID, role string, req dto.OpenRequest) (*model.ConversationModel, bool, error) {
	var companyID, internID uuid.UUID
	switch role {
	case authModel.RoleCompany:
		if req.InternID == nil {
			return nil, false, fault.Validation("intern_id is required")
		}
		companyID, internID = callerID, *req.InternID
	case authModel.RoleIntern:
		if req.CompanyID == nil {
			return nil, false, fault.Validation("company_id is required")
		}
		companyID, internID = *req.CompanyID, callerID
	default:
		return nil, false, fault.Forbidden("unsupported role")
	}

	ok, err := s.Eligible(ctx, companyID, internID)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, fault.Forbidden("messaging is available after an application has been submitted or accepted")
	}
	return s.GetOrCreateConversation(ctx, companyID, internID)
}

/* =========================================================
   GET OR CREATE
========================================================= */

func (s *Service) GetOrCreateConversation(ctx context.Context, companyID, internID uuid.UUID) (*model.ConversationModel, bool, error) {
	var row model.ConversationModel
	err := s.DB.WithContext(ctx).
		Where("company_id = ? AND intern_id = ?", companyID, internID).
		First(&row).Error
	if err == nil {
		return &row, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, pgerr.Map(err, "conversation")
	}

	row = model.ConversationModel{CompanyID: companyID, InternID: internID}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		if !pgerr.IsUniqueViolation(err) {
			return nil, false, pgerr.Map(err, "conversation")
		}
		// balapan: pasangan sudah dibuat request lain
		var existing model.ConversationModel
		if err := s.DB.WithContext(ctx).
			Where("company_id = ? AND intern_id = ?", companyID, internID).
			First(&existing).Error; err != nil {
			return nil, false, pgerr.Map(err, "conversation")
		}
		return &existing, false, nil
	}
	return &row, true, nil
}

/* =========================================================
   MESSAGES
========================================================= */

func isParticipant(c *model.ConversationModel, userID uuid.UUID, senderType string) bool {
	switch senderType {
	case model.SenderCompany:
		return c.CompanyID == userID
	case model.SenderIntern:
		return c.InternID == userID
	}
	return false
}

func (s *Service) load(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.ConversationModel, error) {
	var c model.ConversationModel
	err := db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.NotFound("conversation not found")
	}
	if err != nil {
		return nil, pgerr.Map(err, "conversation")
	}
	return &c, nil
}

// PostMessage: insert pesan + bump updated_at dalam satu transaksi.
func (s *Service) PostMessage(ctx context.Context, conversationID, senderID uuid.UUID, senderType, content string) (*model.MessageModel, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fault.Validation("message content is required")
	}

	var msg model.MessageModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conv, err := s.load(ctx, tx, conversationID)
		if err != nil {
			return err
		}
		if !isParticipant(conv, senderID, senderType) {
			return fault.Forbidden("you are not a participant of this conversation")
		}

		msg = model.MessageModel{
			ConversationID: conversationID,
			SenderID:       senderID,
			SenderType:     senderType,
			Content:        content,
		}
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.ConversationModel{}).
			Where("id = ?", conversationID).
			Update("updated_at", time.Now().UTC()).Error
	})
	if err != nil {
		return nil, pgerr.Map(err, "message")
	}
	return &msg, nil
}

func senderTypeOf(role string) string {
	if role == authModel.RoleCompany {
		return model.SenderCompany
	}
	return model.SenderIntern
}

func (s *Service) PostMessageAs(ctx context.Context, conversationID, userID uuid.UUID, role, content string) (*model.MessageModel, error) {
	return s.PostMessage(ctx, conversationID, userID, senderTypeOf(role), content)
}

// Messages: urut naik berdasarkan created_at.
func (s *Service) Messages(ctx context.Context, conversationID, userID uuid.UUID, role string) ([]dto.MessageView, error) {
	conv, err := s.load(ctx, s.DB, conversationID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(conv, userID, senderTypeOf(role)) {
		return nil, fault.Forbidden("you are not a participant of this conversation")
	}
	var rows []model.MessageModel
	if err := s.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, pgerr.Map(err, "messages")
	}
	out := make([]dto.MessageView, 0, len(rows))
	for _, m := range rows {
		out = append(out, dto.FromMessage(m))
	}
	return out, nil
}

/* =========================================================
   LIST
========================================================= */

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, role string) ([]dto.ConversationView, error) {
	col := "intern_id"
	if role == authModel.RoleCompany {
		col = "company_id"
	}
	var convs []model.ConversationModel
	if err := s.DB.WithContext(ctx).
		Where(col+" = ?", userID).
		Order("updated_at DESC").
		Find(&convs).Error; err != nil {
		return nil, pgerr.Map(err, "conversations")
	}

	names, err := s.counterparts(ctx, convs, role)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ConversationView, 0, len(convs))
	for _, c := range convs {
		v := dto.FromConversation(c)
		other := c.CompanyID
		if role == authModel.RoleCompany {
			other = c.InternID
		}
		v.Counterpart = names[other]
		v.Counterpart.ID = other

		var last model.MessageModel
		err := s.DB.WithContext(ctx).
			Where("conversation_id = ?", c.ID).
			Order("created_at DESC, id DESC").
			Limit(1).
			Find(&last).Error
		if err != nil {
			return nil, pgerr.Map(err, "messages")
		}
		if last.ID != uuid.Nil {
			mv := dto.FromMessage(last)
			v.LastMessage = &mv
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Service) counterparts(ctx context.Context, convs []model.ConversationModel, role string) (map[uuid.UUID]dto.Counterpart, error) {
	out := map[uuid.UUID]dto.Counterpart{}
	if len(convs) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(convs))
	for _, c := range convs {
		if role == authModel.RoleCompany {
			ids = append(ids, c.InternID)
		} else {
			ids = append(ids, c.CompanyID)
		}
	}

	if role == authModel.RoleCompany {
		var rows []internModel.InternProfileModel
		if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return nil, pgerr.Map(err, "intern profiles")
		}
		for _, r := range rows {
			out[r.ID] = dto.Counterpart{ID: r.ID, Name: r.FullName}
		}
		return out, nil
	}

	var rows []companyModel.CompanyModel
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, pgerr.Map(err, "companies")
	}
	for _, r := range rows {
		cp := dto.Counterpart{ID: r.ID, Name: r.Name}
		if r.LogoURL != nil {
			cp.LogoURL = *r.LogoURL
		}
		out[r.ID] = cp
	}
	return out, nil
}
