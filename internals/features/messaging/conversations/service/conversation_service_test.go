package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"internlink_backend/internals/databases/dbtest"
	appModel "internlink_backend/internals/features/applications/applications/model"
	"internlink_backend/internals/features/messaging/conversations/dto"
	"internlink_backend/internals/features/messaging/conversations/model"
	authModel "internlink_backend/internals/features/users/auth/model"
	internModel "internlink_backend/internals/features/users/interns/model"
	"internlink_backend/internals/helpers/fault"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type world struct {
	db        *gorm.DB
	svc       *Service
	companyID uuid.UUID
	internID  uuid.UUID
}

func setup(t *testing.T, status string) world {
	t.Helper()
	db := dbtest.Open(t)
	company := dbtest.CreateCompany(t, db, "Acme")
	intern := dbtest.CreateIntern(t, db, "Ann")
	in := dbtest.CreateInternship(t, db, company.ID, "Robotics")
	app := appModel.ApplicationModel{InternID: intern.ID, InternshipID: in.ID, Status: status}
	if err := db.Create(&app).Error; err != nil {
		t.Fatal(err)
	}
	return world{db: db, svc: New(db), companyID: company.ID, internID: intern.ID}
}

func TestOpenRequiresEligibility(t *testing.T) {
	w := setup(t, appModel.StatusPending)
	_, _, err := w.svc.Open(context.Background(), w.companyID, authModel.RoleCompany, dto.OpenRequest{InternID: &w.internID})
	if !fault.Is(err, fault.KindForbidden) {
		t.Fatalf("pending application must not unlock messaging, got %v", err)
	}

	w.db.Model(&appModel.ApplicationModel{}).Where("intern_id = ?", w.internID).Update("status", appModel.StatusSubmitted)
	conv, created, err := w.svc.Open(context.Background(), w.companyID, authModel.RoleCompany, dto.OpenRequest{InternID: &w.internID})
	if err != nil || !created {
		t.Fatalf("open: %v created=%v", err, created)
	}

	again, created, err := w.svc.Open(context.Background(), w.internID, authModel.RoleIntern, dto.OpenRequest{CompanyID: &w.companyID})
	if err != nil || created || again.ID != conv.ID {
		t.Fatalf("reopen: %v created=%v id=%s", err, created, again.ID)
	}
}

func TestTeamMembershipKeepsEligibility(t *testing.T) {
	w := setup(t, appModel.StatusAccepted)
	// opportunity dihapus: application hilang, team tetap
	w.db.Where("intern_id = ?", w.internID).Delete(&appModel.ApplicationModel{})
	w.db.Model(&internModel.InternProfileModel{}).Where("id = ?", w.internID).
		Updates(map[string]any{"team": "Acme", "team_company_id": w.companyID})

	ok, err := w.svc.Eligible(context.Background(), w.companyID, w.internID)
	if err != nil || !ok {
		t.Fatalf("eligible = %v, %v", ok, err)
	}
}

func TestGetOrCreateIsIdempotentUnderConcurrency(t *testing.T) {
	w := setup(t, appModel.StatusSubmitted)
	var wg sync.WaitGroup
	ids := make([]uuid.UUID, 5)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, _, err := w.svc.GetOrCreateConversation(context.Background(), w.companyID, w.internID)
			if err != nil {
				t.Errorf("get or create: %v", err)
				return
			}
			ids[i] = c.ID
		}(i)
	}
	wg.Wait()
	for _, id := range ids[1:] {
		if id != ids[0] {
			t.Fatalf("different conversations returned: %v", ids)
		}
	}
	var n int64
	w.db.Model(&model.ConversationModel{}).Count(&n)
	if n != 1 {
		t.Fatalf("conversations = %d", n)
	}
}

func TestPostMessageRules(t *testing.T) {
	w := setup(t, appModel.StatusSubmitted)
	ctx := context.Background()
	conv, _, _ := w.svc.GetOrCreateConversation(ctx, w.companyID, w.internID)
	before := conv.UpdatedAt

	if _, err := w.svc.PostMessage(ctx, conv.ID, w.internID, model.SenderIntern, "   "); !fault.Is(err, fault.KindValidation) {
		t.Fatalf("empty content: %v", err)
	}
	if _, err := w.svc.PostMessage(ctx, conv.ID, uuid.New(), model.SenderIntern, "hi"); !fault.Is(err, fault.KindForbidden) {
		t.Fatalf("outsider: %v", err)
	}
	if _, err := w.svc.PostMessage(ctx, conv.ID, w.internID, model.SenderCompany, "hi"); !fault.Is(err, fault.KindForbidden) {
		t.Fatalf("wrong sender type: %v", err)
	}
	if _, err := w.svc.PostMessage(ctx, uuid.New(), w.internID, model.SenderIntern, "hi"); !fault.Is(err, fault.KindNotFound) {
		t.Fatalf("missing conversation: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if _, err := w.svc.PostMessage(ctx, conv.ID, w.internID, model.SenderIntern, "hello"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := w.svc.PostMessageAs(ctx, conv.ID, w.companyID, authModel.RoleCompany, "welcome"); err != nil {
		t.Fatal(err)
	}

	var got model.ConversationModel
	w.db.First(&got, "id = ?", conv.ID)
	if !got.UpdatedAt.After(before) {
		t.Fatalf("updated_at not bumped: %v → %v", before, got.UpdatedAt)
	}

	msgs, err := w.svc.Messages(ctx, conv.ID, w.internID, authModel.RoleIntern)
	if err != nil || len(msgs) != 2 || msgs[0].Content != "hello" || msgs[1].Content != "welcome" {
		t.Fatalf("messages = %+v, %v", msgs, err)
	}
	if _, err := w.svc.Messages(ctx, conv.ID, uuid.New(), authModel.RoleIntern); !fault.Is(err, fault.KindForbidden) {
		t.Fatalf("outsider read: %v", err)
	}

	list, err := w.svc.ListForUser(ctx, w.internID, authModel.RoleIntern)
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %+v, %v", list, err)
	}
	if list[0].LastMessage == nil || list[0].LastMessage.Content != "welcome" || list[0].Counterpart.Name != "Acme" {
		t.Fatalf("enriched = %+v", list[0])
	}
	companyList, _ := w.svc.ListForUser(ctx, w.companyID, authModel.RoleCompany)
	if len(companyList) != 1 || companyList[0].Counterpart.Name != "Ann" {
		t.Fatalf("company list = %+v", companyList)
	}
}
