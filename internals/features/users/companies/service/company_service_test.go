package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"internlink_backend/internals/databases/dbtest"
	"internlink_backend/internals/features/users/companies/dto"
	"internlink_backend/internals/helpers/fault"

	"github.com/google/uuid"
)

type memStore struct {
	objs map[string][]byte
	ct   string
}

func (m *memStore) Put(_ context.Context, key, contentType string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.objs[key] = b
	m.ct = contentType
	return "https://cdn.test/" + key, nil
}

func strp(s string) *string { return &s }

func TestUpdateCompanyPartial(t *testing.T) {
	db := dbtest.Open(t)
	c := dbtest.CreateCompany(t, db, "Acme")
	svc := New(db, nil)
	ctx := context.Background()

	m, err := svc.Update(ctx, c.ID, dto.UpdateCompanyRequest{Website: strp("acme.io"), TeamLabel: strp("Acme Robotics")})
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "Acme" || *m.Website != "acme.io" || m.Team() != "Acme Robotics" {
		t.Fatalf("after update: %+v", m)
	}

	m, err = svc.Update(ctx, c.ID, dto.UpdateCompanyRequest{Website: strp("  "), Name: strp("")})
	if err != nil {
		t.Fatal(err)
	}
	if m.Website != nil || m.Name != "Acme" {
		t.Fatalf("blank website should clear, blank name ignored: %+v", m)
	}

	if _, err := svc.Update(ctx, uuid.New(), dto.UpdateCompanyRequest{}); !fault.Is(err, fault.KindNotFound) {
		t.Fatalf("unknown company: %v", err)
	}
}

func TestUploadLogo(t *testing.T) {
	db := dbtest.Open(t)
	c := dbtest.CreateCompany(t, db, "Acme")
	ctx := context.Background()

	if _, err := New(db, nil).UploadLogo(ctx, c.ID, []byte("x")); !fault.Is(err, fault.KindUnavailable) {
		t.Fatalf("no storage: %v", err)
	}

	store := &memStore{objs: map[string][]byte{}}
	svc := New(db, store)
	if _, err := svc.UploadLogo(ctx, c.ID, []byte("definitely not an image")); !fault.Is(err, fault.KindValidation) {
		t.Fatalf("non-image: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for x := 0; x < 64; x++ {
		img.Set(x, x, color.RGBA{200, 10, 10, 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	out, err := svc.UploadLogo(ctx, c.ID, buf.Bytes())
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(out.LogoURL, "https://cdn.test/logos/"+c.ID.String()+"/") || store.ct != "image/webp" {
		t.Fatalf("out = %+v ct=%s", out, store.ct)
	}
	m, _ := svc.Get(ctx, c.ID)
	if m.LogoURL == nil || *m.LogoURL != out.LogoURL {
		t.Fatalf("logo_url not saved: %v", m.LogoURL)
	}
}
