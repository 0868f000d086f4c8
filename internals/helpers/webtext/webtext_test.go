package webtext

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNormalizeURL(t *testing.T) {
	cases := map[string]string{
		"acme.io":               "https://acme.io",
		" http://acme.io/about": "http://acme.io/about",
	}
	for in, want := range cases {
		got, err := NormalizeURL(in)
		if err != nil || got != want {
			t.Errorf("NormalizeURL(%q) = %q, %v", in, got, err)
		}
	}
	for _, bad := range []string{"", "ftp://acme.io", "https://"} {
		if _, err := NormalizeURL(bad); err == nil {
			t.Errorf("NormalizeURL(%q) should fail", bad)
		}
	}
}

func TestHTMLToTextWithoutTidy(t *testing.T) {
	page := `<!doctype html><html><head><title>x</title><style>h1{color:red}</style></head>
<body><h1>Acme Robotics</h1><p>We build<br>warehouse robots &amp; drones.</p>
<script>var a = "<p>hidden</p>";</script><ul><li>Jakarta<li>Bandung</ul></body></html>`

	text, err := HTMLToText([]byte(page), 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Acme Robotics", "warehouse robots & drones.", "Jakarta", "Bandung"} {
		if !strings.Contains(text, want) {
			t.Errorf("text %q missing %q", text, want)
		}
	}
	for _, junk := range []string{"hidden", "color:red", "<"} {
		if strings.Contains(text, junk) {
			t.Errorf("text %q still contains %q", text, junk)
		}
	}

	short, _ := HTMLToText([]byte(page), 5)
	if short != "Acme " && short != "Acme" {
		t.Errorf("truncated = %q", short)
	}
	if _, err := HTMLToText([]byte("  "), 0); err == nil {
		t.Error("empty document should fail")
	}
}

func TestFetcherReturnsPlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, `<html><body><h1>Acme   Robotics</h1><p>We build
			warehouse robots.</p></body></html>`)
	}))
	defer srv.Close()

	f := NewFetcher(2 * time.Second)
	text, err := f.Text(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "Acme Robotics") || !strings.Contains(text, "warehouse robots") {
		t.Fatalf("text = %q", text)
	}
	if strings.Contains(text, "<") || strings.Contains(text, "\n") {
		t.Fatalf("markup or newlines left in %q", text)
	}
}

func TestFetcherRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	if _, err := NewFetcher(time.Second).Text(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404")
	}
}
