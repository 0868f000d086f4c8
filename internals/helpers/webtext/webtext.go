package webtext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"code.sajari.com/docconv"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
)

const (
	DefaultMaxChars = 6000
	maxBodyBytes    = 2 << 20
)

var ErrUnsupportedURL = errors.New("website url must be http or https")

// Fetcher mengambil halaman web dan mengubahnya jadi teks polos untuk prompt.
type Fetcher struct {
	http     *resty.Client
	MaxChars int
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rc := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("User-Agent", "InternLinkBot/1.0 (+company profile import)").
		SetHeader("Accept", "text/html,application/xhtml+xml")
	return &Fetcher{http: rc, MaxChars: DefaultMaxChars}
}

// NormalizeURL menambahkan https:// bila skema kosong.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrUnsupportedURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", ErrUnsupportedURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrUnsupportedURL
	}
	return u.String(), nil
}

func (f *Fetcher) Text(ctx context.Context, rawURL string) (string, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return "", err
	}
	resp, err := f.http.R().SetContext(ctx).Get(target)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", target, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("fetch %s: status %d", target, resp.StatusCode())
	}
	body := resp.Body()
	if len(body) > maxBodyBytes {
		body = body[:maxBodyBytes]
	}
	return HTMLToText(body, f.MaxChars)
}

// blok yang tidak pernah berisi teks halaman
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"svg": true, "iframe": true, "head": true,
}

// baris baru untuk elemen blok
var blockTags = map[string]bool{
	"p": true, "br": true, "div": true, "li": true, "tr": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// cleanMarkup mengubah HTML bebas jadi markup seimbang yang aman untuk
// docconv.HTMLToText (tanpa binary tidy).
func cleanMarkup(r io.Reader) []byte {
	var out bytes.Buffer
	out.WriteString("<body>")
	z := html.NewTokenizer(r)
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			out.WriteString("</body>")
			return out.Bytes()
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skipTags[tag] && tt == html.StartTagToken {
				skip++
				continue
			}
			if skip == 0 && blockTags[tag] {
				out.WriteString("<br/>")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if skipTags[string(name)] && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				out.WriteString(html.EscapeString(string(z.Text())))
			}
		}
	}
}

// HTMLToText: markup dibersihkan, docconv mengekstrak teks, lalu
// whitespace dirapikan & dipotong.
func HTMLToText(raw []byte, maxChars int) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", errors.New("convert html: empty document")
	}
	text := docconv.HTMLToText(bytes.NewReader(cleanMarkup(bytes.NewReader(raw))))
	text = strings.Join(strings.Fields(text), " ")
	if maxChars > 0 && utf8.RuneCountInString(text) > maxChars {
		r := []rune(text)
		text = string(r[:maxChars])
	}
	return text, nil
}
