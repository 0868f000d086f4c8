package llm

import (
	"errors"
	"strings"

	"github.com/bytedance/sonic"
)

var ErrNoJSON = errors.New("model output contains no JSON")

// ExtractJSON membuang code fence / teks pengantar dan mengembalikan
// objek atau array JSON pertama yang utuh.
func ExtractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		}
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", ErrNoJSON
	}
	open, closer := s[start], byte('}')
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSON
}

// Decode: ExtractJSON + sonic.Unmarshal.
func Decode(raw string, dst any) error {
	js, err := ExtractJSON(raw)
	if err != nil {
		return err
	}
	return sonic.UnmarshalString(js, dst)
}
