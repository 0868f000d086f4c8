package service

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"internlink_backend/internals/features/interview/voice/dto"
)

// frasa dua kata dicek lebih dulu agar "you know" tidak dihitung ganda
var fillerPhrases = []string{"you know", "i mean", "kind of", "sort of"}

var fillerWords = map[string]bool{
	"um": true, "umm": true, "uh": true, "uhh": true, "er": true, "ah": true,
	"like": true, "basically": true, "actually": true, "literally": true, "so": true,
}

func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func WordCount(text string) int { return len(words(text)) }

func AnalyzeFillers(text string) dto.FillerWords {
	ws := words(text)
	out := dto.FillerWords{Found: []string{}}
	if len(ws) == 0 {
		return out
	}

	seen := map[string]bool{}
	for i := 0; i < len(ws); i++ {
		if i+1 < len(ws) {
			pair := ws[i] + " " + ws[i+1]
			if contains(fillerPhrases, pair) {
				out.Count++
				seen[pair] = true
				i++
				continue
			}
		}
		if fillerWords[ws[i]] {
			out.Count++
			seen[ws[i]] = true
		}
	}
	for f := range seen {
		out.Found = append(out.Found, f)
	}
	sort.Strings(out.Found)
	out.Percentage = math.Round(float64(out.Count)/float64(len(ws))*1000) / 10
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

const (
	slowWPM = 110
	fastWPM = 160
)

// AnalyzePace: nil kalau durasi tidak diketahui.
func AnalyzePace(wordCount int, durationSeconds float64) *dto.VoiceAnalysis {
	if durationSeconds <= 0 || wordCount == 0 {
		return nil
	}
	wpm := math.Round(float64(wordCount)/(durationSeconds/60)*10) / 10
	pace := "good"
	switch {
	case wpm < slowWPM:
		pace = "slow"
	case wpm > fastWPM:
		pace = "fast"
	}
	return &dto.VoiceAnalysis{WordsPerMinute: wpm, Pace: pace}
}
