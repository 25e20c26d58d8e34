package application

import (
	"strings"

	"chatbot/internal/domain"
)

const (
	substringScore = 1.0
	wholeWordBonus = 0.5
)

// CategoryMatch is the result of scoring a message against the categories.
type CategoryMatch struct {
	Key   string
	Score float64
}

// BestCategory returns the key of the category whose keywords best match
// message, or domain.DefaultKey when nothing scores.
func BestCategory(message string, categories *domain.Categories) string {
	return MatchCategory(message, categories).Key
}

// MatchCategory scores every non-default category in declaration order. Each
// keyword found as a substring scores 1, plus 0.5 when it also stands as a
// whole word. Only a strictly higher score replaces the current best, so ties
// go to the category declared first.
func MatchCategory(message string, categories *domain.Categories) CategoryMatch {
	normalized := strings.ToLower(strings.TrimSpace(message))
	best := CategoryMatch{Key: domain.DefaultKey}

	categories.Each(func(key string, cat domain.Category) bool {
		if key == domain.DefaultKey {
			return true
		}
		score := scoreKeywords(normalized, cat.Keywords)
		if score > best.Score {
			best = CategoryMatch{Key: key, Score: score}
		}
		return true
	})

	return best
}

func scoreKeywords(normalized string, keywords []string) float64 {
	var score float64
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" || !strings.Contains(normalized, kw) {
			continue
		}
		score += substringScore
		if containsWord(normalized, kw) {
			score += wholeWordBonus
		}
	}
	return score
}

// containsWord reports whether keyword occurs in s with a word boundary on
// both ends, using the ASCII notion of word characters like regexp's \b.
func containsWord(s, keyword string) bool {
	first, last := isWordByte(keyword[0]), isWordByte(keyword[len(keyword)-1])
	for offset := 0; offset <= len(s)-len(keyword); {
		i := strings.Index(s[offset:], keyword)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(keyword)

		before := start > 0 && isWordByte(s[start-1])
		after := end < len(s) && isWordByte(s[end])
		if before != first && after != last {
			return true
		}
		offset = start + 1
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' || '0' <= b && b <= '9' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}
