package application

import (
	"fmt"
	"strings"

	"chatbot/internal/domain"
)

const (
	placeholderBusinessName  = "{businessName}"
	placeholderBusinessEmail = "{businessEmail}"
	placeholderCategories    = "{categories}"
)

// Display names left out of the {categories} listing.
var hiddenCategoryNames = map[string]bool{
	"Default":          true,
	"Standard-Antwort": true,
}

// SmartResponse builds a reply without the language model. The first pattern
// whose keywords occur in message wins; otherwise the matched category's
// context is used, then the default pattern, then a fixed message.
// The result is always non-empty HTML.
func SmartResponse(message, categoryKey string, category *domain.Category, cfg *domain.Configuration) string {
	html, _ := smartResponse(message, categoryKey, category, cfg)
	return html
}

type fallbackTier string

const (
	tierPattern         fallbackTier = "pattern"
	tierCategoryContext fallbackTier = "category-context"
	tierDefaultPattern  fallbackTier = "default-pattern"
	tierHardcoded       fallbackTier = "hardcoded"
)

func smartResponse(message, categoryKey string, category *domain.Category, cfg *domain.Configuration) (string, fallbackTier) {
	name := cfg.Metadata.BusinessName()
	email := cfg.Metadata.BusinessEmail()
	lowered := strings.ToLower(strings.TrimSpace(message))

	var matched *domain.Pattern
	cfg.SmartPatterns.Each(func(key string, p domain.Pattern) bool {
		if key == domain.DefaultKey {
			return true
		}
		if containsAny(lowered, p.Keywords) {
			matched = &p
			return false
		}
		return true
	})
	if matched != nil {
		response := substituteBusiness(matched.Response, name, email)
		if strings.Contains(response, placeholderCategories) {
			response = strings.ReplaceAll(response, placeholderCategories, categoryList(cfg.Categories))
		}
		return FormatAsHTML(response), tierPattern
	}

	if categoryKey != domain.DefaultKey && category != nil && category.Response != "" {
		return FormatAsHTML(categoryContextReply(category, email)), tierCategoryContext
	}

	if def, ok := cfg.SmartPatterns.Get(domain.DefaultKey); ok && def.Response != "" {
		return FormatAsHTML(substituteBusiness(def.Response, name, email)), tierDefaultPattern
	}

	return FormatAsHTML(hardcodedReply(email)), tierHardcoded
}

// containsAny reports whether any non-empty keyword occurs in lowered,
// ignoring case. Keywords are matched literally.
func containsAny(lowered string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func substituteBusiness(template, name, email string) string {
	out := strings.ReplaceAll(template, placeholderBusinessName, name)
	return strings.ReplaceAll(out, placeholderBusinessEmail, email)
}

func categoryList(categories *domain.Categories) string {
	var names []string
	categories.Each(func(_ string, cat domain.Category) bool {
		if cat.Name != "" && !hiddenCategoryNames[cat.Name] {
			names = append(names, cat.Name)
		}
		return true
	})
	return strings.Join(names, ", ")
}

func categoryContextReply(category *domain.Category, email string) string {
	return fmt.Sprintf(`🤔 Deine Frage ist sehr interessant!
Zum Thema "%s" kann ich dir folgendes sagen:

%s

❓ Hast du noch weitere Fragen?
📧 Wir helfen gerne unter %s!`, category.Name, category.Response, email)
}

func hardcodedReply(email string) string {
	return fmt.Sprintf(`💡 Danke für deine Frage!
Kontakt: %s
📞 Unser Team freut sich auf dich!`, email)
}
