package domain

import "time"

// DefaultKey names the fallback entry in both the category and the pattern
// mappings. It is never scored or matched itself.
const DefaultKey = "default"

const (
	DefaultBusinessName  = "Webdesign & Development"
	DefaultBusinessEmail = "info@example.com"
)

type Category struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Response string   `json:"response"`
	FollowUp []string `json:"followUp"`
}

type Pattern struct {
	Keywords []string `json:"keywords"`
	Response string   `json:"response"`
}

type (
	Categories = OrderedMap[Category]
	Patterns   = OrderedMap[Pattern]
)

// Metadata holds free-form business attributes. Admin updates merge into it
// key by key.
type Metadata map[string]any

func (m Metadata) String(key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func (m Metadata) BusinessName() string {
	if name := m.String("businessName"); name != "" {
		return name
	}
	return DefaultBusinessName
}

func (m Metadata) BusinessEmail() string {
	if email := m.String("businessEmail"); email != "" {
		return email
	}
	return DefaultBusinessEmail
}

// Merge returns a new Metadata with patch applied on top of m.
func (m Metadata) Merge(patch Metadata) Metadata {
	out := make(Metadata, len(m)+len(patch))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// Configuration is one immutable snapshot of the chatbot content. Updates
// build a new value instead of mutating a published one.
type Configuration struct {
	Metadata      Metadata    `json:"metadata"`
	Categories    *Categories `json:"categories"`
	SmartPatterns *Patterns   `json:"smartPatterns,omitempty"`
}

func NewConfiguration() *Configuration {
	return &Configuration{
		Metadata:      Metadata{},
		Categories:    NewOrderedMap[Category](),
		SmartPatterns: NewOrderedMap[Pattern](),
	}
}

// Normalize fills nil collections and substitutes an empty default category
// when the document lacks one. It reports whether the default was missing.
func (c *Configuration) Normalize() (missingDefault bool) {
	if c.Metadata == nil {
		c.Metadata = Metadata{}
	}
	if c.Categories == nil {
		c.Categories = NewOrderedMap[Category]()
	}
	if c.SmartPatterns == nil {
		c.SmartPatterns = NewOrderedMap[Pattern]()
	}
	if !c.Categories.Has(DefaultKey) {
		c.Categories.Set(DefaultKey, Category{Name: "Default"})
		return true
	}
	return false
}

func (c *Configuration) DefaultCategory() Category {
	cat, _ := c.Categories.Get(DefaultKey)
	return cat
}

type ReplyMode string

const (
	ModeAIPowered     ReplyMode = "ai-powered"
	ModeSmartFallback ReplyMode = "smart-fallback"
)

// Reply is what the chat endpoint returns for one message.
type Reply struct {
	ID          string    `json:"id"`
	HTML        string    `json:"reply"`
	Timestamp   time.Time `json:"timestamp"`
	Mode        ReplyMode `json:"mode"`
	Model       string    `json:"model,omitempty"`
	Version     string    `json:"version"`
	Category    string    `json:"category"`
	Suggestions []string  `json:"suggestions"`
}

// Prompt is the request handed to a text generator.
type Prompt struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}
