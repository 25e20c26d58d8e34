package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatbot/internal/domain"
)

func TestConfigurationKeepsDeclarationOrder(t *testing.T) {
	doc := `{
		"metadata": {"businessName": "Pixelwerk"},
		"categories": {
			"zeta":    {"name": "Zeta", "keywords": ["z"]},
			"default": {"name": "Default", "response": "Hallo"},
			"alpha":   {"name": "Alpha", "keywords": ["a"], "followUp": ["Mehr?"]}
		},
		"smartPatterns": {
			"second": {"keywords": ["b"], "response": "B"},
			"first":  {"keywords": ["a"], "response": "A"}
		}
	}`

	var cfg domain.Configuration
	require.NoError(t, json.Unmarshal([]byte(doc), &cfg))

	assert.Equal(t, []string{"zeta", "default", "alpha"}, cfg.Categories.Keys())
	assert.Equal(t, []string{"second", "first"}, cfg.SmartPatterns.Keys())

	alpha, ok := cfg.Categories.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"Mehr?"}, alpha.FollowUp)

	out, err := json.Marshal(&cfg)
	require.NoError(t, err)

	var again domain.Configuration
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, cfg.Categories.Keys(), again.Categories.Keys())
	assert.Equal(t, cfg.SmartPatterns.Keys(), again.SmartPatterns.Keys())
}

func TestOrderedMap_SetKeepsPosition(t *testing.T) {
	m := domain.NewOrderedMap[int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 3)

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, _ := m.Get("a")
	assert.Equal(t, 3, v)

	clone := m.Clone()
	clone.Set("c", 4)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 3, clone.Len())
}

func TestOrderedMap_RejectsNonObject(t *testing.T) {
	var m domain.OrderedMap[domain.Category]
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &m))
}

func TestConfigurationNormalize(t *testing.T) {
	var cfg domain.Configuration
	require.NoError(t, json.Unmarshal([]byte(`{"categories": {"seo": {"name": "SEO"}}}`), &cfg))

	assert.True(t, cfg.Normalize())
	assert.Equal(t, []string{"seo", "default"}, cfg.Categories.Keys())
	assert.NotNil(t, cfg.SmartPatterns)
	assert.False(t, cfg.Normalize())
}

func TestMetadataMerge(t *testing.T) {
	base := domain.Metadata{"businessName": "A", "businessEmail": "a@example.com"}
	merged := base.Merge(domain.Metadata{"businessName": "B"})

	assert.Equal(t, "B", merged.BusinessName())
	assert.Equal(t, "a@example.com", merged.BusinessEmail())
	assert.Equal(t, "A", base.BusinessName())
	assert.Equal(t, domain.DefaultBusinessName, domain.Metadata{}.BusinessName())
}
