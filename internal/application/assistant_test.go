package application_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatbot/internal/application"
	"chatbot/internal/domain"
)

type mockGenerator struct {
	reply   string
	err     error
	block   bool
	prompts []domain.Prompt
}

func (m *mockGenerator) Generate(ctx context.Context, prompt domain.Prompt) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.reply, m.err
}

func (m *mockGenerator) Model() string { return "llama-test" }

func newAssistant(t *testing.T, gen application.TextGenerator, opts application.AssistantOptions) *application.Assistant {
	t.Helper()
	svc := application.NewConfigService(&memStore{cfg: shopConfig()}, nil, discardLogger())
	require.NoError(t, svc.Load(context.Background()))
	return application.NewAssistant(svc, gen, opts, discardLogger())
}

func TestAssistant_AIPowered(t *testing.T) {
	gen := &mockGenerator{reply: "Gerne! **Websites** bauen wir ab sofort.\n- schnell\n- schön"}
	a := newAssistant(t, gen, application.DefaultAssistantOptions())

	reply, err := a.Reply(context.Background(), "Ich brauche eine neue Website")
	require.NoError(t, err)

	assert.Equal(t, domain.ModeAIPowered, reply.Mode)
	assert.Equal(t, "webdesign", reply.Category)
	assert.Equal(t, "llama-test", reply.Model)
	assert.Equal(t, "<p>Gerne! <strong>Websites</strong> bauen wir ab sofort.</p><ul><li>schnell</li><li>schön</li></ul>", reply.HTML)
	assert.Equal(t, []string{"Wie lange dauert ein Projekt?"}, reply.Suggestions)
	assert.NotEmpty(t, reply.ID)

	require.Len(t, gen.prompts, 1)
	p := gen.prompts[0]
	assert.Equal(t, "Ich brauche eine neue Website", p.User)
	assert.Contains(t, p.System, "Pixelwerk")
	assert.Contains(t, p.System, "hallo@pixelwerk.de")
	assert.Contains(t, p.System, "Wir gestalten moderne Websites.")
	assert.InDelta(t, 0.7, p.Temperature, 1e-9)
	assert.Equal(t, 500, p.MaxTokens)
}

func TestAssistant_DefaultContextWhenCategoryHasNoResponse(t *testing.T) {
	gen := &mockGenerator{reply: "ok"}
	a := newAssistant(t, gen, application.DefaultAssistantOptions())

	_, err := a.Reply(context.Background(), "Wie ist das Wetter?")
	require.NoError(t, err)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0].System, "Wir sind eine Webagentur.")
}

func TestAssistant_FallbackOnGeneratorError(t *testing.T) {
	gen := &mockGenerator{err: errors.New("connection refused")}
	a := newAssistant(t, gen, application.DefaultAssistantOptions())

	reply, err := a.Reply(context.Background(), "Was kostet SEO?")
	require.NoError(t, err)

	assert.Equal(t, domain.ModeSmartFallback, reply.Mode)
	assert.Equal(t, "seo", reply.Category)
	assert.Empty(t, reply.Model)
	assert.Contains(t, reply.HTML, "Wir optimieren dein Ranking.")
	assert.Equal(t, []string{"Was kostet eine Website?"}, reply.Suggestions, "seo has no followUp, default's is used")
	assert.Len(t, gen.prompts, 1, "no retries")
}

func TestAssistant_FallbackOnEmptyCompletion(t *testing.T) {
	a := newAssistant(t, &mockGenerator{reply: "   "}, application.DefaultAssistantOptions())

	reply, err := a.Reply(context.Background(), "hallo")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeSmartFallback, reply.Mode)
	assert.Equal(t, "<p>Hallo! Willkommen bei Pixelwerk.</p>", reply.HTML)
}

func TestAssistant_FallbackOnTimeout(t *testing.T) {
	opts := application.DefaultAssistantOptions()
	opts.Timeout = 20 * time.Millisecond
	a := newAssistant(t, &mockGenerator{block: true}, opts)

	start := time.Now()
	reply, err := a.Reply(context.Background(), "website bitte")
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, domain.ModeSmartFallback, reply.Mode)
	assert.Equal(t, "webdesign", reply.Category)
	assert.NotEmpty(t, strings.TrimSpace(reply.HTML))
}

func TestAssistant_WithoutGenerator(t *testing.T) {
	a := newAssistant(t, nil, application.AssistantOptions{})

	reply, err := a.Reply(context.Background(), "Wie ist das Wetter?")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeSmartFallback, reply.Mode)
	assert.Equal(t, "default", reply.Category)
}

func TestAssistant_EmptyMessage(t *testing.T) {
	gen := &mockGenerator{reply: "never"}
	a := newAssistant(t, gen, application.DefaultAssistantOptions())

	for _, msg := range []string{"", "   \n"} {
		_, err := a.Reply(context.Background(), msg)
		assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	}
	assert.Empty(t, gen.prompts)
}

func TestAssistant_InfoLogOmitsCustomerMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	svc := application.NewConfigService(&memStore{cfg: shopConfig()}, nil, discardLogger())
	require.NoError(t, svc.Load(context.Background()))
	a := application.NewAssistant(svc, nil, application.AssistantOptions{}, logger)

	_, err := a.Reply(context.Background(), "Meine Kundennummer ist 4711, bitte SEO")
	require.NoError(t, err)

	logs := buf.String()
	assert.Contains(t, logs, "matched category")
	assert.Contains(t, logs, "category=seo")
	assert.NotContains(t, logs, "Kundennummer")
}
