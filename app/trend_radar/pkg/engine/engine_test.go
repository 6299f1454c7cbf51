package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/config"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/llm"
	dm "github.com/iWorld-y/trend_radar/app/trend_radar/pkg/model"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/prompt"
)

// mockChatModel 按顺序返回预设回复，并记录每次调用的提示词和选项
type mockChatModel struct {
	replies   []string
	citations []llm.Citation
	err       error

	prompts []string
	models  []string
	search  []bool
	domains [][]string
}

func (m *mockChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.prompts = append(m.prompts, input[len(input)-1].Content)
	common := model.GetCommonOptions(&model.Options{}, opts...)
	name := ""
	if common.Model != nil {
		name = *common.Model
	}
	m.models = append(m.models, name)
	o := llm.GetOptions(opts...)
	m.search = append(m.search, o.WebSearch)
	m.domains = append(m.domains, o.SearchDomains)

	if m.err != nil {
		return nil, m.err
	}
	reply := ""
	if len(m.replies) > 0 {
		reply = m.replies[0]
		m.replies = m.replies[1:]
	}
	msg := schema.AssistantMessage(reply, nil)
	llm.SetCitations(msg, m.citations)
	return msg, nil
}

func (m *mockChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func newTestEngine(t *testing.T, cm *mockChatModel) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.LLM.APIKey = "test-key"
	prompts, err := prompt.Default()
	require.NoError(t, err)
	return New(cfg, cm, prompts)
}

const predictionsJSON = "Berikut prediksi saya:\n```json\n" + `[
  {"themeName": "Edisi Film Jumbo", "targetAgeGroup": "6-10 Tahun", "colorPalette": ["Biru", "Kuning"], "visualElements": ["Karakter Jumbo"], "reasoning": "Film Jumbo tayang", "estimatedDemand": 95},
  {"themeName": "Robot Galaxy", "targetAgeGroup": "3-5 Tahun", "colorPalette": ["Hitam"], "visualElements": ["Robot"], "reasoning": "Musim hujan", "estimatedDemand": 140},
  {"themeName": "Dino Ceria", "targetAgeGroup": "3-5 Tahun", "colorPalette": ["Hijau"], "visualElements": ["Dinosaurus"], "reasoning": "Libur sekolah", "estimatedDemand": -5}
]` + "\n```"

func TestMonthlyPredictions_OktoberFilmJumbo(t *testing.T) {
	cm := &mockChatModel{replies: []string{predictionsJSON}}
	e := newTestEngine(t, cm)

	got, err := e.MonthlyPredictions(context.Background(), 10, 2025, "Film Jumbo")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, p := range got {
		assert.GreaterOrEqual(t, p.EstimatedDemand, 0.0)
		assert.LessOrEqual(t, p.EstimatedDemand, 100.0)
	}
	assert.Equal(t, "Edisi Film Jumbo", got[0].ThemeName)
	assert.Equal(t, 95.0, got[0].EstimatedDemand)
	assert.Equal(t, 100.0, got[1].EstimatedDemand)
	assert.Equal(t, 0.0, got[2].EstimatedDemand)

	require.Len(t, cm.prompts, 1)
	assert.Contains(t, cm.prompts[0], "Oktober 2025")
	assert.Contains(t, cm.prompts[0], `"Film Jumbo"`)
	assert.Equal(t, "gemini-3-pro-preview", cm.models[0])
	assert.True(t, cm.search[0])
}

func TestMonthlyPredictions_ParseFailureThenRecovery(t *testing.T) {
	cm := &mockChatModel{replies: []string{"```json\n[{\"themeName\": \n```", predictionsJSON}}
	e := newTestEngine(t, cm)

	got, err := e.MonthlyPredictions(context.Background(), 10, 2025, "")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = e.MonthlyPredictions(context.Background(), 10, 2025, "")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestMonthlyPredictions_InvalidMonth(t *testing.T) {
	cm := &mockChatModel{}
	e := newTestEngine(t, cm)

	_, err := e.MonthlyPredictions(context.Background(), 13, 2025, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, cm.prompts)
}

func TestCalendarEvents(t *testing.T) {
	cm := &mockChatModel{
		replies: []string{
			`[{"title": "Libur Natal", "date": "Desember 2025", "type": "Holiday", "impact": "High", "description": "Belanja baju baru"},
			  {"title": "Update Roblox", "date": "November 2025", "type": "Game", "impact": "Medium", "description": "Karakter baru"}]`,
			"Maaf, tidak ada data.",
			"```json\n[{\"title\": \"Jumbo\", \"date\": \"Maret 2026\", \"type\": \"Movie\", \"impact\": \"High\", \"description\": \"Film lokal\"}]\n```",
		},
		citations: []llm.Citation{{Title: "Kalender", URI: "https://kalender.id"}},
	}
	e := newTestEngine(t, cm)

	res, err := e.CalendarEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Events, 2)
	assert.Equal(t, dm.EventHoliday, res.Events[0].Type)
	assert.Equal(t, dm.ImpactMedium, res.Events[1].Impact)
	assert.Equal(t, []dm.Source{{Title: "Kalender", URI: "https://kalender.id"}}, res.Sources)

	res, err = e.CalendarEvents(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, res.Events)
	assert.Empty(t, res.Events)
	assert.Len(t, res.Sources, 1)

	res, err = e.CalendarEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.Equal(t, dm.EventMovie, res.Events[0].Type)

	assert.Equal(t, []bool{true, true, true}, cm.search)
	assert.Equal(t, "gemini-2.5-flash", cm.models[0])
}

func TestMarketAnalysis(t *testing.T) {
	cm := &mockChatModel{
		replies: []string{`{"category": "Shopee Trends Indonesia", "insights": ["Dinosaurus laris"], "keywords": ["kaos anak dino"]}`},
		citations: []llm.Citation{
			{Title: "Shopee", URI: "https://shopee.co.id"},
			{URI: "https://a.id"},
			{Title: "Tanpa URI"},
		},
	}
	e := newTestEngine(t, cm)

	data, err := e.MarketAnalysis(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Shopee Trends Indonesia", data.Category)
	assert.Equal(t, []string{"shopee.co.id"}, cm.domains[0])
	assert.Equal(t, []string{"Dinosaurus laris"}, data.Insights)
	assert.Equal(t, []string{"kaos anak dino"}, data.Keywords)
	assert.Equal(t, []dm.Source{
		{Title: "Shopee", URI: "https://shopee.co.id"},
		{Title: "Source", URI: "https://a.id"},
		{Title: "Tanpa URI", URI: "#"},
	}, data.Sources)
}

func TestMarketAnalysis_Malformed(t *testing.T) {
	for _, reply := range []string{"", "bukan json", "```json\n{\"category\": }\n```"} {
		e := newTestEngine(t, &mockChatModel{replies: []string{reply}})
		_, err := e.MarketAnalysis(context.Background())
		assert.ErrorIs(t, err, ErrMalformedResponse, "reply %q", reply)
	}
}

func TestPsychologyInsights(t *testing.T) {
	cm := &mockChatModel{replies: []string{"## Warna Cerah\n- Kuning", "   "}}
	e := newTestEngine(t, cm)

	text, err := e.PsychologyInsights(context.Background(), dm.AgeKid)
	require.NoError(t, err)
	assert.Equal(t, "## Warna Cerah\n- Kuning", text)
	assert.Contains(t, cm.prompts[0], "6-10 tahun")
	assert.False(t, cm.search[0])

	text, err = e.PsychologyInsights(context.Background(), dm.AgeToddler)
	require.NoError(t, err)
	assert.Equal(t, PsychologyFallback, text)
	assert.Contains(t, cm.prompts[1], "3-5 tahun")

	_, err = e.PsychologyInsights(context.Background(), dm.AgeGroup("teen"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTransportErrorPropagates(t *testing.T) {
	boom := errors.New("503 service unavailable")
	e := newTestEngine(t, &mockChatModel{err: boom})
	ctx := context.Background()

	_, err := e.MarketAnalysis(ctx)
	assert.ErrorIs(t, err, boom)
	_, err = e.CalendarEvents(ctx)
	assert.ErrorIs(t, err, boom)
	_, err = e.PsychologyInsights(ctx, dm.AgeToddler)
	assert.ErrorIs(t, err, boom)
	_, err = e.MonthlyPredictions(ctx, 1, 2026, "")
	assert.ErrorIs(t, err, boom)
}

func TestMissingAPIKey_NoNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.LLM.BaseURL = srv.URL
	cfg.LLM.APIKey = ""
	e, err := NewEngine(context.Background(), cfg)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = e.MarketAnalysis(ctx)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	_, err = e.CalendarEvents(ctx)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	_, err = e.PsychologyInsights(ctx, dm.AgeKid)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	_, err = e.MonthlyPredictions(ctx, 10, 2025, "Film Jumbo")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestMapSources(t *testing.T) {
	assert.Equal(t, []dm.Source{}, MapSources(nil))

	citations := []llm.Citation{{Title: "A", URI: "https://a"}, {}, {Title: "C"}, {URI: "https://d"}}
	got := MapSources(citations)
	require.Len(t, got, len(citations))
	assert.Equal(t, []dm.Source{
		{Title: "A", URI: "https://a"},
		{Title: "Source", URI: "#"},
		{Title: "C", URI: "#"},
		{Title: "Source", URI: "https://d"},
	}, got)
}

func TestNullPayload(t *testing.T) {
	cm := &mockChatModel{replies: []string{"```json\nnull\n```", "null", "null"}}
	e := newTestEngine(t, cm)
	ctx := context.Background()

	_, err := e.MarketAnalysis(ctx)
	assert.ErrorIs(t, err, ErrMalformedResponse)

	res, err := e.CalendarEvents(ctx)
	require.NoError(t, err)
	assert.NotNil(t, res.Events)
	assert.Empty(t, res.Events)

	list, err := e.MonthlyPredictions(ctx, 10, 2025, "")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestMonthlyPredictions_MissingListsBecomeEmpty(t *testing.T) {
	cm := &mockChatModel{replies: []string{`[{"themeName": "Dino Ceria", "estimatedDemand": 70}]`}}
	e := newTestEngine(t, cm)

	got, err := e.MonthlyPredictions(context.Background(), 10, 2025, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotNil(t, got[0].ColorPalette)
	assert.NotNil(t, got[0].VisualElements)

	raw, err := json.Marshal(got[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"colorPalette":[]`)
	assert.Contains(t, string(raw), `"visualElements":[]`)
}

// 提示词被 Gemini 拦截时没有候选回复，各调用点按自己的策略兜底
func TestBlockedPrompt_FallsBackPerCallSite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"promptFeedback": {"blockReason": "OTHER"}}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.LLM.BaseURL = srv.URL
	cfg.LLM.APIKey = "test-key"
	e, err := NewEngine(context.Background(), cfg)
	require.NoError(t, err)
	ctx := context.Background()

	text, err := e.PsychologyInsights(ctx, dm.AgeToddler)
	require.NoError(t, err)
	assert.Equal(t, PsychologyFallback, text)

	res, err := e.CalendarEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Events)
	assert.NotNil(t, res.Sources)

	list, err := e.MonthlyPredictions(ctx, 10, 2025, "Film Jumbo")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = e.MarketAnalysis(ctx)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}
