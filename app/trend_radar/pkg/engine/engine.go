package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/config"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/extract"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/llm"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/llm/factory"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/logger"
	dm "github.com/iWorld-y/trend_radar/app/trend_radar/pkg/model"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/prompt"
)

var (
	// ErrMissingAPIKey 未配置 API Key，所有调用在发出网络请求前直接失败
	ErrMissingAPIKey = errors.New("API key missing: set llm.api_key or the API_KEY environment variable")
	// ErrInvalidArgument 参数不合法
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMalformedResponse 模型回复中没有可解析的 JSON
	ErrMalformedResponse = errors.New("failed to parse JSON from response")
)

// PsychologyFallback 模型返回空文本时的兜底内容
const PsychologyFallback = "Maaf, tidak dapat mengambil insight saat ini."

// 引用字段缺失时的默认值
const (
	defaultSourceTitle = "Source"
	defaultSourceURI   = "#"
)

// Engine 核心处理引擎，负责构造提示词、调用模型并解析结果
type Engine struct {
	cfg       *config.Config
	chatModel model.BaseChatModel
	prompts   *prompt.Catalog
}

// NewEngine 创建引擎实例。未配置 API Key 时仍返回引擎，但所有调用都会返回 ErrMissingAPIKey
func NewEngine(ctx context.Context, cfg *config.Config) (*Engine, error) {
	prompts, err := prompt.Load(cfg.Prompts.File)
	if err != nil {
		return nil, fmt.Errorf("提示词加载失败: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		logger.Log.Warn("未配置 API Key，所有模型调用都会失败")
		return New(cfg, nil, prompts), nil
	}

	chatModel, err := factory.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(cfg, chatModel, prompts), nil
}

// New 使用给定模型创建引擎
func New(cfg *config.Config, chatModel model.BaseChatModel, prompts *prompt.Catalog) *Engine {
	return &Engine{
		cfg:       cfg,
		chatModel: chatModel,
		prompts:   prompts,
	}
}

// MarketAnalysis 分析 Shopee 童装 T 恤的当前趋势，解析失败返回错误
func (e *Engine) MarketAnalysis(ctx context.Context) (*dm.TrendData, error) {
	if err := e.checkKey(); err != nil {
		return nil, err
	}

	msg, err := e.generate(ctx, prompt.MarketAnalysis, prompt.Data{})
	if err != nil {
		logger.Log.Errorf("获取市场分析失败: %v", err)
		return nil, err
	}

	var data dm.TrendData
	if err := extract.JSON(msg.Content, &data); err != nil {
		logger.Log.Errorf("获取市场分析失败: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	data.Insights = orEmpty(data.Insights)
	data.Keywords = orEmpty(data.Keywords)
	data.Sources = MapSources(llm.Citations(msg))
	return &data, nil
}

// CalendarEvents 查询未来 3-6 个月的电影、游戏和节假日，解析失败时返回空列表
func (e *Engine) CalendarEvents(ctx context.Context) (*dm.CalendarResult, error) {
	if err := e.checkKey(); err != nil {
		return nil, err
	}

	msg, err := e.generate(ctx, prompt.CalendarEvents, prompt.Data{})
	if err != nil {
		logger.Log.Errorf("获取事件日历失败: %v", err)
		return nil, err
	}

	events := []dm.CalendarEvent{}
	if err := extract.JSON(msg.Content, &events); err != nil {
		logger.Log.Warnf("事件日历解析失败，返回空列表: %v", err)
		events = []dm.CalendarEvent{}
	}
	for _, ev := range events {
		if !ev.Type.Valid() || !ev.Impact.Valid() {
			logger.Log.WithFields(logrus.Fields{"title": ev.Title, "type": ev.Type, "impact": ev.Impact}).Debug("事件类型或影响程度不在约定范围内")
		}
	}

	return &dm.CalendarResult{
		Events:  events,
		Sources: MapSources(llm.Citations(msg)),
	}, nil
}

// PsychologyInsights 返回某年龄段的色彩心理分析，Markdown 原样返回
func (e *Engine) PsychologyInsights(ctx context.Context, group dm.AgeGroup) (string, error) {
	if err := e.checkKey(); err != nil {
		return "", err
	}
	if group != dm.AgeToddler && group != dm.AgeKid {
		return "", fmt.Errorf("%w: unknown age group %q", ErrInvalidArgument, group)
	}

	msg, err := e.generate(ctx, prompt.PsychologyInsight, prompt.Data{AgeGroup: group.Label()})
	if err != nil {
		logger.Log.Errorf("获取心理分析失败: %v", err)
		return "", err
	}

	if strings.TrimSpace(msg.Content) == "" {
		return PsychologyFallback, nil
	}
	return msg.Content, nil
}

// MonthlyPredictions 预测某月的爆款设计主题，解析失败时返回空列表
func (e *Engine) MonthlyPredictions(ctx context.Context, month, year int, customContext string) ([]dm.DesignPrediction, error) {
	if err := e.checkKey(); err != nil {
		return nil, err
	}

	data, err := prompt.ForMonth(month, year, customContext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	msg, err := e.generate(ctx, prompt.MonthlyPredictions, data)
	if err != nil {
		logger.Log.Errorf("生成月度预测失败 [%s]: %v", data.Period, err)
		return nil, err
	}

	predictions := []dm.DesignPrediction{}
	if err := extract.JSON(msg.Content, &predictions); err != nil {
		logger.Log.Warnf("月度预测解析失败 [%s]，返回空列表: %v", data.Period, err)
		return []dm.DesignPrediction{}, nil
	}
	for i := range predictions {
		p := &predictions[i]
		p.EstimatedDemand = clampDemand(p.EstimatedDemand)
		p.ColorPalette = orEmpty(p.ColorPalette)
		p.VisualElements = orEmpty(p.VisualElements)
	}
	logger.Log.Infof("月度预测完成 [%s]: %d 个主题", data.Period, len(predictions))
	return predictions, nil
}

// MapSources 将引用一一映射为来源，缺失字段使用默认值
func MapSources(citations []llm.Citation) []dm.Source {
	sources := make([]dm.Source, 0, len(citations))
	for _, c := range citations {
		s := dm.Source{Title: c.Title, URI: c.URI}
		if s.Title == "" {
			s.Title = defaultSourceTitle
		}
		if s.URI == "" {
			s.URI = defaultSourceURI
		}
		sources = append(sources, s)
	}
	return sources
}

func (e *Engine) checkKey() error {
	if e.cfg == nil || e.cfg.LLM.APIKey == "" || e.chatModel == nil {
		return ErrMissingAPIKey
	}
	return nil
}

func (e *Engine) generate(ctx context.Context, name string, data prompt.Data) (*schema.Message, error) {
	rendered, err := e.prompts.Render(name, data)
	if err != nil {
		return nil, err
	}

	var opts []model.Option
	if m := e.cfg.LLM.ModelFor(rendered.Reasoning); m != "" {
		opts = append(opts, model.WithModel(m))
	}
	if rendered.WebSearch {
		opts = append(opts, llm.WithWebSearch(rendered.SearchQuery))
		if len(rendered.SearchDomains) > 0 {
			opts = append(opts, llm.WithSearchDomains(rendered.SearchDomains...))
		}
	}

	logger.Log.Debugf("调用模型 [%s]", name)
	msg, err := e.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(rendered.Text)}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return msg, nil
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func clampDemand(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
