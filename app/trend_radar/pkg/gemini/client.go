// Package gemini 在 eino-ext gemini 模型外包一层：
// 按调用选项切换是否启用 google_search，并把 grounding 引用转换为 llm.Citation。
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	einogemini "github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/llm"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/logger"
)

// ErrMissingAPIKey 未配置 API Key
var ErrMissingAPIKey = errors.New("gemini: api key is missing")

// eino-ext 在响应没有 candidates 时返回的错误文本（提示词被拦截等情况）
const emptyResultText = "gemini result is empty"

const defaultTimeout = 120 * time.Second

// Config Gemini 客户端配置
type Config struct {
	// BaseURL 不含 API 版本的服务地址，留空使用官方地址
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// ChatModel 持有两个 eino-ext 实例，WithWebSearch 时走带 google_search 的那个
type ChatModel struct {
	plain    model.BaseChatModel
	grounded model.BaseChatModel
}

// Ensure ChatModel implements model.BaseChatModel
var _ model.BaseChatModel = (*ChatModel)(nil)

// NewChatModel 创建 Gemini 模型
func NewChatModel(ctx context.Context, cfg *Config) (*ChatModel, error) {
	if cfg == nil {
		return nil, errors.New("gemini: config is nil")
	}
	if cfg.Model == "" {
		return nil, errors.New("gemini: model is required")
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		t := cfg.Timeout
		if t == 0 {
			t = defaultTimeout
		}
		httpClient = &http.Client{Timeout: t}
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client failed: %w", err)
	}

	plain, err := einogemini.NewChatModel(ctx, &einogemini.Config{
		Client: client,
		Model:  cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create model failed: %w", err)
	}
	grounded, err := einogemini.NewChatModel(ctx, &einogemini.Config{
		Client:             client,
		Model:              cfg.Model,
		EnableGoogleSearch: &genai.GoogleSearch{},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create grounded model failed: %w", err)
	}

	return &ChatModel{plain: plain, grounded: grounded}, nil
}

// Generate implements model.BaseChatModel
func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	msg, err := m.pick(opts...).Generate(ctx, input, opts...)
	if err != nil {
		if isEmptyResult(err) {
			// 没有候选回复时交给调用方按各自策略兜底
			logger.Log.WithFields(logrus.Fields{"error": err}).Warn("Gemini 没有返回候选回复，提示词可能被拦截")
			return schema.AssistantMessage("", nil), nil
		}
		return nil, err
	}
	llm.SetCitations(msg, citationsOf(msg))
	return msg, nil
}

// Stream implements model.BaseChatModel
func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	sr, err := m.pick(opts...).Stream(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderWithConvert(sr, func(msg *schema.Message) (*schema.Message, error) {
		llm.SetCitations(msg, citationsOf(msg))
		return msg, nil
	}), nil
}

func (m *ChatModel) pick(opts ...model.Option) model.BaseChatModel {
	if llm.GetOptions(opts...).WebSearch {
		return m.grounded
	}
	return m.plain
}

// citationsOf 把 grounding chunks 映射为引用，没有 web 信息的 chunk 保留为空引用
func citationsOf(msg *schema.Message) []llm.Citation {
	gm := einogemini.GetGroundMetadata(msg)
	if gm == nil || len(gm.GroundingChunks) == 0 {
		return nil
	}
	citations := make([]llm.Citation, 0, len(gm.GroundingChunks))
	for _, c := range gm.GroundingChunks {
		var citation llm.Citation
		if c != nil && c.Web != nil {
			citation = llm.Citation{Title: c.Web.Title, URI: c.Web.URI}
		}
		citations = append(citations, citation)
	}
	return citations
}

func isEmptyResult(err error) bool {
	return strings.Contains(err.Error(), emptyResultText)
}
