package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/config"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/gemini"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/llm"
	searchfactory "github.com/iWorld-y/trend_radar/app/trend_radar/pkg/search/factory"
)

// NewChatModel 根据配置创建模型实例
func NewChatModel(ctx context.Context, cfg *config.Config) (model.BaseChatModel, error) {
	timeout := time.Duration(cfg.LLM.Timeout) * time.Second

	switch cfg.LLM.Provider {
	case "", "gemini":
		return gemini.NewChatModel(ctx, &gemini.Config{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			Timeout: timeout,
		})

	case "openai":
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			Timeout: timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("LLM 初始化失败: %w", err)
		}

		// openai 兼容接口没有内置联网搜索，配置了搜索服务时由我们补上
		searcher, err := searchfactory.NewSearcher(cfg.Search)
		if err != nil {
			return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
		}
		if searcher == nil {
			return chatModel, nil
		}
		return llm.NewSearchAugmented(chatModel, searcher, cfg.Search.MaxResults, cfg.Search.FetchContent), nil

	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLM.Provider)
	}
}
