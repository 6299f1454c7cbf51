package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/trend_radar/app/display/internal/conf"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/config"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/engine"
	drLogger "github.com/iWorld-y/trend_radar/app/trend_radar/pkg/logger"
)

// RadarConfig 将 internal/conf.Radar 转换为 pkg/config.Config，并读取环境变量中的 API Key
func RadarConfig(c *conf.Radar) *config.Config {
	cfg := config.Default()
	if c == nil {
		cfg.ApplyEnv()
		return cfg
	}

	if l := c.Llm; l != nil {
		cfg.LLM = config.LLMConfig{
			Provider:       l.Provider,
			BaseURL:        l.BaseUrl,
			APIKey:         l.ApiKey,
			Model:          l.Model,
			ReasoningModel: l.ReasoningModel,
			Timeout:        int(l.Timeout),
		}
	}
	if s := c.Search; s != nil {
		cfg.Search.Provider = s.Provider
		cfg.Search.FetchContent = s.FetchContent
		if s.MaxResults > 0 {
			cfg.Search.MaxResults = int(s.MaxResults)
		}
		if s.Tavily != nil {
			cfg.Search.Tavily.APIKey = s.Tavily.ApiKey
		}
		if s.Searxng != nil {
			cfg.Search.SearXNG = config.SearXNGConfig{
				BaseURL: s.Searxng.BaseUrl,
				Timeout: int(s.Searxng.Timeout),
			}
		}
	}
	if c.Prompts != nil {
		cfg.Prompts.File = c.Prompts.File
	}
	if c.Log != nil {
		cfg.Log = config.LogConfig{Level: c.Log.Level, File: c.Log.File}
	}

	cfg.Normalize()
	cfg.ApplyEnv()
	return cfg
}

// NewRadarEngine 初始化 trend_radar 引擎
func NewRadarEngine(c *conf.Radar, logger log.Logger) (*engine.Engine, func(), error) {
	helper := log.NewHelper(logger)
	cfg := RadarConfig(c)

	if err := drLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init trend_radar logger: %v", err)
		_ = drLogger.InitLogger("info", "") // 降级处理
	}

	if cfg.LLM.APIKey == "" {
		helper.Warnf("API key is not configured, every analysis request will fail until %s is set", config.APIKeyEnv)
	}

	eng, err := engine.NewEngine(context.Background(), cfg)
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("Cleaning up trend_radar engine")
	}

	return eng, cleanup, nil
}
