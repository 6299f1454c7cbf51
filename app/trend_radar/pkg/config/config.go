package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// APIKeyEnv 未在配置文件中设置 api_key 时读取的环境变量
const APIKeyEnv = "API_KEY"

// Config 项目配置结构体
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Search  SearchConfig  `yaml:"search"`
	Prompts PromptsConfig `yaml:"prompts"`
	Log     LogConfig     `yaml:"log"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	Provider string `yaml:"provider"` // "gemini" or "openai"
	BaseURL  string `yaml:"base_url"` // gemini 不含 API 版本；openai 为完整的 /v1 地址
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	// ReasoningModel 用于月度预测这类需要更强推理能力的调用
	ReasoningModel string `yaml:"reasoning_model"`
	Timeout        int    `yaml:"timeout"` // 秒
}

// SearchConfig 搜索增强配置，仅 openai 兼容模型使用；gemini 自带 google_search
type SearchConfig struct {
	Provider     string        `yaml:"provider"`
	Tavily       TavilyConfig  `yaml:"tavily"`
	SearXNG      SearXNGConfig `yaml:"searxng"`
	MaxResults   int           `yaml:"max_results"`
	FetchContent bool          `yaml:"fetch_content"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// PromptsConfig 提示词模板配置
type PromptsConfig struct {
	// File 自定义提示词 YAML 文件，留空使用内置模板
	File string `yaml:"file"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

const (
	defaultGeminiModel    = "gemini-2.5-flash"
	defaultReasoningModel = "gemini-3-pro-preview"
	defaultTimeoutSeconds = 120
)

// Default 返回带默认值的配置
func Default() *Config {
	cfg := &Config{
		LLM: LLMConfig{
			Provider: "gemini",
			Timeout:  defaultTimeoutSeconds,
		},
		Search: SearchConfig{
			MaxResults: 8,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
	cfg.Normalize()
	return cfg
}

// Normalize 按 provider 补齐模型名：gemini 有默认模型，其他 provider 的推理模型默认与主模型相同
func (c *Config) Normalize() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "gemini"
	}
	if c.LLM.Provider == "gemini" {
		if c.LLM.Model == "" {
			c.LLM.Model = defaultGeminiModel
		}
		if c.LLM.ReasoningModel == "" {
			c.LLM.ReasoningModel = defaultReasoningModel
		}
	}
	if c.LLM.ReasoningModel == "" {
		c.LLM.ReasoningModel = c.LLM.Model
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = defaultTimeoutSeconds
	}
}

// ModelFor 返回一次调用使用的模型名
func (c LLMConfig) ModelFor(reasoning bool) string {
	if reasoning && c.ReasoningModel != "" {
		return c.ReasoningModel
	}
	return c.Model
}

// LoadConfig 从指定路径加载配置，未出现在文件中的字段保留默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// 先放入 provider 无关的默认值，模型名在 Normalize 中按 provider 补齐
	cfg := &Config{Log: LogConfig{Level: "info"}, Search: SearchConfig{MaxResults: 8}}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	cfg.ApplyEnv()

	return cfg, nil
}

// ApplyEnv 配置文件没有 api_key 时从环境变量读取，只在启动时调用一次
func (c *Config) ApplyEnv() {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		c.LLM.APIKey = strings.TrimSpace(os.Getenv(APIKeyEnv))
	}
}
