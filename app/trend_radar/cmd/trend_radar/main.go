// trend_radar 命令行入口：在终端里直接调用趋势分析引擎
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/config"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/engine"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/logger"
)

// version 编译时通过 ldflags 注入
var version = "dev"

// defaultConfigPath 未指定 --config 时尝试读取的配置文件
const defaultConfigPath = "configs/trend_radar.yaml"

// newEngineFn 测试时替换为 mock 引擎
var newEngineFn = func(ctx context.Context, cfg *config.Config) (analyzer, error) {
	e, err := engine.NewEngine(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// stdout 命令输出位置
var stdout io.Writer = os.Stdout

var rootCmd = &cobra.Command{
	Use:   "trend_radar",
	Short: "Shopee Indonesia 童装 T 恤趋势分析",
	Long: `trend_radar 借助大模型和联网搜索分析 Shopee Indonesia 童装 T 恤市场：
market 当前趋势，calendar 未来 3-6 个月的事件，psychology 各年龄段的色彩心理，
predict 某月的爆款设计预测，all 并发执行 market、calendar 和 predict。`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: "+defaultConfigPath+" if present)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.SetEnvPrefix("TREND_RADAR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// loadConfig 读取配置文件，再用 TREND_RADAR_* 环境变量与命令行参数覆盖
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var path string
	if f := cmd.Flag("config"); f != nil {
		path = f.Value.String()
	}
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		}
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("无法加载配置文件 %s: %w", path, err)
		}
		cfg = loaded
	}

	overrides := map[string]*string{
		"llm.provider":        &cfg.LLM.Provider,
		"llm.base_url":        &cfg.LLM.BaseURL,
		"llm.api_key":         &cfg.LLM.APIKey,
		"llm.model":           &cfg.LLM.Model,
		"llm.reasoning_model": &cfg.LLM.ReasoningModel,
		"search.provider":     &cfg.Search.Provider,
		"log.level":           &cfg.Log.Level,
		"log.file":            &cfg.Log.File,
	}
	for key, field := range overrides {
		if v := strings.TrimSpace(viper.GetString(key)); v != "" {
			*field = v
		}
	}

	cfg.Normalize()
	cfg.ApplyEnv()
	return cfg, nil
}

// setup 加载配置、初始化日志并创建引擎
func setup(cmd *cobra.Command) (analyzer, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return nil, fmt.Errorf("无法初始化日志: %w", err)
	}
	return newEngineFn(cmd.Context(), cfg)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
