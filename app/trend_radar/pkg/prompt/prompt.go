// Package prompt 管理四类调用的提示词模板。
//
// 模板默认内置在 prompts.yaml 中，也可以用配置里的 prompts.file 替换，
// 方便不改代码调整措辞。
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// 模板名称
const (
	MarketAnalysis     = "market_analysis"
	CalendarEvents     = "calendar_events"
	PsychologyInsight  = "psychology_insight"
	MonthlyPredictions = "monthly_predictions"
)

//go:embed prompts.yaml
var builtin []byte

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// MonthName 返回印尼语月份名，month 取值 1-12
func MonthName(month int) (string, error) {
	if month < 1 || month > 12 {
		return "", fmt.Errorf("month %d out of range 1-12", month)
	}
	return monthNames[month-1], nil
}

// Definition YAML 中的单个模板定义
type Definition struct {
	Template    string `yaml:"template"`
	WebSearch   bool   `yaml:"web_search"`
	SearchQuery string `yaml:"search_query"`
	// SearchDomains 自行搜索时限定的站点
	SearchDomains []string `yaml:"search_domains"`
	Reasoning     bool     `yaml:"reasoning"`
}

// Data 模板变量
type Data struct {
	Period        string // "Oktober 2025"
	MonthName     string
	Year          int
	AgeGroup      string // "3-5 tahun"
	CustomContext string
}

// Rendered 渲染后的提示词
type Rendered struct {
	Text        string
	WebSearch   bool
	SearchQuery   string
	SearchDomains []string
	Reasoning     bool
}

type entry struct {
	def   Definition
	text  *template.Template
	query *template.Template
}

// Catalog 已解析的模板集合
type Catalog struct {
	entries map[string]*entry
}

// Default 加载内置模板
func Default() (*Catalog, error) {
	return Parse(builtin)
}

// Load 从文件加载模板，path 为空时使用内置模板
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}
	return Parse(data)
}

// Parse 解析 YAML 模板定义，四个模板必须齐全
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Prompts map[string]Definition `yaml:"prompts"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}

	c := &Catalog{entries: make(map[string]*entry, len(doc.Prompts))}
	for name, def := range doc.Prompts {
		text, err := template.New(name).Option("missingkey=error").Parse(def.Template)
		if err != nil {
			return nil, fmt.Errorf("parse prompt %s: %w", name, err)
		}
		query, err := template.New(name + ".query").Parse(def.SearchQuery)
		if err != nil {
			return nil, fmt.Errorf("parse search query of %s: %w", name, err)
		}
		c.entries[name] = &entry{def: def, text: text, query: query}
	}

	for _, name := range []string{MarketAnalysis, CalendarEvents, PsychologyInsight, MonthlyPredictions} {
		if _, ok := c.entries[name]; !ok {
			return nil, fmt.Errorf("prompt %s is not defined", name)
		}
	}
	return c, nil
}

// Render 渲染指定模板
func (c *Catalog) Render(name string, data Data) (*Rendered, error) {
	e, ok := c.entries[name]
	if !ok {
		return nil, fmt.Errorf("prompt %s is not defined", name)
	}

	var text, query strings.Builder
	if err := e.text.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("render prompt %s: %w", name, err)
	}
	if err := e.query.Execute(&query, data); err != nil {
		return nil, fmt.Errorf("render search query of %s: %w", name, err)
	}

	return &Rendered{
		Text:          strings.TrimSpace(text.String()),
		WebSearch:     e.def.WebSearch,
		SearchQuery:   strings.TrimSpace(query.String()),
		SearchDomains: e.def.SearchDomains,
		Reasoning:     e.def.Reasoning,
	}, nil
}

// ForMonth 构造月度预测使用的模板变量
func ForMonth(month, year int, customContext string) (Data, error) {
	name, err := MonthName(month)
	if err != nil {
		return Data{}, err
	}
	return Data{
		Period:        fmt.Sprintf("%s %d", name, year),
		MonthName:     name,
		Year:          year,
		CustomContext: strings.TrimSpace(customContext),
	}, nil
}
