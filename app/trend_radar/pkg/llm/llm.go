// Package llm 定义所有模型后端共用的调用选项和引用元数据。
package llm

import (
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ExtraCitations schema.Message.Extra 中保存引用来源的 key
const ExtraCitations = "trend_radar.citations"

// Citation 模型联网搜索后返回的原始引用，字段可能为空
type Citation struct {
	Title string
	URI   string
}

// Options 各后端共用的实现特定选项
type Options struct {
	// WebSearch 请求联网搜索增强
	WebSearch bool
	// SearchQuery 自行搜索的后端使用的查询词，gemini 会忽略
	SearchQuery string
	// SearchDomains 限定搜索站点，gemini 会忽略
	SearchDomains []string
}

// WithWebSearch 请求联网搜索增强
func WithWebSearch(query string) model.Option {
	return model.WrapImplSpecificOptFn(func(o *Options) {
		o.WebSearch = true
		o.SearchQuery = query
	})
}

// WithSearchDomains 限定自行搜索的站点范围
func WithSearchDomains(domains ...string) model.Option {
	return model.WrapImplSpecificOptFn(func(o *Options) {
		o.SearchDomains = domains
	})
}

// GetOptions 解析调用选项
func GetOptions(opts ...model.Option) *Options {
	return model.GetImplSpecificOptions(&Options{}, opts...)
}

// SetCitations 把引用写入消息
func SetCitations(msg *schema.Message, citations []Citation) {
	if msg == nil || len(citations) == 0 {
		return
	}
	if msg.Extra == nil {
		msg.Extra = map[string]any{}
	}
	msg.Extra[ExtraCitations] = citations
}

// Citations 读取消息中的引用，没有时返回 nil
func Citations(msg *schema.Message) []Citation {
	if msg == nil || msg.Extra == nil {
		return nil
	}
	citations, _ := msg.Extra[ExtraCitations].([]Citation)
	return citations
}
