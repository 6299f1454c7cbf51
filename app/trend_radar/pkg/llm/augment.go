package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/go-shiori/go-readability"
	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/logger"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/search"
)

const (
	minSnippetLen  = 300
	maxContentLen  = 3000
	fetchTimeout   = 20 * time.Second
	defaultResults = 8
)

// SearchAugmented 给不支持联网的模型补上搜索能力：
// 先用 Searcher 搜索，把结果拼到最后一条用户消息前面，再把结果作为引用返回
type SearchAugmented struct {
	Model    model.BaseChatModel
	Searcher search.Searcher
	// MaxResults 每次搜索的结果数
	MaxResults int
	// FetchContent 摘要太短时用 readability 抓取正文
	FetchContent bool

	fetch func(url string) (string, error)
}

// Ensure SearchAugmented implements model.BaseChatModel
var _ model.BaseChatModel = (*SearchAugmented)(nil)

// NewSearchAugmented 创建带搜索增强的模型
func NewSearchAugmented(cm model.BaseChatModel, searcher search.Searcher, maxResults int, fetchContent bool) *SearchAugmented {
	if maxResults <= 0 {
		maxResults = defaultResults
	}
	return &SearchAugmented{
		Model:        cm,
		Searcher:     searcher,
		MaxResults:   maxResults,
		FetchContent: fetchContent,
		fetch:        fetchAndCleanContent,
	}
}

// Generate implements model.BaseChatModel
func (a *SearchAugmented) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	augmented, citations, err := a.augment(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	msg, err := a.Model.Generate(ctx, augmented, opts...)
	if err != nil {
		return nil, err
	}
	SetCitations(msg, citations)
	return msg, nil
}

// Stream implements model.BaseChatModel，引用只能在整体回复上体现，流式调用不附带引用
func (a *SearchAugmented) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	augmented, _, err := a.augment(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return a.Model.Stream(ctx, augmented, opts...)
}

func (a *SearchAugmented) augment(ctx context.Context, input []*schema.Message, opts ...model.Option) ([]*schema.Message, []Citation, error) {
	o := GetOptions(opts...)
	if !o.WebSearch || a.Searcher == nil || o.SearchQuery == "" {
		return input, nil, nil
	}

	resp, err := a.Searcher.Search(ctx, &search.Request{
		Query:          o.SearchQuery,
		Topic:          "general",
		MaxResults:     a.MaxResults,
		Language:       "id",
		IncludeDomains: o.SearchDomains,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("web search failed: %w", err)
	}
	logger.Log.WithFields(logrus.Fields{"query": o.SearchQuery, "results": len(resp.Results)}).Debug("联网搜索完成")
	if len(resp.Results) == 0 {
		return input, nil, nil
	}

	var sb strings.Builder
	sb.WriteString("Hasil pencarian web terbaru (gunakan sebagai rujukan riset):\n\n")
	citations := make([]Citation, 0, len(resp.Results))
	for i, r := range resp.Results {
		content := r.Content
		if a.FetchContent && len(content) < minSnippetLen && a.fetch != nil {
			fetched, err := a.fetch(r.URL)
			if err == nil && len(fetched) > len(content) {
				content = fetched
			}
		}
		if len(content) > maxContentLen {
			content = content[:maxContentLen]
		}
		fmt.Fprintf(&sb, "[%d] %s\nURL: %s\n%s\n\n", i+1, r.Title, r.URL, strings.TrimSpace(content))
		citations = append(citations, Citation{Title: r.Title, URI: r.URL})
	}

	// 复制一份，不修改调用方的消息
	out := make([]*schema.Message, len(input))
	copy(out, input)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] != nil && out[i].Role == schema.User {
			clone := *out[i]
			clone.Content = sb.String() + clone.Content
			out[i] = &clone
			break
		}
	}
	return out, citations, nil
}

// fetchAndCleanContent 抓取 URL 并提取核心文本
func fetchAndCleanContent(url string) (string, error) {
	article, err := readability.FromURL(url, fetchTimeout)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}
