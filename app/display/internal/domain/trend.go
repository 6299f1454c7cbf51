package domain

import dm "github.com/iWorld-y/trend_radar/app/trend_radar/pkg/model"

// MarketRequest 市场分析请求，无参数
type MarketRequest struct{}

// MarketReply 市场分析结果
type MarketReply struct {
	Category string      `json:"category"`
	Insights []string    `json:"insights"`
	Keywords []string    `json:"keywords"`
	Sources  []dm.Source `json:"sources"`
}

// CalendarRequest 事件日历请求，无参数
type CalendarRequest struct{}

// CalendarReply 事件日历结果
type CalendarReply struct {
	Events  []dm.CalendarEvent `json:"events"`
	Sources []dm.Source        `json:"sources"`
}

// PsychologyRequest 色彩心理分析请求
type PsychologyRequest struct {
	AgeGroup string `json:"age_group"`
}

// PsychologyReply 色彩心理分析结果，Content 为 Markdown 原文
type PsychologyReply struct {
	AgeGroup string `json:"age_group"`
	Content  string `json:"content"`
}

// PredictionsRequest 月度预测请求，month/year 为 0 时使用当前年月
type PredictionsRequest struct {
	Month   int    `json:"month"`
	Year    int    `json:"year"`
	Context string `json:"context"`
}

// PredictionsReply 月度预测结果
type PredictionsReply struct {
	Month       int                   `json:"month"`
	Year        int                   `json:"year"`
	Period      string                `json:"period"`
	Predictions []dm.DesignPrediction `json:"predictions"`
}
