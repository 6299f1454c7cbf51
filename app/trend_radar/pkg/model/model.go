package model

import "fmt"

// Source 联网搜索返回的引用来源
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// TrendData Shopee 市场趋势分析
type TrendData struct {
	Category string   `json:"category"`
	Insights []string `json:"insights"`
	Keywords []string `json:"keywords"`
	Sources  []Source `json:"sources"`
}

// EventType 日历事件类型
type EventType string

const (
	EventMovie   EventType = "Movie"
	EventHoliday EventType = "Holiday"
	EventGame    EventType = "Game"
	EventSocial  EventType = "Social"
)

// Valid 判断是否为已知类型
func (t EventType) Valid() bool {
	switch t {
	case EventMovie, EventHoliday, EventGame, EventSocial:
		return true
	}
	return false
}

// Impact 事件对销量的影响程度
type Impact string

const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
	ImpactLow    Impact = "Low"
)

// Valid 判断是否为已知影响程度
func (i Impact) Valid() bool {
	switch i {
	case ImpactHigh, ImpactMedium, ImpactLow:
		return true
	}
	return false
}

// CalendarEvent 影响选品的电影、节假日、游戏或社会事件
type CalendarEvent struct {
	Title       string    `json:"title"`
	Date        string    `json:"date"` // 模型给出的大致月份/日期，原样保留
	Type        EventType `json:"type"`
	Impact      Impact    `json:"impact"`
	Description string    `json:"description"`
}

// CalendarResult 日历事件及其引用来源
type CalendarResult struct {
	Events  []CalendarEvent `json:"events"`
	Sources []Source        `json:"sources"`
}

// DesignPrediction 某个月份的 T 恤设计主题预测
type DesignPrediction struct {
	ThemeName       string   `json:"themeName"`
	TargetAgeGroup  string   `json:"targetAgeGroup"`
	ColorPalette    []string `json:"colorPalette"`
	VisualElements  []string `json:"visualElements"`
	Reasoning       string   `json:"reasoning"`
	EstimatedDemand float64  `json:"estimatedDemand"` // 0-100
}

// AgeGroup 儿童年龄段
type AgeGroup string

const (
	AgeToddler AgeGroup = "toddler"
	AgeKid     AgeGroup = "kid"
)

// ParseAgeGroup 解析年龄段，空字符串视为 toddler
func ParseAgeGroup(s string) (AgeGroup, error) {
	switch AgeGroup(s) {
	case "", AgeToddler:
		return AgeToddler, nil
	case AgeKid:
		return AgeKid, nil
	}
	return "", fmt.Errorf("unknown age group %q", s)
}

// Label 提示词中使用的年龄描述
func (g AgeGroup) Label() string {
	if g == AgeToddler {
		return "3-5 tahun"
	}
	return "6-10 tahun"
}
