package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/go-kratos/kratos/v2/log"

	dm "github.com/iWorld-y/trend_radar/app/trend_radar/pkg/model"
)

// ErrSuperseded 同一视图收到了更新的请求，旧请求的结果被丢弃
var ErrSuperseded = errors.New("request superseded by a newer one")

// 视图名，每个视图同一时刻只保留一个进行中的请求
const (
	ViewMarket      = "market"
	ViewCalendar    = "calendar"
	ViewPsychology  = "psychology"
	ViewPredictions = "predictions"
)

// Analyzer 趋势分析能力，由 trend_radar 引擎实现
type Analyzer interface {
	MarketAnalysis(ctx context.Context) (*dm.TrendData, error)
	CalendarEvents(ctx context.Context) (*dm.CalendarResult, error)
	PsychologyInsights(ctx context.Context, group dm.AgeGroup) (string, error)
	MonthlyPredictions(ctx context.Context, month, year int, customContext string) ([]dm.DesignPrediction, error)
}

type flight struct {
	cancel context.CancelCauseFunc
}

// TrendUseCase 趋势业务逻辑
type TrendUseCase struct {
	analyzer Analyzer
	log      *log.Helper

	mu       sync.Mutex
	inflight map[string]*flight
}

// NewTrendUseCase 创建趋势业务逻辑实例
func NewTrendUseCase(analyzer Analyzer, logger log.Logger) *TrendUseCase {
	return &TrendUseCase{
		analyzer: analyzer,
		log:      log.NewHelper(logger),
		inflight: make(map[string]*flight),
	}
}

// Market 获取市场分析
func (uc *TrendUseCase) Market(ctx context.Context) (*dm.TrendData, error) {
	ctx, done := uc.begin(ctx, ViewMarket)
	defer done()

	data, err := uc.analyzer.MarketAnalysis(ctx)
	if err := uc.superseded(ctx, ViewMarket); err != nil {
		return nil, err
	}
	return data, err
}

// Calendar 获取事件日历
func (uc *TrendUseCase) Calendar(ctx context.Context) (*dm.CalendarResult, error) {
	ctx, done := uc.begin(ctx, ViewCalendar)
	defer done()

	res, err := uc.analyzer.CalendarEvents(ctx)
	if err := uc.superseded(ctx, ViewCalendar); err != nil {
		return nil, err
	}
	return res, err
}

// Psychology 获取某年龄段的色彩心理分析
func (uc *TrendUseCase) Psychology(ctx context.Context, group dm.AgeGroup) (string, error) {
	ctx, done := uc.begin(ctx, ViewPsychology)
	defer done()

	text, err := uc.analyzer.PsychologyInsights(ctx, group)
	if err := uc.superseded(ctx, ViewPsychology); err != nil {
		return "", err
	}
	return text, err
}

// Predictions 获取月度设计预测
func (uc *TrendUseCase) Predictions(ctx context.Context, month, year int, customContext string) ([]dm.DesignPrediction, error) {
	ctx, done := uc.begin(ctx, ViewPredictions)
	defer done()

	list, err := uc.analyzer.MonthlyPredictions(ctx, month, year, customContext)
	if err := uc.superseded(ctx, ViewPredictions); err != nil {
		return nil, err
	}
	return list, err
}

// begin 登记视图的新请求并取消旧请求
func (uc *TrendUseCase) begin(ctx context.Context, view string) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)
	f := &flight{cancel: cancel}

	uc.mu.Lock()
	if prev, ok := uc.inflight[view]; ok {
		prev.cancel(ErrSuperseded)
	}
	uc.inflight[view] = f
	uc.mu.Unlock()

	return ctx, func() {
		uc.mu.Lock()
		if uc.inflight[view] == f {
			delete(uc.inflight, view)
		}
		uc.mu.Unlock()
		cancel(nil)
	}
}

func (uc *TrendUseCase) superseded(ctx context.Context, view string) error {
	if errors.Is(context.Cause(ctx), ErrSuperseded) {
		uc.log.WithContext(ctx).Infof("discard superseded %s result", view)
		return ErrSuperseded
	}
	return nil
}
