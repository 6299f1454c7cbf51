package service

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/trend_radar/app/display/internal/domain"
	"github.com/iWorld-y/trend_radar/app/display/internal/usecase"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/engine"
	dm "github.com/iWorld-y/trend_radar/app/trend_radar/pkg/model"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/prompt"
)

// 错误原因，前端根据 reason 展示提示
const (
	ReasonAPIKeyMissing     = "API_KEY_MISSING"
	ReasonInvalidArgument   = "INVALID_ARGUMENT"
	ReasonSuperseded        = "REQUEST_SUPERSEDED"
	ReasonMalformedResponse = "MALFORMED_RESPONSE"
	ReasonModelUnavailable  = "MODEL_UNAVAILABLE"
)

type TrendService struct {
	uc  *usecase.TrendUseCase
	log *log.Helper
	now func() time.Time
}

func NewTrendService(uc *usecase.TrendUseCase, logger log.Logger) *TrendService {
	return &TrendService{
		uc:  uc,
		log: log.NewHelper(logger),
		now: time.Now,
	}
}

func (s *TrendService) Market(ctx context.Context, req *domain.MarketRequest) (*domain.MarketReply, error) {
	data, err := s.uc.Market(ctx)
	if err != nil {
		return nil, s.toError(ctx, err)
	}
	return &domain.MarketReply{
		Category: data.Category,
		Insights: nonNil(data.Insights),
		Keywords: nonNil(data.Keywords),
		Sources:  data.Sources,
	}, nil
}

func (s *TrendService) Calendar(ctx context.Context, req *domain.CalendarRequest) (*domain.CalendarReply, error) {
	res, err := s.uc.Calendar(ctx)
	if err != nil {
		return nil, s.toError(ctx, err)
	}
	return &domain.CalendarReply{Events: res.Events, Sources: res.Sources}, nil
}

func (s *TrendService) Psychology(ctx context.Context, req *domain.PsychologyRequest) (*domain.PsychologyReply, error) {
	group, err := dm.ParseAgeGroup(req.AgeGroup)
	if err != nil {
		return nil, errors.BadRequest(ReasonInvalidArgument, err.Error())
	}

	text, err := s.uc.Psychology(ctx, group)
	if err != nil {
		return nil, s.toError(ctx, err)
	}
	return &domain.PsychologyReply{AgeGroup: string(group), Content: text}, nil
}

func (s *TrendService) Predictions(ctx context.Context, req *domain.PredictionsRequest) (*domain.PredictionsReply, error) {
	now := s.now()
	month, year := req.Month, req.Year
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}

	period, err := prompt.ForMonth(month, year, req.Context)
	if err != nil {
		return nil, errors.BadRequest(ReasonInvalidArgument, err.Error())
	}
	if year < 1 {
		return nil, errors.BadRequest(ReasonInvalidArgument, "year must be positive")
	}

	list, err := s.uc.Predictions(ctx, month, year, req.Context)
	if err != nil {
		return nil, s.toError(ctx, err)
	}
	return &domain.PredictionsReply{
		Month:       month,
		Year:        year,
		Period:      period.Period,
		Predictions: list,
	}, nil
}

// toError 将引擎错误转换为带 reason 的 kratos 错误
func (s *TrendService) toError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, usecase.ErrSuperseded):
		return errors.Conflict(ReasonSuperseded, err.Error())
	case errors.Is(err, engine.ErrMissingAPIKey):
		return errors.ServiceUnavailable(ReasonAPIKeyMissing, err.Error())
	case errors.Is(err, engine.ErrInvalidArgument):
		return errors.BadRequest(ReasonInvalidArgument, err.Error())
	case errors.Is(err, engine.ErrMalformedResponse):
		s.log.WithContext(ctx).Warnf("malformed model response: %v", err)
		return errors.New(502, ReasonMalformedResponse, err.Error())
	default:
		s.log.WithContext(ctx).Errorf("model call failed: %v", err)
		return errors.New(502, ReasonModelUnavailable, err.Error())
	}
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
