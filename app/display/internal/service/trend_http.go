package service

import (
	"context"

	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/trend_radar/app/display/internal/domain"
)

const (
	OperationTrendMarket      = "/trend.v1.Trend/Market"
	OperationTrendCalendar    = "/trend.v1.Trend/Calendar"
	OperationTrendPsychology  = "/trend.v1.Trend/Psychology"
	OperationTrendPredictions = "/trend.v1.Trend/Predictions"
)

type TrendHTTPServer interface {
	Market(context.Context, *domain.MarketRequest) (*domain.MarketReply, error)
	Calendar(context.Context, *domain.CalendarRequest) (*domain.CalendarReply, error)
	Psychology(context.Context, *domain.PsychologyRequest) (*domain.PsychologyReply, error)
	Predictions(context.Context, *domain.PredictionsRequest) (*domain.PredictionsReply, error)
}

// RegisterTrendHTTPServer 注册趋势查询路由
func RegisterTrendHTTPServer(s *http.Server, srv TrendHTTPServer) {
	r := s.Route("/")
	r.GET("/api/v1/market", _Trend_Market0_HTTP_Handler(srv))
	r.GET("/api/v1/calendar", _Trend_Calendar0_HTTP_Handler(srv))
	r.GET("/api/v1/psychology", _Trend_Psychology0_HTTP_Handler(srv))
	r.GET("/api/v1/predictions", _Trend_Predictions0_HTTP_Handler(srv))
}

func _Trend_Market0_HTTP_Handler(srv TrendHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in domain.MarketRequest
		http.SetOperation(ctx, OperationTrendMarket)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Market(ctx, req.(*domain.MarketRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*domain.MarketReply))
	}
}

func _Trend_Calendar0_HTTP_Handler(srv TrendHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in domain.CalendarRequest
		http.SetOperation(ctx, OperationTrendCalendar)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Calendar(ctx, req.(*domain.CalendarRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*domain.CalendarReply))
	}
}

func _Trend_Psychology0_HTTP_Handler(srv TrendHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in domain.PsychologyRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationTrendPsychology)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Psychology(ctx, req.(*domain.PsychologyRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*domain.PsychologyReply))
	}
}

func _Trend_Predictions0_HTTP_Handler(srv TrendHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in domain.PredictionsRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationTrendPredictions)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Predictions(ctx, req.(*domain.PredictionsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*domain.PredictionsReply))
	}
}
