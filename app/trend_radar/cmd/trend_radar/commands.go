package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	dm "github.com/iWorld-y/trend_radar/app/trend_radar/pkg/model"
)

// analyzer 命令行用到的引擎能力
type analyzer interface {
	MarketAnalysis(ctx context.Context) (*dm.TrendData, error)
	CalendarEvents(ctx context.Context) (*dm.CalendarResult, error)
	PsychologyInsights(ctx context.Context, group dm.AgeGroup) (string, error)
	MonthlyPredictions(ctx context.Context, month, year int, customContext string) ([]dm.DesignPrediction, error)
}

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "分析当前 Shopee 童装 T 恤趋势",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		data, err := a.MarketAnalysis(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(data)
	},
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "查询未来 3-6 个月的电影、游戏和节假日",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		res, err := a.CalendarEvents(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var psychologyCmd = &cobra.Command{
	Use:   "psychology",
	Short: "输出某年龄段的色彩心理分析 (Markdown)",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("age-group")
		group, err := dm.ParseAgeGroup(raw)
		if err != nil {
			return err
		}
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		text, err := a.PsychologyInsights(cmd.Context(), group)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, text)
		return err
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "预测某月的爆款设计主题",
	RunE: func(cmd *cobra.Command, args []string) error {
		month, year := monthYear(cmd)
		customContext, _ := cmd.Flags().GetString("context")
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		list, err := a.MonthlyPredictions(cmd.Context(), month, year, customContext)
		if err != nil {
			return err
		}
		return printJSON(list)
	},
}

func init() {
	psychologyCmd.Flags().String("age-group", string(dm.AgeToddler), "age group: toddler (3-5) or kid (6-10)")
	addMonthFlags(predictCmd)
	predictCmd.Flags().String("context", "", "extra context, e.g. an upcoming movie")

	rootCmd.AddCommand(marketCmd, calendarCmd, psychologyCmd, predictCmd)
}
