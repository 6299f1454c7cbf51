package main

import (
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/logger"
	dm "github.com/iWorld-y/trend_radar/app/trend_radar/pkg/model"
)

// Report all 命令的汇总输出
type Report struct {
	Market      *dm.TrendData         `json:"market"`
	Calendar    *dm.CalendarResult    `json:"calendar"`
	Predictions []dm.DesignPrediction `json:"predictions"`
}

// now 测试时替换
var now = time.Now

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "并发执行 market、calendar 和 predict",
	RunE: func(cmd *cobra.Command, args []string) error {
		month, year := monthYear(cmd)
		customContext, _ := cmd.Flags().GetString("context")
		a, err := setup(cmd)
		if err != nil {
			return err
		}

		var report Report
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() (err error) {
			report.Market, err = a.MarketAnalysis(ctx)
			return err
		})
		g.Go(func() (err error) {
			report.Calendar, err = a.CalendarEvents(ctx)
			return err
		})
		g.Go(func() (err error) {
			report.Predictions, err = a.MonthlyPredictions(ctx, month, year, customContext)
			return err
		})
		if err := g.Wait(); err != nil {
			logger.Log.Errorf("汇总分析失败: %v", err)
			return err
		}
		return printJSON(report)
	},
}

func addMonthFlags(cmd *cobra.Command) {
	cmd.Flags().Int("month", 0, "month 1-12 (default: current month)")
	cmd.Flags().Int("year", 0, "year (default: current year)")
}

// monthYear 读取 --month/--year，未设置时使用当前年月
func monthYear(cmd *cobra.Command) (int, int) {
	month, _ := cmd.Flags().GetInt("month")
	year, _ := cmd.Flags().GetInt("year")
	t := now()
	if month == 0 {
		month = int(t.Month())
	}
	if year == 0 {
		year = t.Year()
	}
	return month, year
}

func init() {
	addMonthFlags(allCmd)
	allCmd.Flags().String("context", "", "extra context for predictions")

	rootCmd.AddCommand(allCmd)
}
