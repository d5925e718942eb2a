package dashboard

import (
	"context"
	"fmt"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"TrendBoard/internal/metrics"
	"TrendBoard/internal/model"
	"TrendBoard/internal/strategy"
)

const dateLayout = "2006-01-02"

// HistorySource loads a daily price series; None means no data.
type HistorySource interface {
	LoadHistory(ctx context.Context, symbol string) optional.Option[model.PriceSeries]
}

// SymbolSource lists the symbols offered for selection.
type SymbolSource interface {
	ListSymbols(ctx context.Context) model.Directory
}

// View is everything the page and the JSON API show for one symbol.
type View struct {
	Symbol  string            `json:"symbol"`
	Chart   Chart             `json:"chart"`
	Metrics []Metric          `json:"metrics"`
	Signal  model.TrendSignal `json:"signal"`
	Badge   string            `json:"badge"`
}

// Chart holds the candlestick columns and both overlays, index-aligned.
// Overlay entries are null where the average is undefined.
type Chart struct {
	Dates     []string   `json:"dates"`
	Open      []float64  `json:"open"`
	High      []float64  `json:"high"`
	Low       []float64  `json:"low"`
	Close     []float64  `json:"close"`
	Fast      []*float64 `json:"fast"`
	Slow      []*float64 `json:"slow"`
	FastLabel string     `json:"fast_label"`
	SlowLabel string     `json:"slow_label"`
}

// Metric is one labelled figure in the metrics row.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Bullish reports whether the badge should be drawn as positive.
func (v *View) Bullish() bool { return v.Signal == model.SignalBullish }

// Service binds a selection to the history loader and the analyzer.
type Service struct {
	history    HistorySource
	directory  SymbolSource
	fastWindow int
	slowWindow int
	logger     *zap.Logger
}

// NewService creates a Service analyzing with the given SMA windows.
func NewService(history HistorySource, directory SymbolSource, fastWindow, slowWindow int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		history:    history,
		directory:  directory,
		fastWindow: fastWindow,
		slowWindow: slowWindow,
		logger:     logger,
	}
}

// Symbols returns the selectable directory, possibly the fallback list.
func (s *Service) Symbols(ctx context.Context) model.Directory {
	return s.directory.ListSymbols(ctx)
}

// Render loads history for the selected symbol or directory label, analyzes
// it and builds the view. Missing or empty history yields ErrNoHistoryData.
func (s *Service) Render(ctx context.Context, selection string) (*View, error) {
	symbol := model.SymbolFromLabel(selection)
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol: %w", model.ErrInvalidArgument)
	}

	series, err := s.history.LoadHistory(ctx, symbol).Take()
	if err != nil || series.Empty() {
		return nil, fmt.Errorf("symbol %s: %w", symbol, model.ErrNoHistoryData)
	}

	report, err := strategy.Evaluate(series, s.fastWindow, s.slowWindow)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %v", symbol, err)
	}
	metrics.Analyses.WithLabelValues(report.Summary.Signal.String()).Inc()
	s.logger.Debug("analysis complete",
		zap.String("symbol", symbol),
		zap.Int("bars", series.Len()),
		zap.String("signal", report.Summary.Signal.String()))

	return s.buildView(symbol, report), nil
}

func (s *Service) buildView(symbol string, report *model.TrendReport) *View {
	n := report.Series.Len()
	chart := Chart{
		Dates:     make([]string, n),
		Open:      make([]float64, n),
		High:      make([]float64, n),
		Low:       make([]float64, n),
		Close:     make([]float64, n),
		Fast:      chartValues(report.Fast),
		Slow:      chartValues(report.Slow),
		FastLabel: smaLabel(s.fastWindow),
		SlowLabel: smaLabel(s.slowWindow),
	}
	for i, p := range report.Series.Points {
		chart.Dates[i] = p.Date.Format(dateLayout)
		chart.Open[i] = p.Open
		chart.High[i] = p.High
		chart.Low[i] = p.Low
		chart.Close[i] = p.Close
	}

	sum := report.Summary
	return &View{
		Symbol: symbol,
		Chart:  chart,
		Metrics: []Metric{
			{Label: "Current Price", Value: FormatPrice(sum.LatestClose)},
			{Label: smaLabel(s.fastWindow), Value: FormatPrice(sum.LatestFast)},
			{Label: smaLabel(s.slowWindow), Value: FormatPrice(sum.LatestSlow)},
		},
		Signal: sum.Signal,
		Badge:  FormatBadge(sum.Signal, s.fastWindow, s.slowWindow),
	}
}
