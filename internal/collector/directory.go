package collector

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap"

	"TrendBoard/internal/cache"
	"TrendBoard/internal/metrics"
	"TrendBoard/internal/model"
)

// DefaultDirectoryURL is the NASDAQ Trader list of all exchange-traded US symbols.
const DefaultDirectoryURL = "https://www.nasdaqtrader.com/dynamic/SymDir/nasdaqtraded.txt"

const directoryCacheKey = "directory"

var fallbackSymbols = []model.Symbol{
	model.NewSymbol("SPY", "SPDR S&P 500 ETF Trust"),
	model.NewSymbol("AAPL", "Apple Inc."),
	model.NewSymbol("NVDA", "NVIDIA Corporation"),
	model.NewSymbol("MSFT", "Microsoft Corporation"),
	model.NewSymbol("TSLA", "Tesla, Inc."),
	model.NewSymbol("AMZN", "Amazon.com, Inc."),
	model.NewSymbol("GOOGL", "Alphabet Inc. Class A"),
}

// FallbackSymbols returns the static list served when the feed is unreachable,
// sorted by symbol.
func FallbackSymbols() []model.Symbol {
	out := append([]model.Symbol(nil), fallbackSymbols...)
	sortSymbols(out)
	return out
}

func sortSymbols(s []model.Symbol) {
	sort.Slice(s, func(i, j int) bool { return s[i].Symbol < s[j].Symbol })
}

// DirectoryLoader lists tradable symbols from a pipe-delimited feed.
type DirectoryLoader struct {
	FeedURL string
	Client  *http.Client
	cache   *cache.Cache
	logger  *zap.Logger
}

// NewDirectoryLoader creates a loader that owns c.
func NewDirectoryLoader(feedURL, proxyURL string, c *cache.Cache, logger *zap.Logger) *DirectoryLoader {
	if feedURL == "" {
		feedURL = DefaultDirectoryURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryLoader{
		FeedURL: feedURL,
		Client:  newHTTPClient(proxyURL),
		cache:   c,
		logger:  logger,
	}
}

// ListSymbols returns the full directory sorted by symbol. It never fails: on
// any fetch or parse problem it returns the fallback list with a warning.
func (d *DirectoryLoader) ListSymbols(ctx context.Context) model.Directory {
	if raw, ok := d.cache.Get(ctx, directoryCacheKey); ok {
		var entries []model.Symbol
		if err := json.Unmarshal(raw, &entries); err == nil && len(entries) > 0 {
			return model.Directory{Entries: entries}
		}
	}

	entries, err := d.fetch(ctx)
	if err != nil {
		metrics.Fetches.WithLabelValues("directory", "error").Inc()
		metrics.DirectoryFallbacks.Inc()
		d.logger.Warn("symbol directory unavailable, using fallback list", zap.Error(err))
		return model.Directory{
			Entries:  FallbackSymbols(),
			Fallback: true,
			Warning:  fmt.Errorf("%w: %v", model.ErrDirectoryUnavailable, err),
		}
	}
	metrics.Fetches.WithLabelValues("directory", "ok").Inc()

	if raw, err := json.Marshal(entries); err == nil {
		d.cache.Put(ctx, directoryCacheKey, raw)
	}
	d.logger.Info("symbol directory loaded", zap.Int("symbols", len(entries)))
	return model.Directory{Entries: entries}
}

func (d *DirectoryLoader) fetch(ctx context.Context) ([]model.Symbol, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.FeedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch directory: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch directory: status %d", resp.StatusCode)
	}
	return ParseDirectory(resp.Body)
}

// ParseDirectory reads a pipe-delimited symbol feed with a header row naming
// at least the Symbol, Security Name and Test Issue columns. Test issues,
// rows without a symbol and duplicates are dropped; the result is sorted.
func ParseDirectory(r io.Reader) ([]model.Symbol, error) {
	reader := csv.NewReader(r)
	reader.Comma = '|'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	symIdx, ok1 := cols["Symbol"]
	nameIdx, ok2 := cols["Security Name"]
	testIdx, ok3 := cols["Test Issue"]
	if !ok1 || !ok2 || !ok3 {
		return nil, errors.New("directory header is missing Symbol, Security Name or Test Issue")
	}
	width := max(symIdx, nameIdx, testIdx) + 1

	seen := make(map[string]struct{})
	var entries []model.Symbol
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) < width {
			continue // short or blank row
		}
		if strings.EqualFold(strings.TrimSpace(rec[testIdx]), "Y") {
			continue
		}
		symbol := strings.TrimSpace(rec[symIdx])
		if symbol == "" {
			continue // trailer such as "File Creation Time: ..."
		}
		if _, dup := seen[symbol]; dup {
			continue
		}
		seen[symbol] = struct{}{}
		entries = append(entries, model.NewSymbol(symbol, strings.TrimSpace(rec[nameIdx])))
	}
	if len(entries) == 0 {
		return nil, errors.New("directory feed contained no symbols")
	}
	sortSymbols(entries)
	return entries, nil
}
