package dashboard

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"TrendBoard/internal/metrics"
	"TrendBoard/internal/model"
)

// Selection modes offered by the page.
const (
	ModeSearch = "search"
	ModeManual = "manual"
)

// DefaultSymbol is analyzed when the page is opened without a selection.
const DefaultSymbol = "SPY"

//go:embed web/index.html
var webFS embed.FS

var pageTemplate = template.Must(template.ParseFS(webFS, "web/index.html"))

// Server serves the dashboard page and its JSON API.
type Server struct {
	service *Service
	logger  *zap.Logger
	router  *mux.Router
}

// NewServer creates a Server and registers its routes.
func NewServer(service *Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{service: service, logger: logger, router: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/api/symbols", s.handleSymbols).Methods(http.MethodGet)
	s.router.HandleFunc("/api/analysis", s.handleAnalysis).Methods(http.MethodGet)
	s.router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
}

// Handler returns the router wrapped in the health check, request id and
// access log middleware.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = AccessLog(s.logger)(h)
	h = RequestID(h)
	return HealthCheck{}.Handler(h)
}

type pageData struct {
	Title   string
	Mode    string
	Input   string
	Entries []model.Symbol
	Warning string
	View    *View
	Error   string
	Bullish bool
	Defined bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	mode := q.Get("mode")
	if mode != ModeManual {
		mode = ModeSearch
	}
	selection := q.Get("symbol")
	if selection == "" {
		selection = DefaultSymbol
	}

	data := pageData{Title: "S&P Valuation Dashboard", Mode: mode}

	dir := s.service.Symbols(ctx)
	if dir.Warning != nil {
		data.Warning = "Symbol directory unavailable, showing a short default list."
	}
	if mode == ModeSearch {
		data.Entries = dir.Entries
		data.Input = labelFor(dir.Entries, selection)
	} else {
		data.Input = model.NormalizeSymbol(selection)
	}

	status := http.StatusOK
	view, err := s.service.Render(ctx, selection)
	if err != nil {
		status = statusFor(err)
		data.Error = userMessage(err, model.SymbolFromLabel(selection))
		s.logRenderError(r, selection, err)
	} else {
		data.View = view
		data.Bullish = view.Bullish()
		data.Defined = view.Signal.Defined()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("render page", zap.Error(err))
	}
}

type symbolsResponse struct {
	Symbols  []model.Symbol `json:"symbols"`
	Fallback bool           `json:"fallback"`
	Warning  string         `json:"warning,omitempty"`
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	dir := s.service.Symbols(r.Context())
	resp := symbolsResponse{Symbols: dir.Entries, Fallback: dir.Fallback}
	if dir.Warning != nil {
		resp.Warning = dir.Warning.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	selection := r.URL.Query().Get("symbol")
	view, err := s.service.Render(r.Context(), selection)
	if err != nil {
		s.logRenderError(r, selection, err)
		writeError(w, statusFor(err), userMessage(err, model.SymbolFromLabel(selection)))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) logRenderError(r *http.Request, selection string, err error) {
	fields := []zap.Field{
		zap.String("selection", selection),
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.Error(err),
	}
	if statusFor(err) == http.StatusInternalServerError {
		s.logger.Error("render failed", fields...)
		return
	}
	s.logger.Info("render rejected", fields...)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNoHistoryData):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func userMessage(err error, symbol string) string {
	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		return "Enter a ticker symbol."
	case errors.Is(err, model.ErrNoHistoryData):
		return "No data found for " + symbol + ". The symbol may be invalid or delisted."
	default:
		return "Analysis failed."
	}
}

// labelFor returns the directory label for symbol, or the input unchanged.
func labelFor(entries []model.Symbol, selection string) string {
	symbol := model.SymbolFromLabel(selection)
	for _, e := range entries {
		if e.Symbol == symbol {
			return e.Label
		}
	}
	return selection
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
