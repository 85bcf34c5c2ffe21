package web

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"crypto_dash/internal/domain"
	"crypto_dash/internal/render"
	"crypto_dash/internal/view"
	jsonresponse "crypto_dash/pkg/jsonresponse"

	"github.com/gorilla/mux"
)

const (
	chartWidth  = 800
	chartHeight = 320
	chartPoints = 200
)

type pageData struct {
	Title  string
	Theme  string
	Now    time.Time
	Ticker view.Snapshot[[]domain.TickerEntry]
	Body   any
}

// assetQuery is the query string of the asset routes.
type assetQuery struct {
	Timeframe string `schema:"tf"`
}

type detailPage struct {
	ID        string
	Timeframe domain.Timeframe
	Snapshot  view.Snapshot[view.DetailData]
	Chart     render.Chart
	Span      string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap := s.dashboard.Snapshot()
	status := http.StatusOK
	if snap.Phase() == view.PhaseError {
		status = http.StatusBadGateway
	}
	s.renderPage(w, r, status, "dashboard", "Crypto Dashboard", snap)
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	s.dashboard.Retry()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	tf, err := s.timeframe(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap := s.loadAsset(r, id, tf)

	page := detailPage{ID: id, Timeframe: tf, Snapshot: snap}
	status := http.StatusOK
	title := "Asset"
	if snap.Phase() == view.PhaseReady {
		prices := render.Downsample(render.Prices(snap.Data.History), chartPoints)
		page.Chart = render.NewChart(prices, chartWidth, chartHeight)
		page.Span = render.Span(snap.Data.History, tf)
		title = snap.Data.Asset.Name
	} else {
		status = http.StatusBadGateway
	}
	s.renderPage(w, r, status, "detail", title, page)
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	next := themeDark
	if s.theme(r) == themeDark {
		next = themeLight
	}
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    next,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

func (s *Server) apiDashboard(w http.ResponseWriter, r *http.Request) {
	snap := s.dashboard.Snapshot()
	if snap.Phase() == view.PhaseError {
		jsonresponse.WriteError(w, jsonresponse.WrapError(jsonresponse.ErrUpstream, snap.Error, http.StatusBadGateway))
		return
	}
	jsonresponse.WriteResponse(w, http.StatusOK, snap)
}

type tickerResponse struct {
	view.Snapshot[[]domain.TickerEntry]
	Time time.Time `json:"time"`
}

func (s *Server) apiTicker(w http.ResponseWriter, r *http.Request) {
	jsonresponse.WriteResponse(w, http.StatusOK, tickerResponse{
		Snapshot: s.ticker.Snapshot(),
		Time:     s.ticker.Clock().Now(),
	})
}

func (s *Server) apiAsset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	tf, err := s.timeframe(r)
	if err != nil {
		jsonresponse.WriteError(w, jsonresponse.WrapError(
			fmt.Errorf("%w: %v", jsonresponse.ErrInvalidInput, err),
			"Timeframe must be one of 24h, 7d, 30d, 1y", http.StatusBadRequest))
		return
	}

	snap := s.loadAsset(r, id, tf)
	if snap.Phase() != view.PhaseReady {
		jsonresponse.WriteError(w, jsonresponse.WrapError(jsonresponse.ErrUpstream, view.DetailError, http.StatusBadGateway))
		return
	}
	jsonresponse.WriteResponse(w, http.StatusOK, snap.Data)
}

func (s *Server) timeframe(r *http.Request) (domain.Timeframe, error) {
	var q assetQuery
	if err := s.queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		return "", err
	}
	return domain.ParseTimeframe(q.Timeframe)
}

// loadAsset runs a one-shot detail view for the request.
func (s *Server) loadAsset(r *http.Request, id string, tf domain.Timeframe) view.Snapshot[view.DetailData] {
	v := view.NewAssetDetail(s.src)
	defer v.Close()

	// No asset is selected yet, so this only records the timeframe.
	if err := v.SetTimeframe(r.Context(), tf); err != nil {
		s.logger.Warn("Rejected timeframe", slog.Any("error", err))
	}
	v.Open(r.Context(), id)
	return v.Snapshot()
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name, title string, body any) {
	data := pageData{
		Title:  title,
		Theme:  s.theme(r),
		Now:    s.now(),
		Ticker: s.ticker.Snapshot(),
		Body:   body,
	}

	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout.html", data); err != nil {
		s.logger.Error("Failed to render page", slog.String("page", name), slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// backTo returns the same-origin path of the Referer, or /.
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") ||
		(ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}
