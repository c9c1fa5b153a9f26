package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
)

const (
	chartSeriesDays     = 7
	chartURLTruncateLen = 30
)

type analyticsHandler struct {
	useCase  analyticsUseCase
	renderer PageRenderer
}

func newAnalyticsHandler(useCase analyticsUseCase, renderer PageRenderer) *analyticsHandler {
	return &analyticsHandler{
		useCase:  useCase,
		renderer: renderer,
	}
}

type summaryResponse struct {
	TotalURLs   int64         `json:"total_urls"`
	TotalClicks int64         `json:"total_clicks"`
	TopURLs     []topURLEntry `json:"top_urls"`
	RecentCount int64         `json:"recent_urls_count"`
}

type topURLEntry struct {
	ShortCode   string `json:"short_code"`
	Clicks      int64  `json:"clicks"`
	OriginalURL string `json:"original_url"`
}

type dailyClicksEntry struct {
	Date   string `json:"date"`
	Clicks int64  `json:"clicks"`
}

type urlCreationEntry struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type chartDataResponse struct {
	DailyClicks []dailyClicksEntry `json:"daily_clicks"`
	TopURLs     []topURLEntry      `json:"top_urls"`
	URLCreation []urlCreationEntry `json:"url_creation"`
}

func truncateURL(originalURL string) string {
	runes := []rune(originalURL)
	if len(runes) > chartURLTruncateLen {
		return string(runes[:chartURLTruncateLen]) + "..."
	}
	return originalURL
}

func (h *analyticsHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromContext(r.Context())

	summary, err := h.useCase.Summary(r.Context(), owner)
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse("server error"))
		return
	}

	resp := summaryResponse{
		TotalURLs:   summary.TotalURLs,
		TotalClicks: summary.TotalClicks,
		TopURLs:     make([]topURLEntry, 0, len(summary.TopURLs)),
		RecentCount: summary.RecentCount,
	}

	for _, rec := range summary.TopURLs {
		resp.TopURLs = append(resp.TopURLs, topURLEntry{
			ShortCode:   rec.ShortCode,
			Clicks:      rec.Clicks,
			OriginalURL: rec.OriginalURL,
		})
	}

	h.renderer.Page(w, r, http.StatusOK, "analytics", resp)
}

func (h *analyticsHandler) data(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromContext(r.Context())

	series, err := h.useCase.TimeSeries(r.Context(), owner, chartSeriesDays)
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse("server error"))
		return
	}

	summary, err := h.useCase.Summary(r.Context(), owner)
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse("server error"))
		return
	}

	resp := chartDataResponse{
		DailyClicks: make([]dailyClicksEntry, 0, len(series)),
		TopURLs:     make([]topURLEntry, 0, len(summary.TopURLs)),
		URLCreation: make([]urlCreationEntry, 0, len(series)),
	}

	for _, stat := range series {
		date := stat.Date.Format(time.DateOnly)

		resp.DailyClicks = append(resp.DailyClicks, dailyClicksEntry{
			Date:   date,
			Clicks: stat.Clicks,
		})
		resp.URLCreation = append(resp.URLCreation, urlCreationEntry{
			Date:  date,
			Count: stat.Creations,
		})
	}

	for _, rec := range summary.TopURLs {
		resp.TopURLs = append(resp.TopURLs, topURLEntry{
			ShortCode:   rec.ShortCode,
			Clicks:      rec.Clicks,
			OriginalURL: truncateURL(rec.OriginalURL),
		})
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}
