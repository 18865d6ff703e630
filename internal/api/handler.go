package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emberwatch/wildfire-intel/internal/chat"
	"github.com/emberwatch/wildfire-intel/internal/geocode"
	"github.com/emberwatch/wildfire-intel/internal/models"
	"github.com/emberwatch/wildfire-intel/internal/predictor"
	"github.com/emberwatch/wildfire-intel/internal/repository"
	"github.com/emberwatch/wildfire-intel/internal/stream"
)

// AnalysisService is the analyzer surface the handlers consume.
type AnalysisService interface {
	Hotspots() []models.AnalyzedHotspot
	Hotspot(id string) (models.AnalyzedHotspot, bool)
	ActiveFires() []models.ActiveFire
	Accuracy() *models.EvaluationMetrics
	LastUpdated() time.Time
	AnalyzeOne(ctx context.Context, lat, lon float64, name string) (models.AnalyzedHotspot, error)
}

// ForecastService supplies the monthly timeline pass-through.
type ForecastService interface {
	Timeline(ctx context.Context, lat, lon float64) ([]models.TimelineForecast, error)
}

type Handler struct {
	analysis    AnalysisService
	forecast    ForecastService
	geocoder    geocode.Geocoder
	history     repository.HistoryRepository
	broadcaster *stream.Broadcaster
}

func NewHandler(analysis AnalysisService, forecast ForecastService, geocoder geocode.Geocoder, history repository.HistoryRepository, broadcaster *stream.Broadcaster) *Handler {
	return &Handler{
		analysis:    analysis,
		forecast:    forecast,
		geocoder:    geocoder,
		history:     history,
		broadcaster: broadcaster,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)
	r.GET("/api/hotspots", h.getHotspots)
	r.GET("/api/fires", h.getFires)
	r.POST("/api/analyze", h.analyze)
	r.GET("/api/accuracy", h.getAccuracy)
	r.GET("/api/timeline", h.getTimeline)
	r.POST("/api/chat", h.postChat)
	r.GET("/api/history", h.getHistory)
	r.GET("/api/stream", h.streamUpdates)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getHotspots(c *gin.Context) {
	fc := hotspotsToGeoJSON(h.analysis.Hotspots())
	c.Header("Content-Type", "application/geo+json")
	c.Header("Last-Modified", h.analysis.LastUpdated().UTC().Format(http.TimeFormat))
	c.JSON(http.StatusOK, fc)
}

func (h *Handler) getFires(c *gin.Context) {
	fc := firesToGeoJSON(h.analysis.ActiveFires())
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

type analyzeRequest struct {
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
	Name  string   `json:"name"`
	Query string   `json:"query"`
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	lat, lon, name := 0.0, 0.0, req.Name

	switch {
	case req.Query != "":
		result, err := h.geocoder.Search(c.Request.Context(), req.Query)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
			return
		}
		lat, lon, name = result.Lat, result.Lon, result.DisplayName
	case req.Lat != nil && req.Lon != nil:
		lat, lon = *req.Lat, *req.Lon
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat/lon or query required"})
		return
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
		return
	}

	hotspot, err := h.analysis.AnalyzeOne(c.Request.Context(), lat, lon, name)
	if err != nil {
		if errors.Is(err, predictor.ErrUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "prediction unavailable"})
			return
		}
		slog.Error("custom analysis failed", "lat", lat, "lon", lon, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to analyze location"})
		return
	}

	c.JSON(http.StatusOK, hotspot)
}

func (h *Handler) getAccuracy(c *gin.Context) {
	metrics := h.analysis.Accuracy()
	if metrics == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (h *Handler) getTimeline(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon query params required"})
		return
	}

	forecast, err := h.forecast.Timeline(c.Request.Context(), lat, lon)
	if err != nil {
		slog.Warn("timeline forecast unavailable", "lat", lat, "lon", lon, "error", err)
		forecast = []models.TimelineForecast{}
	}
	c.JSON(http.StatusOK, forecast)
}

type chatRequest struct {
	Query     string `json:"query"`
	HotspotID string `json:"hotspot_id"`
}

func (h *Handler) postChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query required"})
		return
	}

	var context *models.AnalyzedHotspot
	if req.HotspotID != "" {
		if hotspot, ok := h.analysis.Hotspot(req.HotspotID); ok {
			context = &hotspot
		}
	}

	c.JSON(http.StatusOK, gin.H{"reply": chat.AnalystResponse(req.Query, context)})
}

func (h *Handler) getHistory(c *gin.Context) {
	filter := repository.Filter{
		Limit: 50,
	}

	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= 500 {
			filter.Limit = lim
		}
	}
	if s := c.Query("since"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.Since = &t
		}
	}
	if ml := c.Query("min_level"); ml != "" {
		level := models.ParseRiskLevel(ml)
		filter.MinLevel = &level
	}
	if cu := c.Query("custom"); cu != "" {
		if b, err := strconv.ParseBool(cu); err == nil {
			filter.Custom = &b
		}
	}

	records, err := h.history.List(c.Request.Context(), filter)
	if err != nil {
		slog.Error("error listing analysis history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (h *Handler) streamUpdates(c *gin.Context) {
	id, ch := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(id)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case update, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("update", update)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
