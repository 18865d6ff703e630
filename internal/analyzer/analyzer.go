// Package analyzer orchestrates the analysis pipeline: it selects the most
// intense active fires, fans out environmental fetches and risk predictions
// per fire, and maintains the ranked hotspot set the dashboard consumes.
package analyzer

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/emberwatch/wildfire-intel/internal/config"
	"github.com/emberwatch/wildfire-intel/internal/envdata"
	"github.com/emberwatch/wildfire-intel/internal/firms"
	"github.com/emberwatch/wildfire-intel/internal/geo"
	"github.com/emberwatch/wildfire-intel/internal/models"
	"github.com/emberwatch/wildfire-intel/internal/observability"
	"github.com/emberwatch/wildfire-intel/internal/repository"
	"github.com/emberwatch/wildfire-intel/internal/stream"
	"github.com/emberwatch/wildfire-intel/internal/worker"
)

// Predictor classifies one observation.
type Predictor interface {
	Predict(ctx context.Context, env models.EnvData, coords *models.Coordinates) (models.PredictionResult, error)
}

// Evaluator asks the remote model to self-report accuracy. A nil result
// means "no metrics available"; it is never synthesized locally.
type Evaluator interface {
	Evaluate(ctx context.Context, fires []models.ActiveFire) (*models.EvaluationMetrics, error)
}

type Analyzer struct {
	cfg         config.AnalysisConfig
	fires       firms.Source
	env         envdata.Provider
	predictor   Predictor
	evaluator   Evaluator
	history     repository.HistoryRepository
	broadcaster *stream.Broadcaster
	metrics     *observability.Metrics
	clock       clockwork.Clock

	inFlight atomic.Bool
	wg       sync.WaitGroup

	mu          sync.RWMutex
	hotspots    []models.AnalyzedHotspot
	activeFires []models.ActiveFire
	accuracy    *models.EvaluationMetrics
	lastUpdated time.Time
}

// Options carries the optional collaborators. Any field may be nil.
type Options struct {
	Evaluator   Evaluator
	History     repository.HistoryRepository
	Broadcaster *stream.Broadcaster
	Clock       clockwork.Clock
}

func New(cfg config.AnalysisConfig, fires firms.Source, env envdata.Provider, pred Predictor, metrics *observability.Metrics, opts Options) *Analyzer {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Analyzer{
		cfg:         cfg,
		fires:       fires,
		env:         env,
		predictor:   pred,
		evaluator:   opts.Evaluator,
		history:     opts.History,
		broadcaster: opts.Broadcaster,
		metrics:     metrics,
		clock:       clock,
	}
}

// Start kicks off an immediate analysis run and the periodic refresh loop.
func (a *Analyzer) Start(ctx context.Context) {
	a.wg.Add(1)
	go a.run(ctx)
}

func (a *Analyzer) run(ctx context.Context) {
	defer a.wg.Done()
	slog.Info("starting analysis loop", "interval", a.cfg.RefreshInterval, "max_hotspots", a.cfg.MaxHotspots)

	ticker := a.clock.NewTicker(a.cfg.RefreshInterval)
	defer ticker.Stop()

	a.RunBatch(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("analysis loop shutting down")
			return
		case <-ticker.Chan():
			a.RunBatch(ctx)
		}
	}
}

func (a *Analyzer) Stop() {
	a.wg.Wait()
	slog.Info("analyzer stopped")
}

// RunBatch performs one full analysis pass. At most one batch is in flight
// at a time; a call while a previous run is still executing is a no-op.
func (a *Analyzer) RunBatch(ctx context.Context) {
	if !a.inFlight.CompareAndSwap(false, true) {
		slog.Debug("analysis already in progress, skipping run")
		a.metrics.BatchSkipped.Inc()
		return
	}
	defer a.inFlight.Store(false)

	start := a.clock.Now()

	fires, err := a.fires.ActiveFires(ctx)
	if err != nil {
		// Only possible with a non-degrading fire source.
		slog.Error("fire feed fetch failed, keeping previous hotspot set", "error", err)
		return
	}
	a.metrics.FiresFetched.Set(float64(len(fires)))

	results := a.analyzeTop(ctx, fires)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Prediction.RiskLevel.SeverityRank() > results[j].Prediction.RiskLevel.SeverityRank()
	})

	now := a.clock.Now()
	a.mu.Lock()
	a.activeFires = fires
	a.hotspots = results
	a.lastUpdated = now
	a.mu.Unlock()

	a.recordHistory(ctx, results, false)
	if a.broadcaster != nil {
		a.broadcaster.Publish(stream.Update{Hotspots: results})
	}
	a.refreshAccuracy(ctx, fires)

	a.metrics.BatchRuns.Inc()
	a.metrics.BatchDuration.Observe(a.clock.Since(start).Seconds())
	slog.Info("batch analysis complete", "fires", len(fires), "analyzed", len(results), "duration", a.clock.Since(start))
}

// analyzeTop selects the brightest fires and analyzes them concurrently.
// Each fire is an independent task; a failing item is dropped and logged,
// never allowed to void the batch.
func (a *Analyzer) analyzeTop(ctx context.Context, fires []models.ActiveFire) []models.AnalyzedHotspot {
	sorted := make([]models.ActiveFire, len(fires))
	copy(sorted, fires)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Brightness > sorted[j].Brightness
	})

	limit := a.cfg.MaxHotspots
	if limit > len(sorted) {
		limit = len(sorted)
	}

	jobs := make([]worker.Job, 0, limit)
	for i := range sorted[:limit] {
		jobs = append(jobs, i)
	}

	// Each task writes its own slot so the brightness-descending selection
	// order survives concurrent completion; failed slots stay nil and are
	// compacted out. Keeps equal-severity hotspots in a stable order across
	// runs.
	slots := make([]*models.AnalyzedHotspot, limit)

	worker.RunBatch(ctx, a.cfg.WorkerCount, jobs, func(ctx context.Context, job worker.Job) error {
		i := job.(int)
		fire := sorted[i]

		hotspot, err := a.analyzeFire(ctx, fire)
		if err != nil {
			slog.Error("failed to analyze hotspot", "lat", fire.Lat, "lon", fire.Lon, "error", err)
			a.metrics.HotspotsAnalyzed.WithLabelValues("dropped").Inc()
			return err
		}

		slots[i] = &hotspot
		a.metrics.HotspotsAnalyzed.WithLabelValues("ok").Inc()
		return nil
	})

	results := make([]models.AnalyzedHotspot, 0, limit)
	for _, h := range slots {
		if h != nil {
			results = append(results, *h)
		}
	}
	return results
}

func (a *Analyzer) analyzeFire(ctx context.Context, fire models.ActiveFire) (models.AnalyzedHotspot, error) {
	env := a.env.Fetch(ctx, fire.Lat, fire.Lon, "")

	coords := fire.Coordinates()
	prediction, err := a.predictor.Predict(ctx, env, &coords)
	if err != nil {
		return models.AnalyzedHotspot{}, err
	}
	a.countPrediction(prediction)

	return models.AnalyzedHotspot{
		ID:         geo.HotspotID(fire.Lat, fire.Lon, false),
		FireData:   fire,
		EnvData:    env,
		Prediction: &prediction,
	}, nil
}

// AnalyzeOne runs the single-coordinate path: one environmental fetch and
// one prediction for a user-submitted location. Unlike the batch path, its
// failure is surfaced to the caller.
func (a *Analyzer) AnalyzeOne(ctx context.Context, lat, lon float64, name string) (models.AnalyzedHotspot, error) {
	env := a.env.Fetch(ctx, lat, lon, name)

	coords := models.Coordinates{Latitude: lat, Longitude: lon}
	prediction, err := a.predictor.Predict(ctx, env, &coords)
	if err != nil {
		return models.AnalyzedHotspot{}, err
	}
	a.countPrediction(prediction)

	hotspot := models.AnalyzedHotspot{
		ID: geo.HotspotID(lat, lon, true),
		FireData: models.ActiveFire{
			Lat:        lat,
			Lon:        lon,
			Brightness: 0,
			AcqDate:    a.clock.Now().UTC().Format(time.RFC3339),
		},
		EnvData:    env,
		Prediction: &prediction,
	}

	a.recordHistory(ctx, []models.AnalyzedHotspot{hotspot}, true)
	if a.broadcaster != nil {
		a.broadcaster.Publish(stream.Update{Hotspots: []models.AnalyzedHotspot{hotspot}, Custom: true})
	}
	a.refreshAccuracy(ctx, a.ActiveFires())

	return hotspot, nil
}

func (a *Analyzer) countPrediction(p models.PredictionResult) {
	source := p.Source
	if source == "" {
		source = "heuristic"
	}
	a.metrics.Predictions.WithLabelValues(source).Inc()
}

func (a *Analyzer) recordHistory(ctx context.Context, hotspots []models.AnalyzedHotspot, custom bool) {
	if a.history == nil || len(hotspots) == 0 {
		return
	}

	records := make([]models.AnalysisRecord, 0, len(hotspots))
	now := a.clock.Now()
	for _, h := range hotspots {
		records = append(records, models.AnalysisRecord{
			HotspotID:  h.ID,
			Latitude:   h.FireData.Lat,
			Longitude:  h.FireData.Lon,
			Brightness: h.FireData.Brightness,
			RiskLevel:  h.Prediction.RiskLevel,
			Source:     h.Prediction.Source,
			Custom:     custom,
			AnalyzedAt: now,
		})
	}

	if err := a.history.Record(ctx, records); err != nil {
		slog.Error("error recording analysis history", "count", len(records), "error", err)
	}
}

func (a *Analyzer) refreshAccuracy(ctx context.Context, fires []models.ActiveFire) {
	if a.evaluator == nil {
		return
	}

	metrics, err := a.evaluator.Evaluate(ctx, fires)
	if err != nil {
		slog.Warn("model evaluation unavailable", "error", err)
		metrics = nil
	}

	a.mu.Lock()
	a.accuracy = metrics
	a.mu.Unlock()
}

// Hotspots returns the current ranked hotspot set.
func (a *Analyzer) Hotspots() []models.AnalyzedHotspot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]models.AnalyzedHotspot, len(a.hotspots))
	copy(out, a.hotspots)
	return out
}

// Hotspot looks up one analyzed hotspot by id.
func (a *Analyzer) Hotspot(id string) (models.AnalyzedHotspot, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, h := range a.hotspots {
		if h.ID == id {
			return h, true
		}
	}
	return models.AnalyzedHotspot{}, false
}

// ActiveFires returns the raw detection set from the last batch run.
func (a *Analyzer) ActiveFires() []models.ActiveFire {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]models.ActiveFire, len(a.activeFires))
	copy(out, a.activeFires)
	return out
}

// Accuracy returns the latest model self-evaluation, or nil when absent.
func (a *Analyzer) Accuracy() *models.EvaluationMetrics {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.accuracy
}

func (a *Analyzer) LastUpdated() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastUpdated
}
