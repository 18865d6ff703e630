package repository

import (
	"context"
	"time"

	"github.com/emberwatch/wildfire-intel/internal/models"
)

type Filter struct {
	Limit     int
	Since     *time.Time
	MinLevel  *models.RiskLevel // >= this severity
	Custom    *bool
	HotspotID string
}

// HistoryRepository records completed analyses so past risk assessments can
// be reviewed. The live hotspot set itself stays in process memory.
type HistoryRepository interface {
	Record(ctx context.Context, records []models.AnalysisRecord) error
	List(ctx context.Context, opts Filter) ([]models.AnalysisRecord, error)
}
