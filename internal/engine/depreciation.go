package engine

import (
	"context"
	"fmt"

	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// Depreciation schedule bounds, in months.
const (
	scheduleMaxAge = 48
	scheduleStep   = 6
)

// SchedulePoint is the valuation of a device at one age.
type SchedulePoint struct {
	AgeMonths      int   `json:"age_months"`
	PredictedPrice int64 `json:"predicted_price"`
	AdjustedPrice  int64 `json:"adjusted_price"`
}

// DepreciationSchedule values rec at ages 0, 6, ..., 48 months with all other
// attributes unchanged. Every point shares the record's labels, so the
// vectors are built first and scored in one model call.
func (eng *Engine) DepreciationSchedule(
	ctx context.Context,
	rec domain.DeviceRecord,
	opts ...CallOption,
) ([]SchedulePoint, error) {
	cfg, err := eng.callConfig(opts)
	if err != nil {
		return nil, domain.NewValuationError(err)
	}

	_, span := eng.tracer.Start(ctx, "engine.DepreciationSchedule")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, domain.NewValuationError(err)
	}

	records := make([]domain.DeviceRecord, 0, scheduleMaxAge/scheduleStep+1)
	vecs := make([]domain.FeatureVector, 0, cap(records))
	for age := 0; age <= scheduleMaxAge; age += scheduleStep {
		r := rec
		r.AgeMonths = age
		vec, err := eng.builder.Build(r)
		if err != nil {
			return nil, domain.NewValuationError(err)
		}
		records = append(records, r)
		vecs = append(vecs, vec)
	}

	raws, err := eng.model.PredictBatch(vecs)
	if err != nil {
		return nil, domain.NewValuationError(fmt.Errorf("predicting schedule: %w", err))
	}

	points := make([]SchedulePoint, len(records))
	for i := range records {
		res := eng.adjust(records[i], vecs[i].Schema, raws[i], cfg)
		points[i] = SchedulePoint{
			AgeMonths:      records[i].AgeMonths,
			PredictedPrice: res.PredictedPrice,
			AdjustedPrice:  res.AdjustedPrice,
		}
	}
	return points, nil
}
