// file: internals/features/readings/service/consumption_resolver.go
package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"quanlychungcu_backend/internals/features/readings/model"
)

// ConsumptionResult is the per-household outcome for one consumption fee
// type in one target month.
type ConsumptionResult struct {
	Consumption int64
	Missing     bool // no reading recorded for the target month
}

// ConsumptionResolver turns raw meter readings into billable consumption for
// a period's target month: consumption = max(0, new − previous). A missing
// previous reading counts as 0 (first-ever reading); a missing new reading
// marks the household as Missing so the calculator can skip just that line.
type ConsumptionResolver struct {
	DB       *gorm.DB
	readings *ReadingService
}

func NewConsumptionResolver(db *gorm.DB) *ConsumptionResolver {
	return &ConsumptionResolver{DB: db, readings: NewReadingService(db)}
}

// Resolve computes consumption for every given household. Current and
// previous months are loaded in two batch queries; the slower
// latest-before-T fallback only runs for households without a T−1 record.
func (r *ConsumptionResolver) Resolve(loaiPhiID uuid.UUID, thang, nam int, householdIDs []uuid.UUID) (map[uuid.UUID]ConsumptionResult, error) {
	out := make(map[uuid.UUID]ConsumptionResult, len(householdIDs))
	if len(householdIDs) == 0 {
		return out, nil
	}

	currentByHo, err := r.readingsFor(loaiPhiID, thang, nam, householdIDs)
	if err != nil {
		return nil, err
	}

	pm, py := prevMonth(thang, nam)
	prevByHo, err := r.readingsFor(loaiPhiID, pm, py, householdIDs)
	if err != nil {
		return nil, err
	}

	for _, hoID := range householdIDs {
		cur, ok := currentByHo[hoID]
		if !ok {
			out[hoID] = ConsumptionResult{Missing: true}
			continue
		}

		prev, ok := prevByHo[hoID]
		if !ok {
			// no T−1 record → latest strictly before T, else 0
			prev, err = r.readings.previousReading(hoID, loaiPhiID, thang, nam)
			if err != nil {
				return nil, err
			}
		}

		delta := cur - prev
		if delta < 0 {
			// data-entry anomaly; clamp instead of blocking the whole run
			delta = 0
		}
		out[hoID] = ConsumptionResult{Consumption: delta}
	}
	return out, nil
}

// MissingHouseholds filters the resolve output down to the households with
// no reading, for operator surfacing.
func MissingHouseholds(results map[uuid.UUID]ConsumptionResult) []uuid.UUID {
	var out []uuid.UUID
	for hoID, res := range results {
		if res.Missing {
			out = append(out, hoID)
		}
	}
	return out
}

func (r *ConsumptionResolver) readingsFor(loaiPhiID uuid.UUID, thang, nam int, householdIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	var rows []model.ChiSoDienNuoc
	if err := r.DB.
		Where("chi_so_loai_phi_id = ? AND chi_so_thang = ? AND chi_so_nam = ?", loaiPhiID, thang, nam).
		Where("chi_so_ho_gia_dinh_id IN ?", householdIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		out[row.ChiSoHoGiaDinhID] = row.ChiSoMoi
	}
	return out, nil
}
