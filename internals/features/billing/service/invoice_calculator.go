// file: internals/features/billing/service/invoice_calculator.go
package service

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"quanlychungcu_backend/internals/features/billing/model"
	buildingsvc "quanlychungcu_backend/internals/features/buildings/service"
	feemodel "quanlychungcu_backend/internals/features/fees/model"
	readingsvc "quanlychungcu_backend/internals/features/readings/service"
	helper "quanlychungcu_backend/internals/helpers"
)

// how many household invoices are written concurrently per run
const calcWorkers = 8

// CalcSummary is the operator-facing result of one calculation run.
// Per-household problems land here instead of aborting the run.
type CalcSummary struct {
	InvoicesCreated int `json:"invoices_created"`
	InvoicesUpdated int `json:"invoices_updated"`

	// households (by display code) lacking at least one consumption reading
	HouseholdsMissingReadings []string `json:"households_missing_readings"`

	// households whose invoice write failed, with the reason
	Failures []CalcFailure `json:"failures,omitempty"`
}

type CalcFailure struct {
	HoGiaDinhMa string `json:"ho_gia_dinh_ma"`
	Reason      string `json:"reason"`
}

// lineItem is a computed line before it is written.
type lineItem struct {
	LoaiPhiID uuid.UUID
	SoLuong   int64
	DonGia    int64
}

// InvoiceCalculator produces or refreshes one invoice per household of the
// period's building. Safe to re-run: with unchanged readings and fee config
// the line set is identical and the paid amount is never touched beyond a
// status recomputation.
type InvoiceCalculator struct {
	DB       *gorm.DB
	Roster   *buildingsvc.RosterService
	Resolver *readingsvc.ConsumptionResolver
}

func NewInvoiceCalculator(db *gorm.DB) *InvoiceCalculator {
	return &InvoiceCalculator{
		DB:       db,
		Roster:   buildingsvc.NewRosterService(db),
		Resolver: readingsvc.NewConsumptionResolver(db),
	}
}

// CalculateInvoices runs billing for one period.
func (calc *InvoiceCalculator) CalculateInvoices(periodID uuid.UUID) (CalcSummary, error) {
	var summary CalcSummary

	var period model.DotThu
	if err := calc.DB.First(&period, "dot_thu_id = ?", periodID).Error; err != nil {
		return summary, err
	}
	if !period.TargetConfigured() {
		return summary, ErrPeriodNotConfigured
	}
	thang, nam := *period.DotThuThang, *period.DotThuNam

	var configs []model.DotThuPhi
	if err := calc.DB.
		Where("dot_thu_phi_dot_thu_id = ?", periodID).
		Order("dot_thu_phi_created_at ASC").
		Find(&configs).Error; err != nil {
		return summary, err
	}
	if len(configs) == 0 {
		return summary, ErrNoFeesConfigured
	}

	// fee kinds for every attached fee type
	feeIDs := make([]uuid.UUID, 0, len(configs))
	for _, cfg := range configs {
		feeIDs = append(feeIDs, cfg.DotThuPhiLoaiPhiID)
	}
	var fees []feemodel.LoaiPhi
	if err := calc.DB.Where("loai_phi_id IN ?", feeIDs).Find(&fees).Error; err != nil {
		return summary, err
	}
	feeByID := make(map[uuid.UUID]feemodel.LoaiPhi, len(fees))
	for _, f := range fees {
		feeByID[f.LoaiPhiID] = f
	}

	households, err := calc.Roster.ListHouseholds(period.DotThuToaNhaID)
	if err != nil {
		return summary, err
	}
	householdIDs := make([]uuid.UUID, 0, len(households))
	for _, ho := range households {
		householdIDs = append(householdIDs, ho.HoGiaDinhID)
	}

	// resolve consumption once per consumption-kind fee
	consumptionByFee := make(map[uuid.UUID]map[uuid.UUID]readingsvc.ConsumptionResult)
	for _, cfg := range configs {
		fee, ok := feeByID[cfg.DotThuPhiLoaiPhiID]
		if !ok || !fee.IsConsumption() {
			continue
		}
		results, err := calc.Resolver.Resolve(fee.LoaiPhiID, thang, nam, householdIDs)
		if err != nil {
			return summary, err
		}
		consumptionByFee[fee.LoaiPhiID] = results
	}

	// cross-household fan-out; each household's invoice is a single
	// transaction so a failure there never poisons the others
	var (
		mu      sync.Mutex
		missing = make(map[string]struct{})
	)
	g := new(errgroup.Group)
	g.SetLimit(calcWorkers)

	now := time.Now()
	for _, ho := range households {
		ho := ho
		g.Go(func() error {
			lines, hasMissing := calc.computeLines(ho.HoGiaDinhID, configs, feeByID, consumptionByFee)

			created, err := calc.writeInvoice(periodID, ho.HoGiaDinhID, lines, now)

			mu.Lock()
			defer mu.Unlock()
			if hasMissing {
				missing[ho.HoGiaDinhMa] = struct{}{}
			}
			if err != nil {
				log.Printf("[ERROR] invoice calc failed ho=%s: %v", ho.HoGiaDinhMa, err)
				summary.Failures = append(summary.Failures, CalcFailure{
					HoGiaDinhMa: ho.HoGiaDinhMa,
					Reason:      err.Error(),
				})
				return nil // collect-and-report, never fail-fast
			}
			if created {
				summary.InvoicesCreated++
			} else {
				summary.InvoicesUpdated++
			}
			return nil
		})
	}
	_ = g.Wait()

	for ma := range missing {
		summary.HouseholdsMissingReadings = append(summary.HouseholdsMissingReadings, ma)
	}
	sort.Strings(summary.HouseholdsMissingReadings)
	sort.Slice(summary.Failures, func(i, j int) bool {
		return summary.Failures[i].HoGiaDinhMa < summary.Failures[j].HoGiaDinhMa
	})

	return summary, nil
}

// computeLines builds the line set for one household. A consumption fee with
// no reading contributes no line at all (the household keeps its other
// lines) and flags the household as missing.
func (calc *InvoiceCalculator) computeLines(
	hoID uuid.UUID,
	configs []model.DotThuPhi,
	feeByID map[uuid.UUID]feemodel.LoaiPhi,
	consumptionByFee map[uuid.UUID]map[uuid.UUID]readingsvc.ConsumptionResult,
) ([]lineItem, bool) {
	lines := make([]lineItem, 0, len(configs))
	hasMissing := false

	for _, cfg := range configs {
		fee, ok := feeByID[cfg.DotThuPhiLoaiPhiID]
		if !ok {
			// fee type vanished from the catalog; skip rather than bill blind
			continue
		}

		if fee.IsConsumption() {
			res := consumptionByFee[fee.LoaiPhiID][hoID]
			if res.Missing {
				hasMissing = true
				continue // skip this line only, no zero-amount filler
			}
			lines = append(lines, lineItem{
				LoaiPhiID: fee.LoaiPhiID,
				SoLuong:   res.Consumption,
				DonGia:    cfg.DotThuPhiDonGia,
			})
			continue
		}

		// fixed fee: one unit at the snapshot price
		lines = append(lines, lineItem{
			LoaiPhiID: fee.LoaiPhiID,
			SoLuong:   1,
			DonGia:    cfg.DotThuPhiDonGia,
		})
	}
	return lines, hasMissing
}

// writeInvoice creates or refreshes the (household, period) invoice inside
// one transaction: replace-all lines, new due amount, status recomputed from
// the untouched paid amount. Retried once on a concurrency conflict.
func (calc *InvoiceCalculator) writeInvoice(periodID, hoID uuid.UUID, lines []lineItem, now time.Time) (created bool, err error) {
	var total int64
	for _, l := range lines {
		total += l.SoLuong * l.DonGia
	}

	err = helper.RetryOnConflict(func() error {
		return calc.DB.Transaction(func(tx *gorm.DB) error {
			var inv model.HoaDon
			findErr := helper.LockForUpdate(tx).
				Where("hoa_don_dot_thu_id = ? AND hoa_don_ho_gia_dinh_id = ?", periodID, hoID).
				First(&inv).Error

			switch {
			case findErr == nil:
				created = false
			case errors.Is(findErr, gorm.ErrRecordNotFound):
				created = true
				inv = model.HoaDon{
					HoaDonDotThuID:    periodID,
					HoaDonHoGiaDinhID: hoID,
				}
				if err := tx.Create(&inv).Error; err != nil {
					if helper.IsUniqueViolation(err) {
						// lost a create race; reload and continue as update
						created = false
						if err2 := helper.LockForUpdate(tx).
							Where("hoa_don_dot_thu_id = ? AND hoa_don_ho_gia_dinh_id = ?", periodID, hoID).
							First(&inv).Error; err2 != nil {
							return err2
						}
					} else {
						return err
					}
				}
			default:
				return findErr
			}

			// replace-all-lines semantics
			if err := tx.
				Where("hoa_don_chi_tiet_hoa_don_id = ?", inv.HoaDonID).
				Delete(&model.HoaDonChiTiet{}).Error; err != nil {
				return err
			}
			for _, l := range lines {
				row := model.HoaDonChiTiet{
					HoaDonChiTietHoaDonID:  inv.HoaDonID,
					HoaDonChiTietLoaiPhiID: l.LoaiPhiID,
					HoaDonChiTietSoLuong:   l.SoLuong,
					HoaDonChiTietDonGia:    l.DonGia,
					HoaDonChiTietThanhTien: l.SoLuong * l.DonGia,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}

			inv.HoaDonTongTien = total
			inv.HoaDonTrangThai = model.DeriveTrangThai(inv.HoaDonTongTien, inv.HoaDonDaThanhToan)
			inv.HoaDonTinhLuc = &now
			return tx.Save(&inv).Error
		})
	})
	if err != nil {
		return created, fmt.Errorf("write invoice: %w", err)
	}
	return created, nil
}
