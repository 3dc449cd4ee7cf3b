// file: internals/features/readings/service/reading_service.go
package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	buildingsvc "quanlychungcu_backend/internals/features/buildings/service"
	feemodel "quanlychungcu_backend/internals/features/fees/model"
	"quanlychungcu_backend/internals/features/readings/model"
)

var (
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
	// ErrReadingDecreased: new meter value below the previous month's value.
	// Rejected at entry time; operators fix the typo instead of billing a
	// negative delta.
	ErrReadingDecreased = errors.New("new reading is below the previous reading")
	// ErrHouseholdNotInBuilding: a save item names a household that does not
	// belong to the request's building. Catches both typo'd ids and writes
	// aimed at a building the form was not opened for.
	ErrHouseholdNotInBuilding = errors.New("household does not belong to the building")
)

// ReadingService owns meter-reading entry. Readings are keyed strictly on
// (household, fee type, month, year), never on a client-sent row id, so a
// stale form can never overwrite a different month.
type ReadingService struct {
	DB     *gorm.DB
	Roster *buildingsvc.RosterService
}

func NewReadingService(db *gorm.DB) *ReadingService {
	return &ReadingService{DB: db, Roster: buildingsvc.NewRosterService(db)}
}

// prevMonth rolls January back into December of the previous year.
func prevMonth(thang, nam int) (int, int) {
	if thang == 1 {
		return 12, nam - 1
	}
	return thang - 1, nam
}

// previousReading resolves the value that counts as "chỉ số cũ" for month T:
// the T−1 record if present, else the latest record strictly before T,
// else 0 (first-ever reading).
func (s *ReadingService) previousReading(hoID, phiID uuid.UUID, thang, nam int) (int64, error) {
	pm, py := prevMonth(thang, nam)

	var row model.ChiSoDienNuoc
	err := s.DB.
		Where("chi_so_ho_gia_dinh_id = ? AND chi_so_loai_phi_id = ? AND chi_so_thang = ? AND chi_so_nam = ?",
			hoID, phiID, pm, py).
		First(&row).Error
	if err == nil {
		return row.ChiSoMoi, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	// no T−1 record → latest record strictly before T
	err = s.DB.
		Where("chi_so_ho_gia_dinh_id = ? AND chi_so_loai_phi_id = ?", hoID, phiID).
		Where("(chi_so_nam < ?) OR (chi_so_nam = ? AND chi_so_thang < ?)", nam, nam, thang).
		Order("chi_so_nam DESC, chi_so_thang DESC").
		First(&row).Error
	if err == nil {
		return row.ChiSoMoi, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return 0, err
}

// InputRow is one line of the reading-entry form for a month.
type InputRow struct {
	HoGiaDinhID uuid.UUID `json:"ho_gia_dinh_id"`
	HoGiaDinhMa string    `json:"ho_gia_dinh_ma"`
	TenChuHo    string    `json:"ten_chu_ho"`
	SoCanHo     string    `json:"so_can_ho"`
	ChiSoCu     int64     `json:"chi_so_cu"`
	ChiSoMoi    *int64    `json:"chi_so_moi,omitempty"` // nil = not entered yet
}

// PrepareInput builds the per-household entry rows for (month, year,
// building, fee type), pre-filling the previous reading and any value
// already saved this month. Rows come back ordered by household code.
func (s *ReadingService) PrepareInput(thang, nam int, toaNhaID, loaiPhiID uuid.UUID) ([]InputRow, error) {
	if thang < 1 || thang > 12 {
		return nil, ErrInvalidMonth
	}

	households, err := s.Roster.ListHouseholds(toaNhaID)
	if err != nil {
		return nil, err
	}

	// readings already entered this month, by household
	var existing []model.ChiSoDienNuoc
	if err := s.DB.
		Where("chi_so_loai_phi_id = ? AND chi_so_thang = ? AND chi_so_nam = ?", loaiPhiID, thang, nam).
		Where("chi_so_ho_gia_dinh_id IN (?)",
			s.DB.Table("ho_gia_dinh").Select("ho_gia_dinh_id").Where("ho_gia_dinh_toa_nha_id = ?", toaNhaID)).
		Find(&existing).Error; err != nil {
		return nil, err
	}
	current := make(map[uuid.UUID]model.ChiSoDienNuoc, len(existing))
	for _, cs := range existing {
		current[cs.ChiSoHoGiaDinhID] = cs
	}

	rows := make([]InputRow, 0, len(households))
	for _, ho := range households {
		row := InputRow{
			HoGiaDinhID: ho.HoGiaDinhID,
			HoGiaDinhMa: ho.HoGiaDinhMa,
			TenChuHo:    ho.HoGiaDinhTenChuHo,
			SoCanHo:     ho.HoGiaDinhSoCanHo,
		}
		if cs, ok := current[ho.HoGiaDinhID]; ok {
			v := cs.ChiSoMoi
			row.ChiSoMoi = &v
		}
		prev, err := s.previousReading(ho.HoGiaDinhID, loaiPhiID, thang, nam)
		if err != nil {
			return nil, err
		}
		row.ChiSoCu = prev
		rows = append(rows, row)
	}
	return rows, nil
}

// SaveItem is one household's new reading in a bulk save.
type SaveItem struct {
	HoGiaDinhID uuid.UUID `json:"ho_gia_dinh_id" validate:"required"`
	ChiSoMoi    *int64    `json:"chi_so_moi,omitempty"` // nil rows are skipped
}

// SaveAllInput is the bulk save request, scoped to (month, year, building,
// fee type) per the entry form.
type SaveAllInput struct {
	Thang     int        `json:"thang" validate:"required,min=1,max=12"`
	Nam       int        `json:"nam" validate:"required,min=2000,max=2100"`
	ToaNhaID  uuid.UUID  `json:"toa_nha_id" validate:"required"`
	LoaiPhiID uuid.UUID  `json:"loai_phi_id" validate:"required"`
	DanhSach  []SaveItem `json:"danh_sach"`
}

// SaveAll upserts readings for the month. Insert-or-update is resolved by
// the unique key only; last write wins per key. Returns the saved count.
func (s *ReadingService) SaveAll(in SaveAllInput) (int, error) {
	if in.Thang < 1 || in.Thang > 12 {
		return 0, ErrInvalidMonth
	}

	if _, err := s.Roster.GetBuilding(in.ToaNhaID); err != nil {
		return 0, err
	}
	var fee feemodel.LoaiPhi
	if err := s.DB.First(&fee, "loai_phi_id = ?", in.LoaiPhiID).Error; err != nil {
		return 0, err
	}
	if len(in.DanhSach) == 0 {
		return 0, nil
	}

	// every item must name a household of this building; a stray id would
	// otherwise create an orphan reading row
	households, err := s.Roster.ListHouseholds(in.ToaNhaID)
	if err != nil {
		return 0, err
	}
	inBuilding := make(map[uuid.UUID]struct{}, len(households))
	for _, ho := range households {
		inBuilding[ho.HoGiaDinhID] = struct{}{}
	}
	for _, item := range in.DanhSach {
		if _, ok := inBuilding[item.HoGiaDinhID]; !ok {
			return 0, fmt.Errorf("%w: %s", ErrHouseholdNotInBuilding, item.HoGiaDinhID)
		}
	}

	saved := 0
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, item := range in.DanhSach {
			if item.ChiSoMoi == nil {
				continue // not entered yet
			}
			chiSoMoi := *item.ChiSoMoi
			if chiSoMoi < 0 {
				return fmt.Errorf("chi_so_moi must be >= 0 for household %s", item.HoGiaDinhID)
			}

			prev, err := s.previousReading(item.HoGiaDinhID, in.LoaiPhiID, in.Thang, in.Nam)
			if err != nil {
				return err
			}
			if chiSoMoi < prev {
				return fmt.Errorf("%w: household %s has %d < %d",
					ErrReadingDecreased, item.HoGiaDinhID, chiSoMoi, prev)
			}

			var existing model.ChiSoDienNuoc
			err = tx.
				Where("chi_so_ho_gia_dinh_id = ? AND chi_so_loai_phi_id = ? AND chi_so_thang = ? AND chi_so_nam = ?",
					item.HoGiaDinhID, in.LoaiPhiID, in.Thang, in.Nam).
				First(&existing).Error
			switch {
			case err == nil:
				existing.ChiSoCu = prev
				existing.ChiSoMoi = chiSoMoi
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				row := model.ChiSoDienNuoc{
					ChiSoHoGiaDinhID: item.HoGiaDinhID,
					ChiSoLoaiPhiID:   in.LoaiPhiID,
					ChiSoThang:       in.Thang,
					ChiSoNam:         in.Nam,
					ChiSoCu:          prev,
					ChiSoMoi:         chiSoMoi,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			default:
				return err
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return saved, nil
}

// GetReading returns the recorded value for the exact month, or nil when the
// household has no reading yet (the caller decides what "missing" means).
func (s *ReadingService) GetReading(hoID, phiID uuid.UUID, thang, nam int) (*int64, error) {
	var row model.ChiSoDienNuoc
	err := s.DB.
		Where("chi_so_ho_gia_dinh_id = ? AND chi_so_loai_phi_id = ? AND chi_so_thang = ? AND chi_so_nam = ?",
			hoID, phiID, thang, nam).
		First(&row).Error
	if err == nil {
		v := row.ChiSoMoi
		return &v, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, err
}

// Stats summarizes entry progress for a month (operator dashboard).
type Stats struct {
	Thang           int   `json:"thang"`
	Nam             int   `json:"nam"`
	TongSoHo        int64 `json:"tong_so_ho"`
	DaNhap          int64 `json:"da_nhap"`
	ChuaNhap        int64 `json:"chua_nhap"`
	PhanTramHoanTat int64 `json:"phan_tram_hoan_tat"`
}

func (s *ReadingService) GetStats(thang, nam int, toaNhaID, loaiPhiID uuid.UUID) (Stats, error) {
	if thang < 1 || thang > 12 {
		return Stats{}, ErrInvalidMonth
	}

	var daNhap int64
	if err := s.DB.Model(&model.ChiSoDienNuoc{}).
		Where("chi_so_loai_phi_id = ? AND chi_so_thang = ? AND chi_so_nam = ?", loaiPhiID, thang, nam).
		Where("chi_so_ho_gia_dinh_id IN (?)",
			s.DB.Table("ho_gia_dinh").Select("ho_gia_dinh_id").Where("ho_gia_dinh_toa_nha_id = ?", toaNhaID)).
		Count(&daNhap).Error; err != nil {
		return Stats{}, err
	}

	tong, err := s.Roster.CountHouseholds(toaNhaID)
	if err != nil {
		return Stats{}, err
	}

	chua := tong - daNhap
	if chua < 0 {
		chua = 0
	}
	var pct int64
	if tong > 0 {
		pct = daNhap * 100 / tong
	}
	return Stats{
		Thang:           thang,
		Nam:             nam,
		TongSoHo:        tong,
		DaNhap:          daNhap,
		ChuaNhap:        chua,
		PhanTramHoanTat: pct,
	}, nil
}
