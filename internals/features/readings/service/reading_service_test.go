package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	buildingmodel "quanlychungcu_backend/internals/features/buildings/model"
	feemodel "quanlychungcu_backend/internals/features/fees/model"
	"quanlychungcu_backend/internals/features/readings/model"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&buildingmodel.ToaNha{},
		&buildingmodel.HoGiaDinh{},
		&feemodel.LoaiPhi{},
		&model.ChiSoDienNuoc{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedBuilding(t *testing.T, db *gorm.DB) buildingmodel.ToaNha {
	tn := buildingmodel.ToaNha{ToaNhaTen: "Tòa A", ToaNhaManagerUserID: uuid.New()}
	if err := db.Create(&tn).Error; err != nil {
		t.Fatalf("seed building: %v", err)
	}
	return tn
}

func seedHousehold(t *testing.T, db *gorm.DB, toaNhaID uuid.UUID, ma string) buildingmodel.HoGiaDinh {
	ho := buildingmodel.HoGiaDinh{
		HoGiaDinhToaNhaID: toaNhaID,
		HoGiaDinhMa:       ma,
		HoGiaDinhTenChuHo: "Nguyễn Văn " + ma,
	}
	if err := db.Create(&ho).Error; err != nil {
		t.Fatalf("seed household %s: %v", ma, err)
	}
	return ho
}

func seedConsumptionFee(t *testing.T, db *gorm.DB, ten string, donGia int64) feemodel.LoaiPhi {
	phi := feemodel.LoaiPhi{
		LoaiPhiTen:           ten,
		LoaiPhiDonViTinh:     "kWh",
		LoaiPhiCachTinh:      feemodel.LoaiPhiConsumption,
		LoaiPhiBatBuoc:       true,
		LoaiPhiDonGia:        donGia,
		LoaiPhiDangHoatDong:  true,
		LoaiPhiManagerUserID: uuid.New(),
	}
	if err := db.Create(&phi).Error; err != nil {
		t.Fatalf("seed fee: %v", err)
	}
	return phi
}

func seedRawReading(t *testing.T, db *gorm.DB, hoID, phiID uuid.UUID, thang, nam int, cu, moi int64) {
	t.Helper()
	row := model.ChiSoDienNuoc{
		ChiSoHoGiaDinhID: hoID,
		ChiSoLoaiPhiID:   phiID,
		ChiSoThang:       thang,
		ChiSoNam:         nam,
		ChiSoCu:          cu,
		ChiSoMoi:         moi,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed raw reading: %v", err)
	}
}

func mustSaveReading(t *testing.T, svc *ReadingService, toaNhaID, hoID, phiID uuid.UUID, thang, nam int, moi int64) {
	t.Helper()
	_, err := svc.SaveAll(SaveAllInput{
		Thang: thang, Nam: nam,
		ToaNhaID:  toaNhaID,
		LoaiPhiID: phiID,
		DanhSach:  []SaveItem{{HoGiaDinhID: hoID, ChiSoMoi: &moi}},
	})
	if err != nil {
		t.Fatalf("save reading %d/%d=%d: %v", thang, nam, moi, err)
	}
}

func TestPreviousReadingFallbackChain(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewReadingService(db)
	tn := seedBuilding(t, db)
	ho := seedHousehold(t, db, tn.ToaNhaID, "HGD-001")
	phi := seedConsumptionFee(t, db, "Điện", 3000)

	// no history at all → 0
	prev, err := svc.previousReading(ho.HoGiaDinhID, phi.LoaiPhiID, 3, 2025)
	if err != nil || prev != 0 {
		t.Fatalf("expected 0 with no history, got %d err=%v", prev, err)
	}

	// T−1 record wins
	mustSaveReading(t, svc, tn.ToaNhaID, ho.HoGiaDinhID, phi.LoaiPhiID, 2, 2025, 120)
	prev, err = svc.previousReading(ho.HoGiaDinhID, phi.LoaiPhiID, 3, 2025)
	if err != nil || prev != 120 {
		t.Fatalf("expected 120 from T-1, got %d err=%v", prev, err)
	}

	// gap: no T−1, fall back to latest strictly before T
	prev, err = svc.previousReading(ho.HoGiaDinhID, phi.LoaiPhiID, 6, 2025)
	if err != nil || prev != 120 {
		t.Fatalf("expected 120 from latest-before, got %d err=%v", prev, err)
	}
}

func TestPreviousReadingYearRollover(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewReadingService(db)
	tn := seedBuilding(t, db)
	ho := seedHousehold(t, db, tn.ToaNhaID, "HGD-001")
	phi := seedConsumptionFee(t, db, "Nước", 15000)

	mustSaveReading(t, svc, tn.ToaNhaID, ho.HoGiaDinhID, phi.LoaiPhiID, 12, 2024, 300)

	// January looks back at December of the previous year
	prev, err := svc.previousReading(ho.HoGiaDinhID, phi.LoaiPhiID, 1, 2025)
	if err != nil || prev != 300 {
		t.Fatalf("expected 300 from Dec 2024, got %d err=%v", prev, err)
	}
}

func TestSaveAllUpsertsByKeyNotByID(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewReadingService(db)
	tn := seedBuilding(t, db)
	ho := seedHousehold(t, db, tn.ToaNhaID, "HGD-001")
	phi := seedConsumptionFee(t, db, "Điện", 3000)

	mustSaveReading(t, svc, tn.ToaNhaID, ho.HoGiaDinhID, phi.LoaiPhiID, 5, 2025, 100)
	mustSaveReading(t, svc, tn.ToaNhaID, ho.HoGiaDinhID, phi.LoaiPhiID, 5, 2025, 110) // re-save same month

	var count int64
	if err := db.Model(&model.ChiSoDienNuoc{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row after re-save, got %d", count)
	}

	v, err := svc.GetReading(ho.HoGiaDinhID, phi.LoaiPhiID, 5, 2025)
	if err != nil || v == nil || *v != 110 {
		t.Fatalf("expected last write 110, got %v err=%v", v, err)
	}
}

func TestSaveAllRejectsDecreasedReading(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewReadingService(db)
	tn := seedBuilding(t, db)
	ho := seedHousehold(t, db, tn.ToaNhaID, "HGD-001")
	phi := seedConsumptionFee(t, db, "Điện", 3000)

	mustSaveReading(t, svc, tn.ToaNhaID, ho.HoGiaDinhID, phi.LoaiPhiID, 4, 2025, 200)

	lower := int64(150)
	_, err := svc.SaveAll(SaveAllInput{
		Thang: 5, Nam: 2025, ToaNhaID: tn.ToaNhaID, LoaiPhiID: phi.LoaiPhiID,
		DanhSach: []SaveItem{{HoGiaDinhID: ho.HoGiaDinhID, ChiSoMoi: &lower}},
	})
	if !errors.Is(err, ErrReadingDecreased) {
		t.Fatalf("expected ErrReadingDecreased, got %v", err)
	}
}

func TestSaveAllSkipsEmptyRowsAndCounts(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewReadingService(db)
	tn := seedBuilding(t, db)
	h1 := seedHousehold(t, db, tn.ToaNhaID, "HGD-001")
	h2 := seedHousehold(t, db, tn.ToaNhaID, "HGD-002")
	phi := seedConsumptionFee(t, db, "Điện", 3000)

	v := int64(80)
	saved, err := svc.SaveAll(SaveAllInput{
		Thang: 5, Nam: 2025, ToaNhaID: tn.ToaNhaID, LoaiPhiID: phi.LoaiPhiID,
		DanhSach: []SaveItem{
			{HoGiaDinhID: h1.HoGiaDinhID, ChiSoMoi: &v},
			{HoGiaDinhID: h2.HoGiaDinhID}, // nothing entered
		},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved != 1 {
		t.Fatalf("expected 1 saved, got %d", saved)
	}
}

func TestSaveAllRejectsHouseholdOutsideBuilding(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewReadingService(db)
	tnA := seedBuilding(t, db)
	tnB := buildingmodel.ToaNha{ToaNhaTen: "Tòa B", ToaNhaManagerUserID: uuid.New()}
	if err := db.Create(&tnB).Error; err != nil {
		t.Fatalf("seed building B: %v", err)
	}
	hoB := seedHousehold(t, db, tnB.ToaNhaID, "HGD-B01")
	phi := seedConsumptionFee(t, db, "Điện", 3000)

	// the form claims building A but the item targets building B's household
	v := int64(90)
	_, err := svc.SaveAll(SaveAllInput{
		Thang: 5, Nam: 2025, ToaNhaID: tnA.ToaNhaID, LoaiPhiID: phi.LoaiPhiID,
		DanhSach: []SaveItem{{HoGiaDinhID: hoB.HoGiaDinhID, ChiSoMoi: &v}},
	})
	if !errors.Is(err, ErrHouseholdNotInBuilding) {
		t.Fatalf("expected ErrHouseholdNotInBuilding, got %v", err)
	}

	var count int64
	if err := db.Model(&model.ChiSoDienNuoc{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no rows written, got %d", count)
	}
}

func TestSaveAllRejectsUnknownBuildingOrFee(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewReadingService(db)
	tn := seedBuilding(t, db)
	ho := seedHousehold(t, db, tn.ToaNhaID, "HGD-001")
	phi := seedConsumptionFee(t, db, "Điện", 3000)

	v := int64(90)
	_, err := svc.SaveAll(SaveAllInput{
		Thang: 5, Nam: 2025, ToaNhaID: uuid.New(), LoaiPhiID: phi.LoaiPhiID,
		DanhSach: []SaveItem{{HoGiaDinhID: ho.HoGiaDinhID, ChiSoMoi: &v}},
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found for unknown building, got %v", err)
	}

	_, err = svc.SaveAll(SaveAllInput{
		Thang: 5, Nam: 2025, ToaNhaID: tn.ToaNhaID, LoaiPhiID: uuid.New(),
		DanhSach: []SaveItem{{HoGiaDinhID: ho.HoGiaDinhID, ChiSoMoi: &v}},
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found for unknown fee type, got %v", err)
	}
}

func TestPrepareInputPrefillsPreviousAndCurrent(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewReadingService(db)
	tn := seedBuilding(t, db)
	seedHousehold(t, db, tn.ToaNhaID, "HGD-002")
	h1 := seedHousehold(t, db, tn.ToaNhaID, "HGD-001")
	phi := seedConsumptionFee(t, db, "Điện", 3000)

	mustSaveReading(t, svc, tn.ToaNhaID, h1.HoGiaDinhID, phi.LoaiPhiID, 4, 2025, 100)
	mustSaveReading(t, svc, tn.ToaNhaID, h1.HoGiaDinhID, phi.LoaiPhiID, 5, 2025, 150)

	rows, err := svc.PrepareInput(5, 2025, tn.ToaNhaID, phi.LoaiPhiID)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// ordered by household code
	if rows[0].HoGiaDinhMa != "HGD-001" || rows[1].HoGiaDinhMa != "HGD-002" {
		t.Fatalf("rows not ordered by code: %s, %s", rows[0].HoGiaDinhMa, rows[1].HoGiaDinhMa)
	}
	if rows[0].ChiSoCu != 100 {
		t.Fatalf("expected prefilled chi_so_cu 100, got %d", rows[0].ChiSoCu)
	}
	if rows[0].ChiSoMoi == nil || *rows[0].ChiSoMoi != 150 {
		t.Fatalf("expected current value 150, got %v", rows[0].ChiSoMoi)
	}
	if rows[1].ChiSoMoi != nil {
		t.Fatalf("expected nil current for untouched household, got %v", rows[1].ChiSoMoi)
	}
}

func TestGetStats(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewReadingService(db)
	tn := seedBuilding(t, db)
	h1 := seedHousehold(t, db, tn.ToaNhaID, "HGD-001")
	seedHousehold(t, db, tn.ToaNhaID, "HGD-002")
	phi := seedConsumptionFee(t, db, "Điện", 3000)

	mustSaveReading(t, svc, tn.ToaNhaID, h1.HoGiaDinhID, phi.LoaiPhiID, 5, 2025, 90)

	st, err := svc.GetStats(5, 2025, tn.ToaNhaID, phi.LoaiPhiID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TongSoHo != 2 || st.DaNhap != 1 || st.ChuaNhap != 1 || st.PhanTramHoanTat != 50 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestSaveAllRejectsInvalidMonth(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewReadingService(db)

	_, err := svc.SaveAll(SaveAllInput{Thang: 13, Nam: 2025, LoaiPhiID: uuid.New()})
	if !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}
