package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"quanlychungcu_backend/internals/features/billing/model"
	buildingmodel "quanlychungcu_backend/internals/features/buildings/model"
	feemodel "quanlychungcu_backend/internals/features/fees/model"
	paymentmodel "quanlychungcu_backend/internals/features/payments/model"
	paymentsvc "quanlychungcu_backend/internals/features/payments/service"
	readingmodel "quanlychungcu_backend/internals/features/readings/model"
	readingsvc "quanlychungcu_backend/internals/features/readings/service"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// one connection: the calculator fans out goroutines and sqlite has no
	// row locks, so writes must serialize at the pool
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&buildingmodel.ToaNha{},
		&buildingmodel.HoGiaDinh{},
		&feemodel.LoaiPhi{},
		&feemodel.BangGiaDichVu{},
		&readingmodel.ChiSoDienNuoc{},
		&model.DotThu{},
		&model.DotThuPhi{},
		&model.HoaDon{},
		&model.HoaDonChiTiet{},
		&paymentmodel.ThanhToan{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fixture is the standard two-household building used across billing tests.
type fixture struct {
	db       *gorm.DB
	building buildingmodel.ToaNha
	h1, h2   buildingmodel.HoGiaDinh
	dien     feemodel.LoaiPhi // consumption, default 2500, override 3000
	veSinh   feemodel.LoaiPhi // fixed 100000
	period   model.DotThu     // May 2025
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := setupTestDB(t, t.Name())

	f := fixture{db: db}
	f.building = buildingmodel.ToaNha{ToaNhaTen: "Tòa A", ToaNhaManagerUserID: uuid.New()}
	require.NoError(t, db.Create(&f.building).Error)

	f.h1 = buildingmodel.HoGiaDinh{
		HoGiaDinhToaNhaID: f.building.ToaNhaID,
		HoGiaDinhMa:       "HGD-001",
		HoGiaDinhTenChuHo: "Trần Thị Hoa",
	}
	require.NoError(t, db.Create(&f.h1).Error)
	f.h2 = buildingmodel.HoGiaDinh{
		HoGiaDinhToaNhaID: f.building.ToaNhaID,
		HoGiaDinhMa:       "HGD-002",
		HoGiaDinhTenChuHo: "Lê Văn Nam",
	}
	require.NoError(t, db.Create(&f.h2).Error)

	manager := uuid.New()
	f.dien = feemodel.LoaiPhi{
		LoaiPhiTen:           "Tiền điện",
		LoaiPhiDonViTinh:     "kWh",
		LoaiPhiCachTinh:      feemodel.LoaiPhiConsumption,
		LoaiPhiBatBuoc:       true,
		LoaiPhiDonGia:        2500,
		LoaiPhiDangHoatDong:  true,
		LoaiPhiManagerUserID: manager,
	}
	require.NoError(t, db.Create(&f.dien).Error)
	require.NoError(t, db.Create(&feemodel.BangGiaDichVu{
		BangGiaToaNhaID:  f.building.ToaNhaID,
		BangGiaLoaiPhiID: f.dien.LoaiPhiID,
		BangGiaDonGia:    3000,
	}).Error)

	f.veSinh = feemodel.LoaiPhi{
		LoaiPhiTen:           "Phí vệ sinh",
		LoaiPhiDonViTinh:     "tháng",
		LoaiPhiCachTinh:      feemodel.LoaiPhiFixed,
		LoaiPhiBatBuoc:       true,
		LoaiPhiDonGia:        100000,
		LoaiPhiDangHoatDong:  true,
		LoaiPhiManagerUserID: manager,
	}
	require.NoError(t, db.Create(&f.veSinh).Error)

	thang, nam := 5, 2025
	f.period = model.DotThu{
		DotThuTen:      "Thu phí tháng 5/2025",
		DotThuToaNhaID: f.building.ToaNhaID,
		DotThuLoai:     model.DotThuDinhKy,
		DotThuThang:    &thang,
		DotThuNam:      &nam,
	}
	require.NoError(t, db.Create(&f.period).Error)
	return f
}

func (f fixture) saveReading(t *testing.T, ho buildingmodel.HoGiaDinh, thang, nam int, moi int64) {
	t.Helper()
	svc := readingsvc.NewReadingService(f.db)
	_, err := svc.SaveAll(readingsvc.SaveAllInput{
		Thang: thang, Nam: nam,
		ToaNhaID:  f.building.ToaNhaID,
		LoaiPhiID: f.dien.LoaiPhiID,
		DanhSach:  []readingsvc.SaveItem{{HoGiaDinhID: ho.HoGiaDinhID, ChiSoMoi: &moi}},
	})
	require.NoError(t, err)
}

func (f fixture) attachBothFees(t *testing.T) {
	t.Helper()
	periods := NewPeriodService(f.db)
	_, _, err := periods.AttachFee(f.period.DotThuID, f.veSinh.LoaiPhiID)
	require.NoError(t, err)
	_, _, err = periods.AttachFee(f.period.DotThuID, f.dien.LoaiPhiID)
	require.NoError(t, err)
}

func (f fixture) invoiceOf(t *testing.T, ho buildingmodel.HoGiaDinh) model.HoaDon {
	t.Helper()
	var inv model.HoaDon
	require.NoError(t, f.db.
		Where("hoa_don_dot_thu_id = ? AND hoa_don_ho_gia_dinh_id = ?", f.period.DotThuID, ho.HoGiaDinhID).
		First(&inv).Error)
	return inv
}

func (f fixture) linesOf(t *testing.T, inv model.HoaDon) []model.HoaDonChiTiet {
	t.Helper()
	var lines []model.HoaDonChiTiet
	require.NoError(t, f.db.
		Where("hoa_don_chi_tiet_hoa_don_id = ?", inv.HoaDonID).
		Find(&lines).Error)
	return lines
}

// ---------------------------------------------------------------------------

func TestCalculateRequiresConfiguredTarget(t *testing.T) {
	f := newFixture(t)
	calc := NewInvoiceCalculator(f.db)

	unconfigured := model.DotThu{
		DotThuTen:      "Đợt chưa cấu hình",
		DotThuToaNhaID: f.building.ToaNhaID,
	}
	require.NoError(t, f.db.Create(&unconfigured).Error)

	_, err := calc.CalculateInvoices(unconfigured.DotThuID)
	require.ErrorIs(t, err, ErrPeriodNotConfigured)
}

func TestCalculateRequiresAttachedFees(t *testing.T) {
	f := newFixture(t)
	calc := NewInvoiceCalculator(f.db)

	_, err := calc.CalculateInvoices(f.period.DotThuID)
	require.ErrorIs(t, err, ErrNoFeesConfigured)
}

func TestCalculateFixedAndConsumptionLines(t *testing.T) {
	f := newFixture(t)
	f.attachBothFees(t)

	// H1: 100 → 150 kWh; H2: no reading for May
	f.saveReading(t, f.h1, 4, 2025, 100)
	f.saveReading(t, f.h1, 5, 2025, 150)

	calc := NewInvoiceCalculator(f.db)
	summary, err := calc.CalculateInvoices(f.period.DotThuID)
	require.NoError(t, err)

	require.Equal(t, 2, summary.InvoicesCreated)
	require.Equal(t, 0, summary.InvoicesUpdated)
	require.Empty(t, summary.Failures)
	require.Equal(t, []string{"HGD-002"}, summary.HouseholdsMissingReadings)

	// H1: 100000 fixed + 50 kWh × 3000 (building override, not the 2500 default)
	inv1 := f.invoiceOf(t, f.h1)
	require.Equal(t, int64(250000), inv1.HoaDonTongTien)
	require.Equal(t, model.HoaDonUnpaid, inv1.HoaDonTrangThai)
	require.Len(t, f.linesOf(t, inv1), 2)
	require.NotNil(t, inv1.HoaDonTinhLuc)

	// H2: fixed line only, consumption skipped (no zero-amount filler)
	inv2 := f.invoiceOf(t, f.h2)
	require.Equal(t, int64(100000), inv2.HoaDonTongTien)
	lines2 := f.linesOf(t, inv2)
	require.Len(t, lines2, 1)
	require.Equal(t, f.veSinh.LoaiPhiID, lines2[0].HoaDonChiTietLoaiPhiID)
}

func TestCalculateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.attachBothFees(t)
	f.saveReading(t, f.h1, 4, 2025, 100)
	f.saveReading(t, f.h1, 5, 2025, 150)

	calc := NewInvoiceCalculator(f.db)
	_, err := calc.CalculateInvoices(f.period.DotThuID)
	require.NoError(t, err)
	first := f.invoiceOf(t, f.h1)

	summary, err := calc.CalculateInvoices(f.period.DotThuID)
	require.NoError(t, err)
	require.Equal(t, 0, summary.InvoicesCreated)
	require.Equal(t, 2, summary.InvoicesUpdated)

	second := f.invoiceOf(t, f.h1)
	require.Equal(t, first.HoaDonID, second.HoaDonID, "invoice identity is stable across runs")
	require.Equal(t, first.HoaDonTongTien, second.HoaDonTongTien)
	require.Len(t, f.linesOf(t, second), 2)
}

func TestRecalculationPreservesPayments(t *testing.T) {
	f := newFixture(t)
	f.attachBothFees(t)
	f.saveReading(t, f.h1, 4, 2025, 100)
	f.saveReading(t, f.h1, 5, 2025, 150)

	calc := NewInvoiceCalculator(f.db)
	_, err := calc.CalculateInvoices(f.period.DotThuID)
	require.NoError(t, err)

	inv := f.invoiceOf(t, f.h1) // 250000 due
	pay := paymentsvc.NewPaymentService(f.db)
	_, _, err = pay.RecordPayment(paymentsvc.RecordPaymentInput{
		HoaDonID: inv.HoaDonID,
		SoTien:   250000,
	})
	require.NoError(t, err)

	// meter correction raises the due amount; paid stays, status drops back
	f.saveReading(t, f.h1, 5, 2025, 160)
	_, err = calc.CalculateInvoices(f.period.DotThuID)
	require.NoError(t, err)

	after := f.invoiceOf(t, f.h1)
	require.Equal(t, int64(280000), after.HoaDonTongTien)
	require.Equal(t, int64(250000), after.HoaDonDaThanhToan)
	require.Equal(t, model.HoaDonPartiallyPaid, after.HoaDonTrangThai)

	var ledger int64
	require.NoError(t, f.db.Model(&paymentmodel.ThanhToan{}).Count(&ledger).Error)
	require.EqualValues(t, 1, ledger, "recalculation never touches the ledger")
}

func TestDetachFeeRemovesLineOnRecalculation(t *testing.T) {
	f := newFixture(t)
	f.attachBothFees(t)
	f.saveReading(t, f.h1, 4, 2025, 100)
	f.saveReading(t, f.h1, 5, 2025, 150)

	calc := NewInvoiceCalculator(f.db)
	_, err := calc.CalculateInvoices(f.period.DotThuID)
	require.NoError(t, err)

	periods := NewPeriodService(f.db)
	needsRecalc, err := periods.DetachFee(f.period.DotThuID, f.veSinh.LoaiPhiID)
	require.NoError(t, err)
	require.True(t, needsRecalc)

	_, err = calc.CalculateInvoices(f.period.DotThuID)
	require.NoError(t, err)

	inv := f.invoiceOf(t, f.h1)
	require.Equal(t, int64(150000), inv.HoaDonTongTien)
	require.Len(t, f.linesOf(t, inv), 1)
}

func TestAttachFeeSnapshotsPrice(t *testing.T) {
	f := newFixture(t)
	periods := NewPeriodService(f.db)

	cfg, _, err := periods.AttachFee(f.period.DotThuID, f.dien.LoaiPhiID)
	require.NoError(t, err)
	require.Equal(t, int64(3000), cfg.DotThuPhiDonGia, "override beats the default")

	// later price edits must not leak into the open period
	require.NoError(t, f.db.Model(&feemodel.BangGiaDichVu{}).
		Where("bang_gia_toa_nha_id = ? AND bang_gia_loai_phi_id = ?", f.building.ToaNhaID, f.dien.LoaiPhiID).
		Update("bang_gia_don_gia", 9999).Error)

	var reloaded model.DotThuPhi
	require.NoError(t, f.db.First(&reloaded, "dot_thu_phi_id = ?", cfg.DotThuPhiID).Error)
	require.Equal(t, int64(3000), reloaded.DotThuPhiDonGia)

	_, _, err = periods.AttachFee(f.period.DotThuID, f.dien.LoaiPhiID)
	require.ErrorIs(t, err, ErrFeeAlreadyAttached)
}

func TestAttachFeeRejectsUnknownFeeType(t *testing.T) {
	f := newFixture(t)
	periods := NewPeriodService(f.db)

	_, _, err := periods.AttachFee(f.period.DotThuID, uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// no ghost config row: a zero-price config for a nonexistent fee would
	// pass the attached-fees gate yet bill nothing
	var configs int64
	require.NoError(t, f.db.Model(&model.DotThuPhi{}).
		Where("dot_thu_phi_dot_thu_id = ?", f.period.DotThuID).
		Count(&configs).Error)
	require.EqualValues(t, 0, configs)
}

func TestAttachFeeAddsLineOnRecalculation(t *testing.T) {
	f := newFixture(t)
	f.attachBothFees(t)
	f.saveReading(t, f.h1, 4, 2025, 100)
	f.saveReading(t, f.h1, 5, 2025, 150)

	calc := NewInvoiceCalculator(f.db)
	_, err := calc.CalculateInvoices(f.period.DotThuID)
	require.NoError(t, err)

	inv := f.invoiceOf(t, f.h1)
	pay := paymentsvc.NewPaymentService(f.db)
	_, _, err = pay.RecordPayment(paymentsvc.RecordPaymentInput{HoaDonID: inv.HoaDonID, SoTien: 100000})
	require.NoError(t, err)

	before := make(map[uuid.UUID]int64)
	for _, line := range f.linesOf(t, inv) {
		before[line.HoaDonChiTietLoaiPhiID] = line.HoaDonChiTietThanhTien
	}

	quanLy := feemodel.LoaiPhi{
		LoaiPhiTen:           "Phí quản lý",
		LoaiPhiDonViTinh:     "tháng",
		LoaiPhiCachTinh:      feemodel.LoaiPhiFixed,
		LoaiPhiBatBuoc:       true,
		LoaiPhiDonGia:        150000,
		LoaiPhiDangHoatDong:  true,
		LoaiPhiManagerUserID: uuid.New(),
	}
	require.NoError(t, f.db.Create(&quanLy).Error)

	periods := NewPeriodService(f.db)
	_, needsRecalc, err := periods.AttachFee(f.period.DotThuID, quanLy.LoaiPhiID)
	require.NoError(t, err)
	require.True(t, needsRecalc)

	_, err = calc.CalculateInvoices(f.period.DotThuID)
	require.NoError(t, err)

	// exactly one new line per household; the existing ones are untouched
	after := f.invoiceOf(t, f.h1)
	lines := f.linesOf(t, after)
	require.Len(t, lines, len(before)+1)
	for _, line := range lines {
		if line.HoaDonChiTietLoaiPhiID == quanLy.LoaiPhiID {
			require.Equal(t, int64(150000), line.HoaDonChiTietThanhTien)
			continue
		}
		require.Equal(t, before[line.HoaDonChiTietLoaiPhiID], line.HoaDonChiTietThanhTien)
	}
	require.Equal(t, int64(400000), after.HoaDonTongTien) // 250000 + 150000
	require.Equal(t, int64(100000), after.HoaDonDaThanhToan)
	require.Equal(t, model.HoaDonPartiallyPaid, after.HoaDonTrangThai)

	inv2 := f.invoiceOf(t, f.h2)
	require.Len(t, f.linesOf(t, inv2), 2) // fixed fee line + the new one
	require.Equal(t, int64(250000), inv2.HoaDonTongTien)
}

func TestDetachFeeBlockedOncePaymentsExist(t *testing.T) {
	f := newFixture(t)
	f.attachBothFees(t)
	f.saveReading(t, f.h1, 5, 2025, 150)

	calc := NewInvoiceCalculator(f.db)
	_, err := calc.CalculateInvoices(f.period.DotThuID)
	require.NoError(t, err)

	inv := f.invoiceOf(t, f.h1)
	pay := paymentsvc.NewPaymentService(f.db)
	_, _, err = pay.RecordPayment(paymentsvc.RecordPaymentInput{HoaDonID: inv.HoaDonID, SoTien: 50000})
	require.NoError(t, err)

	periods := NewPeriodService(f.db)
	_, err = periods.DetachFee(f.period.DotThuID, f.veSinh.LoaiPhiID)
	require.ErrorIs(t, err, ErrFeeHasPayments)
}

func TestDeletePeriodBlockedWhileInvoicesExist(t *testing.T) {
	f := newFixture(t)
	f.attachBothFees(t)
	f.saveReading(t, f.h1, 5, 2025, 150)

	calc := NewInvoiceCalculator(f.db)
	_, err := calc.CalculateInvoices(f.period.DotThuID)
	require.NoError(t, err)

	periods := NewPeriodService(f.db)
	require.ErrorIs(t, periods.Delete(f.period.DotThuID), ErrPeriodHasInvoices)

	// a period that never billed anything can go
	empty := model.DotThu{DotThuTen: "Đợt trống", DotThuToaNhaID: f.building.ToaNhaID}
	require.NoError(t, f.db.Create(&empty).Error)
	require.NoError(t, periods.Delete(empty.DotThuID))
}

func TestZeroDueInvoiceIsPaid(t *testing.T) {
	f := newFixture(t)
	periods := NewPeriodService(f.db)
	// only the consumption fee, and H1/H2 have no readings → empty invoices
	_, _, err := periods.AttachFee(f.period.DotThuID, f.dien.LoaiPhiID)
	require.NoError(t, err)

	calc := NewInvoiceCalculator(f.db)
	summary, err := calc.CalculateInvoices(f.period.DotThuID)
	require.NoError(t, err)
	require.Equal(t, []string{"HGD-001", "HGD-002"}, summary.HouseholdsMissingReadings)

	inv := f.invoiceOf(t, f.h1)
	require.Equal(t, int64(0), inv.HoaDonTongTien)
	require.Equal(t, model.HoaDonPaid, inv.HoaDonTrangThai, "nothing due means settled")
}

func TestStatementTotals(t *testing.T) {
	f := newFixture(t)
	f.attachBothFees(t)
	f.saveReading(t, f.h1, 4, 2025, 100)
	f.saveReading(t, f.h1, 5, 2025, 150)

	calc := NewInvoiceCalculator(f.db)
	_, err := calc.CalculateInvoices(f.period.DotThuID)
	require.NoError(t, err)

	inv1 := f.invoiceOf(t, f.h1)
	pay := paymentsvc.NewPaymentService(f.db)
	_, _, err = pay.RecordPayment(paymentsvc.RecordPaymentInput{HoaDonID: inv1.HoaDonID, SoTien: 200000})
	require.NoError(t, err)

	st, err := NewStatementBuilder(f.db).GetStatement(f.period.DotThuID)
	require.NoError(t, err)

	require.Equal(t, int64(350000), st.TongPhaiThu) // 250000 + 100000
	require.Equal(t, int64(200000), st.TongDaThu)
	require.Equal(t, int64(150000), st.TongConThieu)
	require.Equal(t, 2, st.SoHoaDon)
	require.Equal(t, 0, st.SoHoaDonDaThu)
	require.Equal(t, 2, st.SoHoaDonThieu)

	require.Len(t, st.HoaDon, 2)
	require.Equal(t, "HGD-001", st.HoaDon[0].HoGiaDinhMa)
	require.Equal(t, "HGD-002", st.HoaDon[1].HoGiaDinhMa)
	require.Len(t, st.HoaDon[0].ChiTiet, 2)
	require.Equal(t, "Phí vệ sinh", st.HoaDon[1].ChiTiet[0].LoaiPhiTen)

	// per-line arithmetic survives the projection
	var sum int64
	for _, line := range st.HoaDon[0].ChiTiet {
		require.Equal(t, line.SoLuong*line.DonGia, line.ThanhTien)
		sum += line.ThanhTien
	}
	require.Equal(t, st.HoaDon[0].TongTien, sum)
}
