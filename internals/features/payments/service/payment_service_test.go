package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	billingmodel "quanlychungcu_backend/internals/features/billing/model"
	"quanlychungcu_backend/internals/features/payments/model"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&billingmodel.DotThu{},
		&billingmodel.HoaDon{},
		&model.ThanhToan{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedInvoice(t *testing.T, db *gorm.DB, due int64) billingmodel.HoaDon {
	t.Helper()
	thang, nam := 5, 2025
	period := billingmodel.DotThu{
		DotThuTen:      "Thu phí tháng 5/2025",
		DotThuToaNhaID: uuid.New(),
		DotThuThang:    &thang,
		DotThuNam:      &nam,
	}
	require.NoError(t, db.Create(&period).Error)

	inv := billingmodel.HoaDon{
		HoaDonDotThuID:    period.DotThuID,
		HoaDonHoGiaDinhID: uuid.New(),
		HoaDonTongTien:    due,
		HoaDonTrangThai:   billingmodel.HoaDonUnpaid,
	}
	require.NoError(t, db.Create(&inv).Error)
	return inv
}

func TestRecordPaymentPartialThenSettled(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewPaymentService(db)
	inv := seedInvoice(t, db, 500000)

	_, updated, err := svc.RecordPayment(RecordPaymentInput{
		HoaDonID:   inv.HoaDonID,
		SoTien:     200000,
		PhuongThuc: model.ThanhToanChuyenKhoan,
	})
	require.NoError(t, err)
	require.Equal(t, int64(200000), updated.HoaDonDaThanhToan)
	require.Equal(t, billingmodel.HoaDonPartiallyPaid, updated.HoaDonTrangThai)

	_, updated, err = svc.RecordPayment(RecordPaymentInput{
		HoaDonID: inv.HoaDonID,
		SoTien:   300000,
	})
	require.NoError(t, err)
	require.Equal(t, int64(500000), updated.HoaDonDaThanhToan)
	require.Equal(t, billingmodel.HoaDonPaid, updated.HoaDonTrangThai)
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewPaymentService(db)
	inv := seedInvoice(t, db, 100000)

	_, _, err := svc.RecordPayment(RecordPaymentInput{HoaDonID: inv.HoaDonID, SoTien: 0})
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, _, err = svc.RecordPayment(RecordPaymentInput{HoaDonID: inv.HoaDonID, SoTien: -5000})
	require.ErrorIs(t, err, ErrInvalidAmount)

	var count int64
	require.NoError(t, db.Model(&model.ThanhToan{}).Count(&count).Error)
	require.Zero(t, count, "rejected payments never reach the ledger")
}

func TestRecordPaymentRejectsOverpayment(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewPaymentService(db)
	inv := seedInvoice(t, db, 100000)

	_, _, err := svc.RecordPayment(RecordPaymentInput{HoaDonID: inv.HoaDonID, SoTien: 100001})
	require.ErrorIs(t, err, ErrOverpayment)

	// exact remainder is fine
	_, updated, err := svc.RecordPayment(RecordPaymentInput{HoaDonID: inv.HoaDonID, SoTien: 100000})
	require.NoError(t, err)
	require.Equal(t, billingmodel.HoaDonPaid, updated.HoaDonTrangThai)

	// settled invoice accepts nothing more
	_, _, err = svc.RecordPayment(RecordPaymentInput{HoaDonID: inv.HoaDonID, SoTien: 1})
	require.ErrorIs(t, err, ErrOverpayment)
}

func TestRecordPaymentUnknownInvoice(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewPaymentService(db)

	_, _, err := svc.RecordPayment(RecordPaymentInput{HoaDonID: uuid.New(), SoTien: 1000})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListPaymentsOrderedAndMetaRoundTrip(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewPaymentService(db)
	inv := seedInvoice(t, db, 500000)

	later := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, 5, 10, 10, 0, 0, 0, time.UTC)

	_, _, err := svc.RecordPayment(RecordPaymentInput{
		HoaDonID: inv.HoaDonID, SoTien: 300000, Ngay: &later,
		PhuongThuc: model.ThanhToanVNPay,
		Meta:       datatypes.JSONMap{"vnp_txn_ref": "VNP123456"},
	})
	require.NoError(t, err)
	_, _, err = svc.RecordPayment(RecordPaymentInput{
		HoaDonID: inv.HoaDonID, SoTien: 100000, Ngay: &earlier,
	})
	require.NoError(t, err)

	rows, err := svc.ListPayments(inv.HoaDonID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, int64(100000), rows[0].ThanhToanSoTien, "oldest first")
	require.Equal(t, int64(300000), rows[1].ThanhToanSoTien)
	require.Equal(t, model.ThanhToanVNPay, rows[1].ThanhToanPhuongThuc)
	require.Equal(t, "VNP123456", rows[1].ThanhToanMeta["vnp_txn_ref"])
}
