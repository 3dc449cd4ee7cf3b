// file: internals/features/billing/service/statement_service.go
package service

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quanlychungcu_backend/internals/features/billing/model"
	buildingmodel "quanlychungcu_backend/internals/features/buildings/model"
	feemodel "quanlychungcu_backend/internals/features/fees/model"
)

// Statement is the read-only financial summary of one collection period.
// Building it never writes anything.
type Statement struct {
	DotThuID  uuid.UUID `json:"dot_thu_id"`
	DotThuTen string    `json:"dot_thu_ten"`
	Thang     *int      `json:"thang,omitempty"`
	Nam       *int      `json:"nam,omitempty"`

	TongPhaiThu  int64 `json:"tong_phai_thu"`  // sum of invoice due amounts
	TongDaThu    int64 `json:"tong_da_thu"`    // sum of paid amounts
	TongConThieu int64 `json:"tong_con_thieu"` // due minus paid

	SoHoaDon      int `json:"so_hoa_don"`
	SoHoaDonDaThu int `json:"so_hoa_don_da_thu"`
	SoHoaDonThieu int `json:"so_hoa_don_thieu"`

	HoaDon []StatementInvoice `json:"hoa_don"`
}

type StatementInvoice struct {
	HoaDonID    uuid.UUID             `json:"hoa_don_id"`
	HoGiaDinhMa string                `json:"ho_gia_dinh_ma"`
	TenChuHo    string                `json:"ten_chu_ho"`
	TongTien    int64                 `json:"tong_tien"`
	DaThanhToan int64                 `json:"da_thanh_toan"`
	TrangThai   model.HoaDonTrangThai `json:"trang_thai"`
	TinhLuc     *time.Time            `json:"tinh_luc,omitempty"`
	ChiTiet     []StatementLine       `json:"chi_tiet"`
}

type StatementLine struct {
	LoaiPhiTen string `json:"loai_phi_ten"`
	SoLuong    int64  `json:"so_luong"`
	DonGia     int64  `json:"don_gia"`
	ThanhTien  int64  `json:"thanh_tien"`
}

// StatementBuilder projects period + invoices + lines into a Statement.
type StatementBuilder struct {
	DB *gorm.DB
}

func NewStatementBuilder(db *gorm.DB) *StatementBuilder {
	return &StatementBuilder{DB: db}
}

func (b *StatementBuilder) GetStatement(periodID uuid.UUID) (Statement, error) {
	var st Statement

	var period model.DotThu
	if err := b.DB.First(&period, "dot_thu_id = ?", periodID).Error; err != nil {
		return st, err
	}
	st.DotThuID = period.DotThuID
	st.DotThuTen = period.DotThuTen
	st.Thang = period.DotThuThang
	st.Nam = period.DotThuNam

	var invoices []model.HoaDon
	if err := b.DB.
		Where("hoa_don_dot_thu_id = ?", periodID).
		Find(&invoices).Error; err != nil {
		return st, err
	}
	if len(invoices) == 0 {
		st.HoaDon = []StatementInvoice{}
		return st, nil
	}

	invoiceIDs := make([]uuid.UUID, 0, len(invoices))
	hoIDs := make([]uuid.UUID, 0, len(invoices))
	for _, inv := range invoices {
		invoiceIDs = append(invoiceIDs, inv.HoaDonID)
		hoIDs = append(hoIDs, inv.HoaDonHoGiaDinhID)
	}

	var households []buildingmodel.HoGiaDinh
	if err := b.DB.Where("ho_gia_dinh_id IN ?", hoIDs).Find(&households).Error; err != nil {
		return st, err
	}
	hoByID := make(map[uuid.UUID]buildingmodel.HoGiaDinh, len(households))
	for _, ho := range households {
		hoByID[ho.HoGiaDinhID] = ho
	}

	var lines []model.HoaDonChiTiet
	if err := b.DB.
		Where("hoa_don_chi_tiet_hoa_don_id IN ?", invoiceIDs).
		Order("hoa_don_chi_tiet_created_at ASC").
		Find(&lines).Error; err != nil {
		return st, err
	}

	// fee names for line labels
	feeIDSet := make(map[uuid.UUID]struct{})
	for _, l := range lines {
		feeIDSet[l.HoaDonChiTietLoaiPhiID] = struct{}{}
	}
	feeName := make(map[uuid.UUID]string, len(feeIDSet))
	if len(feeIDSet) > 0 {
		feeIDs := make([]uuid.UUID, 0, len(feeIDSet))
		for id := range feeIDSet {
			feeIDs = append(feeIDs, id)
		}
		var fees []feemodel.LoaiPhi
		if err := b.DB.Unscoped().Where("loai_phi_id IN ?", feeIDs).Find(&fees).Error; err != nil {
			return st, err
		}
		for _, f := range fees {
			feeName[f.LoaiPhiID] = f.LoaiPhiTen
		}
	}

	linesByInvoice := make(map[uuid.UUID][]StatementLine, len(invoices))
	for _, l := range lines {
		name := feeName[l.HoaDonChiTietLoaiPhiID]
		if name == "" {
			name = l.HoaDonChiTietLoaiPhiID.String()
		}
		linesByInvoice[l.HoaDonChiTietHoaDonID] = append(linesByInvoice[l.HoaDonChiTietHoaDonID], StatementLine{
			LoaiPhiTen: name,
			SoLuong:    l.HoaDonChiTietSoLuong,
			DonGia:     l.HoaDonChiTietDonGia,
			ThanhTien:  l.HoaDonChiTietThanhTien,
		})
	}

	st.HoaDon = make([]StatementInvoice, 0, len(invoices))
	for _, inv := range invoices {
		ho := hoByID[inv.HoaDonHoGiaDinhID]
		row := StatementInvoice{
			HoaDonID:    inv.HoaDonID,
			HoGiaDinhMa: ho.HoGiaDinhMa,
			TenChuHo:    ho.HoGiaDinhTenChuHo,
			TongTien:    inv.HoaDonTongTien,
			DaThanhToan: inv.HoaDonDaThanhToan,
			TrangThai:   inv.HoaDonTrangThai,
			TinhLuc:     inv.HoaDonTinhLuc,
		}
		if ls, ok := linesByInvoice[inv.HoaDonID]; ok {
			row.ChiTiet = ls
		} else {
			row.ChiTiet = []StatementLine{}
		}

		st.TongPhaiThu += inv.HoaDonTongTien
		st.TongDaThu += inv.HoaDonDaThanhToan
		st.SoHoaDon++
		if inv.HoaDonTrangThai == model.HoaDonPaid {
			st.SoHoaDonDaThu++
		} else {
			st.SoHoaDonThieu++
		}
		st.HoaDon = append(st.HoaDon, row)
	}
	st.TongConThieu = st.TongPhaiThu - st.TongDaThu

	// stable ordering by household code
	sort.Slice(st.HoaDon, func(i, j int) bool {
		return st.HoaDon[i].HoGiaDinhMa < st.HoaDon[j].HoGiaDinhMa
	})
	return st, nil
}
