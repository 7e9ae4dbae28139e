package repository

import (
	"time"

	"coupon_day/internal/domain/settlement/model"

	"gorm.io/gorm"
)

// ListOptions 매장 정산 목록 조회 옵션
type ListOptions struct {
	Year          *int
	PartnershipID string
	Limit         int
	Offset        int
}

type SettlementRepository interface {
	Create(s *model.Settlement) error
	GetByID(id string) (*model.Settlement, error)
	// GetByPeriod (파트너십, 월) 유일 행 조회. 멱등 생성의 기준
	GetByPeriod(partnershipID string, periodStart time.Time) (*model.Settlement, error)
	// GetByStore 매장이 distributor/provider 어느 쪽이든 당사자인 정산 목록
	GetByStore(storeID string, opts ListOptions) ([]model.Settlement, int64, error)
	Update(s *model.Settlement) error
}

type settlementRepository struct {
	db *gorm.DB
}

func NewSettlementRepository(db *gorm.DB) SettlementRepository {
	return &settlementRepository{db: db}
}

func (r *settlementRepository) Create(s *model.Settlement) error {
	return r.db.Create(s).Error
}

func (r *settlementRepository) GetByID(id string) (*model.Settlement, error) {
	var s model.Settlement
	err := r.db.Preload("Partnership").
		Preload("Partnership.DistributorStore").Preload("Partnership.ProviderStore").
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settlementRepository) GetByPeriod(partnershipID string, periodStart time.Time) (*model.Settlement, error) {
	var s model.Settlement
	err := r.db.
		Where("partnership_id = ? AND period_start = ?", partnershipID, periodStart).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settlementRepository) GetByStore(storeID string, opts ListOptions) ([]model.Settlement, int64, error) {
	query := r.db.Model(&model.Settlement{}).
		Joins("JOIN partnerships ON partnerships.id = settlements.partnership_id").
		Where("partnerships.distributor_store_id = ? OR partnerships.provider_store_id = ?", storeID, storeID)

	if opts.PartnershipID != "" {
		query = query.Where("settlements.partnership_id = ?", opts.PartnershipID)
	}
	if opts.Year != nil {
		yearStart := time.Date(*opts.Year, 1, 1, 0, 0, 0, 0, time.Local)
		query = query.Where("settlements.period_start >= ? AND settlements.period_start < ?",
			yearStart, yearStart.AddDate(1, 0, 0))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var settlements []model.Settlement
	err := query.
		Preload("Partnership").
		Preload("Partnership.DistributorStore").Preload("Partnership.ProviderStore").
		Order("settlements.period_start DESC").
		Limit(opts.Limit).Offset(opts.Offset).
		Find(&settlements).Error
	return settlements, total, err
}

func (r *settlementRepository) Update(s *model.Settlement) error {
	return r.db.Save(s).Error
}
