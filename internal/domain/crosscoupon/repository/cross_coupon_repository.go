package repository

import (
	"coupon_day/internal/domain/crosscoupon/model"

	"gorm.io/gorm"
)

type CrossCouponRepository interface {
	Create(coupon *model.CrossCoupon) error
	GetByID(id string) (*model.CrossCoupon, error)
	// GetByStore provider 이거나 distributor 제휴에 걸린 쿠폰 전체
	GetByStore(storeID string) ([]model.CrossCoupon, error)
	GetActiveByPartnership(partnershipID string) ([]model.CrossCoupon, error)
	CountActiveByPartnership(partnershipID string) (int64, error)
	Update(coupon *model.CrossCoupon) error
	// Deactivate 소프트 삭제 (정산 이력 보존)
	Deactivate(id string) error
	// IncrementSelected / IncrementRedeemed 통계 카운터 원자 증분
	IncrementSelected(id string) error
	IncrementRedeemed(tx *gorm.DB, id string) error
}

type crossCouponRepository struct {
	db *gorm.DB
}

func NewCrossCouponRepository(db *gorm.DB) CrossCouponRepository {
	return &crossCouponRepository{db: db}
}

func (r *crossCouponRepository) Create(coupon *model.CrossCoupon) error {
	return r.db.Create(coupon).Error
}

func (r *crossCouponRepository) GetByID(id string) (*model.CrossCoupon, error) {
	var coupon model.CrossCoupon
	if err := r.db.First(&coupon, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *crossCouponRepository) GetByStore(storeID string) ([]model.CrossCoupon, error) {
	var coupons []model.CrossCoupon
	err := r.db.
		Where("provider_store_id = ? OR partnership_id IN (?)",
			storeID,
			r.db.Table("partnerships").Select("id").Where("distributor_store_id = ?", storeID),
		).
		Order("created_at DESC").
		Find(&coupons).Error
	return coupons, err
}

func (r *crossCouponRepository) GetActiveByPartnership(partnershipID string) ([]model.CrossCoupon, error) {
	var coupons []model.CrossCoupon
	err := r.db.
		Where("partnership_id = ? AND is_active = ?", partnershipID, true).
		Find(&coupons).Error
	return coupons, err
}

func (r *crossCouponRepository) CountActiveByPartnership(partnershipID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.CrossCoupon{}).
		Where("partnership_id = ? AND is_active = ?", partnershipID, true).
		Count(&count).Error
	return count, err
}

func (r *crossCouponRepository) Update(coupon *model.CrossCoupon) error {
	return r.db.Save(coupon).Error
}

func (r *crossCouponRepository) Deactivate(id string) error {
	return r.db.Model(&model.CrossCoupon{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *crossCouponRepository) IncrementSelected(id string) error {
	return r.db.Model(&model.CrossCoupon{}).
		Where("id = ?", id).
		UpdateColumn("stats_selected", gorm.Expr("stats_selected + 1")).Error
}

// IncrementRedeemed 토큰 사용 처리 트랜잭션 안에서 호출된다
func (r *crossCouponRepository) IncrementRedeemed(tx *gorm.DB, id string) error {
	return tx.Model(&model.CrossCoupon{}).
		Where("id = ?", id).
		UpdateColumn("stats_redeemed", gorm.Expr("stats_redeemed + 1")).Error
}
