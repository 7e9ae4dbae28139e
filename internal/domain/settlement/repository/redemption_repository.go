package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
)

// RedemptionGroup 기간 내 쿠폰별 사용 건수 집계 행
type RedemptionGroup struct {
	CrossCouponID string `db:"cross_coupon_id"`
	CouponName    string `db:"coupon_name"`
	DiscountType  string `db:"discount_type"`
	DiscountValue int    `db:"discount_value"`
	Count         int    `db:"cnt"`
}

// RedemptionRepository 정산 계산용 raw SQL 집계 리포지토리
type RedemptionRepository interface {
	// GroupByCoupon [start, end) 구간에 사용 처리된 토큰을 쿠폰별로 집계
	GroupByCoupon(partnershipID string, start, end time.Time) ([]RedemptionGroup, error)
}

type redemptionRepository struct {
	db *sqlx.DB
}

func NewRedemptionRepository(db *sqlx.DB) RedemptionRepository {
	return &redemptionRepository{db: db}
}

const groupByCouponQuery = `
SELECT c.id             AS cross_coupon_id,
       c.name           AS coupon_name,
       c.discount_type  AS discount_type,
       c.discount_value AS discount_value,
       COUNT(*)         AS cnt
FROM meal_tokens t
JOIN cross_coupons c ON c.id = t.selected_cross_coupon_id
WHERE t.partnership_id = $1
  AND t.status = 'REDEEMED'
  AND t.redeemed_at >= $2
  AND t.redeemed_at < $3
GROUP BY c.id, c.name, c.discount_type, c.discount_value
ORDER BY cnt DESC`

func (r *redemptionRepository) GroupByCoupon(partnershipID string, start, end time.Time) ([]RedemptionGroup, error) {
	groups := []RedemptionGroup{}
	err := r.db.Select(&groups, groupByCouponQuery, partnershipID, start, end)
	return groups, err
}
