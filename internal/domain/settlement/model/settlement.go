package model

import (
	"time"

	pModel "coupon_day/internal/domain/partnership/model"
	"coupon_day/pkg/model"
)

// 정산 상태
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusPaid      = "PAID"

	// StatusCalculated 저장 전 미리보기 전용 상태. DB 에는 기록되지 않는다
	StatusCalculated = "CALCULATED"
)

// Settlement 월별 수수료 정산
//
// 불변식: (PartnershipID, PeriodStart) 당 최대 1건,
// 생성 시점의 집계/수수료율 스냅샷이며 이후 토큰 사용과 무관하게 유지된다
type Settlement struct {
	model.BaseModel
	PartnershipID string    `gorm:"type:uuid;not null;uniqueIndex:idx_settlements_period" json:"partnershipId"`
	PeriodStart   time.Time `gorm:"not null;uniqueIndex:idx_settlements_period" json:"periodStart"`
	// PeriodEnd 배타적 상한 (다음 달 1일 00:00)
	PeriodEnd time.Time `gorm:"not null" json:"periodEnd"`

	TotalRedemptions    int `gorm:"not null;default:0" json:"totalRedemptions"`
	TotalDiscountAmount int `gorm:"not null;default:0" json:"totalDiscountAmount"`
	// CommissionPerUnit 생성 시점 스냅샷. 이후 파트너십 수수료율이 바뀌어도 불변
	CommissionPerUnit int `gorm:"not null" json:"commissionPerUnit"`
	TotalCommission   int `gorm:"not null;default:0" json:"totalCommission"`

	Status string     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	PaidAt *time.Time `json:"paidAt,omitempty"`

	Partnership *pModel.Partnership `gorm:"foreignKey:PartnershipID" json:"partnership,omitempty"`
}

// CanTransition 허용된 상태 전이인지 검사 (PENDING→CONFIRMED→PAID 단방향)
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed
	case StatusConfirmed:
		return to == StatusPaid
	default:
		return false
	}
}

// ValidStatus 저장 가능한 정산 상태인지 검사
func ValidStatus(status string) bool {
	return status == StatusPending || status == StatusConfirmed || status == StatusPaid
}

// MonthPeriod 연/월의 [시작, 배타적 끝) 구간
func MonthPeriod(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, 0)
}

// CouponBreakdown 쿠폰별 정산 내역
type CouponBreakdown struct {
	CrossCouponID string `json:"crossCouponId"`
	CouponName    string `json:"couponName"`
	DiscountType  string `json:"discountType"`
	Count         int    `json:"count"`
	// DiscountAmount FIXED 쿠폰만 합산. PERCENTAGE 는 주문 금액을 저장하지 않아 0
	DiscountAmount int `json:"discountAmount"`
	Commission     int `json:"commission"`
}

// Summary 정산 미리보기 (영속화되지 않는 계산 결과)
type Summary struct {
	PartnershipID       string            `json:"partnershipId"`
	PeriodStart         time.Time         `json:"periodStart"`
	PeriodEnd           time.Time         `json:"periodEnd"`
	TotalRedemptions    int               `json:"totalRedemptions"`
	TotalDiscountAmount int               `json:"totalDiscountAmount"`
	CommissionPerUnit   int               `json:"commissionPerUnit"`
	TotalCommission     int               `json:"totalCommission"`
	Status              string            `json:"status"`
	Details             []CouponBreakdown `json:"details"`
}
