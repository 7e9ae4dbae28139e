package model

import (
	"time"

	ccModel "coupon_day/internal/domain/crosscoupon/model"
	baseModel "coupon_day/pkg/model"
)

// 토큰 상태 머신: ISSUED -> SELECTED -> REDEEMED, ISSUED/SELECTED -> EXPIRED
// REDEEMED 와 EXPIRED 는 종단 상태. 만료는 읽기 시점에 지연 감지된다
const (
	StatusIssued   = "ISSUED"
	StatusSelected = "SELECTED"
	StatusRedeemed = "REDEEMED"
	StatusExpired  = "EXPIRED"
)

// MealToken 식사 토큰. distributor 매장 고객을 provider 매장 쿠폰으로 연결하는
// 시간 제한 1회용 코드. 정산/감사를 위해 삭제하지 않는다
type MealToken struct {
	baseModel.BaseModel
	TokenCode          string     `gorm:"type:varchar(8);uniqueIndex;not null" json:"tokenCode"`
	PartnershipID      string     `gorm:"type:uuid;not null;index" json:"partnershipId"`
	DistributorStoreID string     `gorm:"type:uuid;not null;index" json:"distributorStoreId"`
	CustomerID         *string    `gorm:"type:uuid;index" json:"customerId,omitempty"` // 익명 발급 지원
	Status             string     `gorm:"type:varchar(20);default:'ISSUED';index" json:"status"`
	SelectedCrossCouponID *string `gorm:"type:uuid;index" json:"selectedCrossCouponId,omitempty"`
	SelectedAt         *time.Time `json:"selectedAt,omitempty"`
	RedeemedAt         *time.Time `json:"redeemedAt,omitempty"`
	ExpiresAt          time.Time  `gorm:"not null" json:"expiresAt"`

	// 연관
	SelectedCrossCoupon *ccModel.CrossCoupon `gorm:"foreignKey:SelectedCrossCouponID" json:"selectedCrossCoupon,omitempty"`
}

// IsExpired 만료 시각 경과 여부
func (t *MealToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

// IsTerminal 종단 상태 여부
func (t *MealToken) IsTerminal() bool {
	return t.Status == StatusRedeemed || t.Status == StatusExpired
}

// ExpiryFor 사용 가능 기간 -> 만료 시각. 모두 해당 일의 끝(23:59:59)으로 맞춘다
func ExpiryFor(window string, now time.Time) time.Time {
	var day time.Time
	switch window {
	case ccModel.WindowSameDay:
		day = now
	case ccModel.WindowWithinWeek:
		day = now.AddDate(0, 0, 7)
	default: // next_day 가 기본
		day = now.AddDate(0, 0, 1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, day.Location())
}

// windowRank 기간 넓이 순위. 미등록 값은 ExpiryFor 와 같이 next_day 취급
func windowRank(window string) int {
	switch window {
	case ccModel.WindowSameDay:
		return 0
	case ccModel.WindowWithinWeek:
		return 2
	default:
		return 1
	}
}

// BroadestWindow 제휴의 활성 쿠폰들이 서로 다른 기간을 가질 때 가장 넓은 기간 선택
// (발급 시점에는 어떤 쿠폰을 고를지 모르므로 고객에게 가장 유리한 쪽을 적용)
func BroadestWindow(coupons []ccModel.CrossCoupon) string {
	windows := []string{ccModel.WindowSameDay, ccModel.WindowNextDay, ccModel.WindowWithinWeek}
	best := 0
	for _, c := range coupons {
		if r := windowRank(c.RedemptionWindow); r > best {
			best = r
		}
	}
	return windows[best]
}
