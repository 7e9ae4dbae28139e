package model

import (
	baseModel "coupon_day/pkg/model"
)

// 할인 유형
const (
	DiscountFixed      = "FIXED"
	DiscountPercentage = "PERCENTAGE"
)

// 사용 가능 기간 (토큰 만료 계산에 사용)
const (
	WindowSameDay    = "same_day"
	WindowNextDay    = "next_day"
	WindowWithinWeek = "within_week"
)

// CrossCoupon 제휴 상대(provider) 매장이 내거는 교차 할인 쿠폰
// 정산 이력 보존을 위해 하드 삭제하지 않고 IsActive=false 로만 내린다
type CrossCoupon struct {
	baseModel.BaseModel
	PartnershipID   string `gorm:"type:uuid;not null;index" json:"partnershipId"`
	ProviderStoreID string `gorm:"type:uuid;not null;index" json:"providerStoreId"`
	Name            string `gorm:"type:varchar(100);not null" json:"name"`
	Description     string `gorm:"type:varchar(255)" json:"description,omitempty"`
	DiscountType    string `gorm:"type:varchar(20);not null" json:"discountType"`
	// DiscountValue FIXED 는 원 단위 금액, PERCENTAGE 는 1~100
	DiscountValue    int    `gorm:"not null" json:"discountValue"`
	RedemptionWindow string `gorm:"type:varchar(20);default:'next_day'" json:"redemptionWindow"`
	IsActive         bool   `gorm:"default:true;index" json:"isActive"`
	// DailyLimit 일일 선택 한도. nil 이면 무제한
	DailyLimit *int `json:"dailyLimit,omitempty"`
	// AvailableTimeStart/End "HH:MM" 당일 사용 가능 시간대. 자정 넘김 미지원
	AvailableTimeStart *string `gorm:"type:varchar(5)" json:"availableTimeStart,omitempty"`
	AvailableTimeEnd   *string `gorm:"type:varchar(5)" json:"availableTimeEnd,omitempty"`
	StatsSelected      int     `gorm:"default:0" json:"statsSelected"`
	StatsRedeemed      int     `gorm:"default:0" json:"statsRedeemed"`
}

// AvailableAt "HH:MM" 현재 시각이 사용 가능 시간대인지 검사
// 시간대 미설정 쿠폰은 항상 사용 가능
func (c *CrossCoupon) AvailableAt(hhmm string) bool {
	if c.AvailableTimeStart == nil || c.AvailableTimeEnd == nil {
		return true
	}
	return hhmm >= *c.AvailableTimeStart && hhmm <= *c.AvailableTimeEnd
}

// DiscountFor 사용 시점 할인액 계산. PERCENTAGE 는 주문 금액 기준 반올림
func (c *CrossCoupon) DiscountFor(orderAmount int) int {
	switch c.DiscountType {
	case DiscountFixed:
		return c.DiscountValue
	case DiscountPercentage:
		return (orderAmount*c.DiscountValue + 50) / 100
	default:
		return 0
	}
}
