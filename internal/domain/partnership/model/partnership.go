package model

import (
	"time"

	storeModel "coupon_day/internal/domain/store/model"
	baseModel "coupon_day/pkg/model"
)

// 파트너십 상태
const (
	StatusPending    = "PENDING"
	StatusActive     = "ACTIVE"
	StatusTerminated = "TERMINATED"
)

// 추천 조회 시 요청 매장의 역할 (전환 방향 결정)
const (
	RoleDistributor = "distributor"
	RoleProvider    = "provider"
)

// Partnership 매장 간 제휴. distributor 가 토큰을 발급하고 provider 가 사용 처리한다
// 불변식: DistributorStoreID != ProviderStoreID,
// 종료되지 않은 제휴는 매장 쌍(양방향)당 최대 1개
type Partnership struct {
	baseModel.BaseModel
	DistributorStoreID string     `gorm:"type:uuid;not null;index" json:"distributorStoreId"`
	ProviderStoreID    string     `gorm:"type:uuid;not null;index" json:"providerStoreId"`
	Status             string     `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`
	RequestedBy        string     `gorm:"type:uuid;not null" json:"requestedBy"`
	RequestedAt        time.Time  `json:"requestedAt"`
	RespondedAt        *time.Time `json:"respondedAt,omitempty"`
	TerminatedAt       *time.Time `json:"terminatedAt,omitempty"`
	// CommissionPerRedemption 건당 수수료 (원). nil 이면 시스템 기본값 적용
	CommissionPerRedemption *int `json:"commissionPerRedemption,omitempty"`

	// 연관
	DistributorStore *storeModel.Store `gorm:"foreignKey:DistributorStoreID" json:"distributorStore,omitempty"`
	ProviderStore    *storeModel.Store `gorm:"foreignKey:ProviderStoreID" json:"providerStore,omitempty"`
}

// IsParty 매장이 제휴 당사자인지 검사
func (p *Partnership) IsParty(storeID string) bool {
	return p.DistributorStoreID == storeID || p.ProviderStoreID == storeID
}

// CommissionOrDefault 수수료 미설정 시 기본값 반환
func (p *Partnership) CommissionOrDefault(defaultCommission int) int {
	if p.CommissionPerRedemption != nil {
		return *p.CommissionPerRedemption
	}
	return defaultCommission
}

// ExpectedPerformance 추천 결과에 포함되는 예상 성과 (측정치가 아닌 참고용 추정치)
type ExpectedPerformance struct {
	MonthlyTokenInflow      int     `json:"monthlyTokenInflow"`
	MonthlyCouponSelections int     `json:"monthlyCouponSelections"`
	ExpectedROI             float64 `json:"expectedRoi"`
}

// CategoryTransition 추천 결과에 포함되는 카테고리 전환 정보
type CategoryTransition struct {
	From           string  `json:"from"`
	To             string  `json:"to"`
	TransitionRate float64 `json:"transitionRate"` // 0~1 정규화
}

// Recommendation 파트너 추천 항목
type Recommendation struct {
	Store              RecommendedStore    `json:"store"`
	MatchScore         float64             `json:"matchScore"`
	Reasons            []string            `json:"reasons"`
	ExpectedPerformance ExpectedPerformance `json:"expectedPerformance"`
	CategoryTransition CategoryTransition  `json:"categoryTransition"`
}

// RecommendedStore 추천 대상 매장 요약
type RecommendedStore struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Address  string  `json:"address"`
	Distance float64 `json:"distance"` // m
}
