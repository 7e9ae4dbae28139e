package service

import (
	"errors"
	"math"

	"coupon_day/internal/domain/crosscoupon/model"
	"coupon_day/internal/domain/crosscoupon/repository"
	pModel "coupon_day/internal/domain/partnership/model"
	pRepo "coupon_day/internal/domain/partnership/repository"
	"coupon_day/internal/pkg/config"
	"coupon_day/pkg/apperr"

	"gorm.io/gorm"
)

// CreateInput 크로스 쿠폰 생성 입력
type CreateInput struct {
	PartnershipID      string
	Name               string
	Description        string
	DiscountType       string
	DiscountValue      int
	RedemptionWindow   string
	AvailableTimeStart *string
	AvailableTimeEnd   *string
	DailyLimit         *int
}

// UpdateInput 크로스 쿠폰 수정 입력. nil 필드는 변경하지 않는다
type UpdateInput struct {
	Name               *string
	Description        *string
	DiscountType       *string
	DiscountValue      *int
	RedemptionWindow   *string
	AvailableTimeStart *string
	AvailableTimeEnd   *string
	DailyLimit         *int
	IsActive           *bool
}

// StatsResult 쿠폰 성과 분석 결과
type StatsResult struct {
	CrossCoupon      *model.CrossCoupon     `json:"crossCoupon"`
	TotalSelected    int                    `json:"totalSelected"`
	TotalRedeemed    int                    `json:"totalRedeemed"`
	ConversionRate   float64                `json:"conversionRate"` // %
	EstimatedRevenue int                    `json:"estimatedRevenue"`
	DailyStats       []repository.DailyStat `json:"dailyStats"`
}

// SummaryResult 매장 단위 쿠폰 성과 요약
type SummaryResult struct {
	TotalCoupons   int     `json:"totalCoupons"`
	ActiveCoupons  int     `json:"activeCoupons"`
	TotalSelected  int     `json:"totalSelected"`
	TotalRedeemed  int     `json:"totalRedeemed"`
	ConversionRate float64 `json:"conversionRate"` // %
}

type CrossCouponService interface {
	CreateCrossCoupon(storeID string, input CreateInput) (*model.CrossCoupon, error)
	GetCrossCoupons(storeID string) ([]model.CrossCoupon, error)
	// GetStoreSummary 매장이 걸린 전체 쿠폰의 합산 성과
	GetStoreSummary(storeID string) (*SummaryResult, error)
	UpdateCrossCoupon(storeID, crossCouponID string, input UpdateInput) (*model.CrossCoupon, error)
	// DeleteCrossCoupon 소프트 삭제. 정산 이력 보존을 위해 비활성화만 한다
	DeleteCrossCoupon(storeID, crossCouponID string) error
	GetCrossCouponStats(storeID, crossCouponID string) (*StatsResult, error)
}

type crossCouponService struct {
	repo         repository.CrossCouponRepository
	stats        repository.StatsRepository
	partnerships pRepo.PartnershipRepository
}

func NewCrossCouponService(
	repo repository.CrossCouponRepository,
	stats repository.StatsRepository,
	partnerships pRepo.PartnershipRepository,
) CrossCouponService {
	return &crossCouponService{repo: repo, stats: stats, partnerships: partnerships}
}

func (s *crossCouponService) CreateCrossCoupon(storeID string, input CreateInput) (*model.CrossCoupon, error) {
	// 1. provider 매장 본인의 ACTIVE 제휴인지 확인
	partnership, err := s.partnerships.GetByID(input.PartnershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.InvalidOperation("유효한 파트너십을 찾을 수 없습니다")
		}
		return nil, err
	}
	if partnership.ProviderStoreID != storeID || partnership.Status != pModel.StatusActive {
		return nil, apperr.InvalidOperation("유효한 파트너십을 찾을 수 없습니다")
	}

	// 2. 할인 값 검증
	if err := validateDiscount(input.DiscountType, input.DiscountValue); err != nil {
		return nil, err
	}

	// 3. 기본값 적용 후 생성
	window := input.RedemptionWindow
	if window == "" {
		window = model.WindowNextDay
	}
	dailyLimit := input.DailyLimit
	if dailyLimit == nil {
		def := config.GlobalConfig.Matching.DefaultDailyLimit
		if def > 0 {
			dailyLimit = &def
		}
	}

	coupon := &model.CrossCoupon{
		PartnershipID:      input.PartnershipID,
		ProviderStoreID:    storeID,
		Name:               input.Name,
		Description:        input.Description,
		DiscountType:       input.DiscountType,
		DiscountValue:      input.DiscountValue,
		RedemptionWindow:   window,
		AvailableTimeStart: input.AvailableTimeStart,
		AvailableTimeEnd:   input.AvailableTimeEnd,
		DailyLimit:         dailyLimit,
		IsActive:           true,
	}
	if err := s.repo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *crossCouponService) GetCrossCoupons(storeID string) ([]model.CrossCoupon, error) {
	return s.repo.GetByStore(storeID)
}

func (s *crossCouponService) GetStoreSummary(storeID string) (*SummaryResult, error) {
	coupons, err := s.repo.GetByStore(storeID)
	if err != nil {
		return nil, err
	}

	summary := &SummaryResult{TotalCoupons: len(coupons)}
	for _, c := range coupons {
		if c.IsActive {
			summary.ActiveCoupons++
		}
		summary.TotalSelected += c.StatsSelected
		summary.TotalRedeemed += c.StatsRedeemed
	}
	if summary.TotalSelected > 0 {
		summary.ConversionRate = math.Round(
			float64(summary.TotalRedeemed)/float64(summary.TotalSelected)*1000) / 10
	}
	return summary, nil
}

func (s *crossCouponService) UpdateCrossCoupon(storeID, crossCouponID string, input UpdateInput) (*model.CrossCoupon, error) {
	coupon, err := s.getOwned(storeID, crossCouponID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		coupon.Name = *input.Name
	}
	if input.Description != nil {
		coupon.Description = *input.Description
	}
	if input.DiscountType != nil {
		coupon.DiscountType = *input.DiscountType
	}
	if input.DiscountValue != nil {
		coupon.DiscountValue = *input.DiscountValue
	}
	if err := validateDiscount(coupon.DiscountType, coupon.DiscountValue); err != nil {
		return nil, err
	}
	if input.RedemptionWindow != nil {
		coupon.RedemptionWindow = *input.RedemptionWindow
	}
	if input.AvailableTimeStart != nil {
		coupon.AvailableTimeStart = input.AvailableTimeStart
	}
	if input.AvailableTimeEnd != nil {
		coupon.AvailableTimeEnd = input.AvailableTimeEnd
	}
	if input.DailyLimit != nil {
		coupon.DailyLimit = input.DailyLimit
	}
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}

	if err := s.repo.Update(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *crossCouponService) DeleteCrossCoupon(storeID, crossCouponID string) error {
	if _, err := s.getOwned(storeID, crossCouponID); err != nil {
		return err
	}
	return s.repo.Deactivate(crossCouponID)
}

func (s *crossCouponService) GetCrossCouponStats(storeID, crossCouponID string) (*StatsResult, error) {
	coupon, err := s.repo.GetByID(crossCouponID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("크로스 쿠폰을 찾을 수 없습니다")
		}
		return nil, err
	}

	partnership, err := s.partnerships.GetByID(coupon.PartnershipID)
	if err != nil {
		return nil, err
	}
	// 당사자(provider/distributor)만 성과 조회 가능
	if !partnership.IsParty(storeID) {
		return nil, apperr.Forbidden("쿠폰 성과를 조회할 권한이 없습니다")
	}

	conversionRate := 0.0
	if coupon.StatsSelected > 0 {
		conversionRate = math.Round(float64(coupon.StatsRedeemed)/float64(coupon.StatsSelected)*1000) / 10
	}
	commission := partnership.CommissionOrDefault(config.GlobalConfig.Matching.DefaultCommission)

	daily, err := s.stats.GetDailyStats(crossCouponID, 30)
	if err != nil {
		return nil, err
	}

	return &StatsResult{
		CrossCoupon:      coupon,
		TotalSelected:    coupon.StatsSelected,
		TotalRedeemed:    coupon.StatsRedeemed,
		ConversionRate:   conversionRate,
		EstimatedRevenue: coupon.StatsRedeemed * commission,
		DailyStats:       daily,
	}, nil
}

func (s *crossCouponService) getOwned(storeID, crossCouponID string) (*model.CrossCoupon, error) {
	coupon, err := s.repo.GetByID(crossCouponID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("크로스 쿠폰을 찾을 수 없습니다")
		}
		return nil, err
	}
	if coupon.ProviderStoreID != storeID {
		return nil, apperr.NotFound("크로스 쿠폰을 찾을 수 없습니다")
	}
	return coupon, nil
}

func validateDiscount(discountType string, value int) error {
	switch discountType {
	case model.DiscountFixed:
		if value <= 0 {
			return apperr.Validation("할인 금액은 0보다 커야 합니다")
		}
	case model.DiscountPercentage:
		if value <= 0 || value > 100 {
			return apperr.Validation("할인율은 1~100 사이여야 합니다")
		}
	default:
		return apperr.Validation("지원하지 않는 할인 유형입니다")
	}
	return nil
}
