package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ccModel "coupon_day/internal/domain/crosscoupon/model"
	ccRepo "coupon_day/internal/domain/crosscoupon/repository"
	"coupon_day/internal/domain/mealtoken/model"
	"coupon_day/internal/domain/mealtoken/repository"
	pModel "coupon_day/internal/domain/partnership/model"
	pRepo "coupon_day/internal/domain/partnership/repository"
	storeRepo "coupon_day/internal/domain/store/repository"
	"coupon_day/internal/pkg/worker"
	"coupon_day/pkg/apperr"
	"coupon_day/pkg/metrics"
	"coupon_day/pkg/utils"

	"gorm.io/gorm"
)

// 토큰 코드 충돌 시 재생성 횟수
const tokenCodeRetries = 5

// IssueInput 토큰 발급 입력
type IssueInput struct {
	PartnershipID string
	CustomerID    *string // 익명 발급 지원
}

// IssueResult 토큰 발급 결과
type IssueResult struct {
	Token            *model.MealToken `json:"token"`
	Code             string           `json:"code"`
	ExpiresAt        time.Time        `json:"expiresAt"`
	AvailableCoupons int              `json:"availableCoupons"`
}

// AvailableCoupon 토큰으로 선택 가능한 쿠폰
type AvailableCoupon struct {
	ccModel.CrossCoupon
	ProviderStore interface{} `json:"providerStore"`
}

// SelectResult 쿠폰 선택 결과
type SelectResult struct {
	Success     bool                 `json:"success"`
	Token       *model.MealToken     `json:"token"`
	CrossCoupon *ccModel.CrossCoupon `json:"crossCoupon"`
	Message     string               `json:"message"`
}

// RedeemResult 토큰 사용 처리 결과
type RedeemResult struct {
	Success        bool   `json:"success"`
	DiscountAmount int    `json:"discountAmount"`
	CouponName     string `json:"couponName"`
	DiscountType   string `json:"discountType"`
	DiscountValue  int    `json:"discountValue"`
}

// CustomerTokensOptions 고객 토큰 목록 조회 옵션 (limit 기본 20)
type CustomerTokensOptions struct {
	Status string
	Limit  int
	Offset int
}

// StatsQueue 선택 통계 비동기 반영 큐 (worker.WorkerPool 이 구현)
type StatsQueue interface {
	AddTask(task worker.StatsTask)
}

// MealTokenService 식사 토큰 엔진
//
// GetAvailableCoupons / SelectCoupon 은 조회처럼 보이지만 만료된 토큰을
// EXPIRED 로 영속화하는 쓰기(지연 만료)를 수행한다
type MealTokenService interface {
	IssueMealToken(distributorStoreID string, input IssueInput) (*IssueResult, error)
	GetAvailableCoupons(tokenCode string) ([]AvailableCoupon, error)
	SelectCoupon(tokenCode, crossCouponID string, customerID *string) (*SelectResult, error)
	VerifyAndUseToken(providerStoreID, tokenCode string, orderAmount *int) (*RedeemResult, error)
	GetTokenByCode(code string) (*model.MealToken, error)
	GetCustomerTokens(customerID string, opts CustomerTokensOptions) ([]model.MealToken, int64, error)
	GetCustomerTokenByID(customerID, tokenID string) (*model.MealToken, error)
}

type mealTokenService struct {
	tokens       repository.MealTokenRepository
	coupons      ccRepo.CrossCouponRepository
	partnerships pRepo.PartnershipRepository
	stores       storeRepo.StoreRepository
	limiter      DailyLimiter
	statsQueue   StatsQueue

	now func() time.Time
}

func NewMealTokenService(
	tokens repository.MealTokenRepository,
	coupons ccRepo.CrossCouponRepository,
	partnerships pRepo.PartnershipRepository,
	stores storeRepo.StoreRepository,
	limiter DailyLimiter,
	statsQueue StatsQueue,
) MealTokenService {
	return &mealTokenService{
		tokens:       tokens,
		coupons:      coupons,
		partnerships: partnerships,
		stores:       stores,
		limiter:      limiter,
		statsQueue:   statsQueue,
		now:          time.Now,
	}
}

func (s *mealTokenService) IssueMealToken(distributorStoreID string, input IssueInput) (*IssueResult, error) {
	// 1. distributor 본인의 ACTIVE 제휴인지 확인
	partnership, err := s.partnerships.GetByID(input.PartnershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.InvalidOperation("유효한 파트너십을 찾을 수 없습니다")
		}
		return nil, err
	}
	if partnership.DistributorStoreID != distributorStoreID || partnership.Status != pModel.StatusActive {
		return nil, apperr.InvalidOperation("유효한 파트너십을 찾을 수 없습니다")
	}

	// 2. 활성 쿠폰이 하나도 없으면 발급 불가
	coupons, err := s.coupons.GetActiveByPartnership(input.PartnershipID)
	if err != nil {
		return nil, err
	}
	if len(coupons) == 0 {
		return nil, apperr.InvalidOperation("활성화된 크로스 쿠폰이 없습니다")
	}

	// 3. 8자리 코드 생성. 충돌 시 재시도
	code, err := s.uniqueTokenCode()
	if err != nil {
		return nil, err
	}

	// 4. 만료 시각: 활성 쿠폰들 중 가장 넓은 기간 기준
	// (발급 시점엔 어떤 쿠폰이 선택될지 모르므로 고객에게 유리한 쪽)
	now := s.now()
	expiresAt := model.ExpiryFor(model.BroadestWindow(coupons), now)

	token := &model.MealToken{
		TokenCode:          code,
		PartnershipID:      input.PartnershipID,
		DistributorStoreID: distributorStoreID,
		CustomerID:         input.CustomerID,
		Status:             model.StatusIssued,
		ExpiresAt:          expiresAt,
	}
	if err := s.tokens.Create(token); err != nil {
		return nil, err
	}

	metrics.TokenIssued()

	return &IssueResult{
		Token:            token,
		Code:             code,
		ExpiresAt:        expiresAt,
		AvailableCoupons: len(coupons),
	}, nil
}

func (s *mealTokenService) uniqueTokenCode() (string, error) {
	for i := 0; i < tokenCodeRetries; i++ {
		code, err := utils.GenerateTokenCode()
		if err != nil {
			return "", err
		}
		if _, err := s.tokens.GetByCode(code); errors.Is(err, gorm.ErrRecordNotFound) {
			return code, nil
		} else if err != nil {
			return "", err
		}
		// 이미 존재하는 코드, 재생성
	}
	return "", fmt.Errorf("failed to generate unique token code after %d attempts", tokenCodeRetries)
}

func (s *mealTokenService) GetAvailableCoupons(tokenCode string) ([]AvailableCoupon, error) {
	token, err := s.loadUsableToken(tokenCode)
	if err != nil {
		return nil, err
	}

	coupons, err := s.coupons.GetActiveByPartnership(token.PartnershipID)
	if err != nil {
		return nil, err
	}

	partnership, err := s.partnerships.GetByID(token.PartnershipID)
	if err != nil {
		return nil, err
	}
	var providerSummary interface{}
	if partnership.ProviderStore != nil {
		providerSummary = partnership.ProviderStore.Summary()
	}

	// 현재 시각이 쿠폰별 사용 가능 시간대에 드는 것만 노출
	hhmm := s.now().Format("15:04")
	available := make([]AvailableCoupon, 0, len(coupons))
	for _, c := range coupons {
		if !c.AvailableAt(hhmm) {
			continue
		}
		available = append(available, AvailableCoupon{
			CrossCoupon:   c,
			ProviderStore: providerSummary,
		})
	}
	return available, nil
}

// loadUsableToken 토큰 조회 + 상태/만료 검사. 만료는 이 시점에 영속화된다
func (s *mealTokenService) loadUsableToken(tokenCode string) (*model.MealToken, error) {
	token, err := s.tokens.GetByCode(tokenCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("유효하지 않은 토큰입니다")
		}
		return nil, err
	}

	switch token.Status {
	case model.StatusSelected, model.StatusRedeemed:
		return nil, apperr.InvalidState("이미 사용된 토큰입니다")
	case model.StatusExpired:
		return nil, apperr.InvalidState("만료된 토큰입니다")
	}

	if token.IsExpired(s.now()) {
		// 지연 만료: 읽기 경로지만 EXPIRED 전이를 영속화한 뒤 실패시킨다
		if err := s.tokens.MarkExpired(token.ID); err != nil {
			return nil, err
		}
		return nil, apperr.InvalidState("만료된 토큰입니다")
	}

	return token, nil
}

func (s *mealTokenService) SelectCoupon(tokenCode, crossCouponID string, customerID *string) (*SelectResult, error) {
	token, err := s.loadUsableToken(tokenCode)
	if err != nil {
		return nil, err
	}

	// 제휴에 속한 활성 쿠폰인지 확인
	coupons, err := s.coupons.GetActiveByPartnership(token.PartnershipID)
	if err != nil {
		return nil, err
	}
	var coupon *ccModel.CrossCoupon
	for i := range coupons {
		if coupons[i].ID == crossCouponID {
			coupon = &coupons[i]
			break
		}
	}
	if coupon == nil {
		return nil, apperr.NotFound("해당 크로스 쿠폰을 찾을 수 없습니다")
	}

	now := s.now()

	// 일일 한도: 비교+증분을 원자적으로 수행하는 Redis 카운터가 1차 방어선,
	// Redis 장애 시 트랜잭션 내 카운트로 폴백
	acquired := false
	if coupon.DailyLimit != nil {
		limit := *coupon.DailyLimit
		ok, err := s.limiter.Acquire(context.Background(), coupon.ID, limit, now)
		if err != nil {
			count, cntErr := s.tokens.CountSelectedToday(coupon.ID, now)
			if cntErr != nil {
				return nil, cntErr
			}
			if count >= int64(limit) {
				return nil, apperr.InvalidOperation("일일 발급 한도가 초과되었습니다")
			}
		} else if !ok {
			return nil, apperr.InvalidOperation("일일 발급 한도가 초과되었습니다")
		} else {
			acquired = true
		}
	}

	// 행 잠금 트랜잭션에서 상태 재확인 후 SELECTED 전이
	updated, err := s.tokens.Select(token.ID, func(t *model.MealToken) error {
		if t.Status != model.StatusIssued {
			return apperr.InvalidState("토큰이 이미 사용되었거나 만료되었습니다")
		}
		t.Status = model.StatusSelected
		t.SelectedCrossCouponID = &coupon.ID
		t.SelectedAt = &now
		if customerID != nil {
			t.CustomerID = customerID
		}
		return nil
	})
	if err != nil {
		if acquired {
			s.limiter.Release(context.Background(), coupon.ID, now)
		}
		return nil, err
	}

	// 선택 통계는 결과적 일관성으로 충분하므로 워커 풀로 비동기 반영
	s.statsQueue.AddTask(worker.StatsTask{CrossCouponID: coupon.ID})
	metrics.CouponSelected()

	message := "사용 가능한 쿠폰이 발급되었습니다"
	if provider, err := s.stores.GetByID(coupon.ProviderStoreID); err == nil {
		message = fmt.Sprintf("%s에서 사용 가능한 쿠폰이 발급되었습니다", provider.Name)
	}

	updated.SelectedCrossCoupon = coupon
	return &SelectResult{
		Success:     true,
		Token:       updated,
		CrossCoupon: coupon,
		Message:     message,
	}, nil
}

func (s *mealTokenService) VerifyAndUseToken(providerStoreID, tokenCode string, orderAmount *int) (*RedeemResult, error) {
	token, err := s.tokens.GetByCode(tokenCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("유효하지 않은 토큰입니다")
		}
		return nil, err
	}

	if token.Status != model.StatusSelected || token.SelectedCrossCouponID == nil {
		return nil, apperr.InvalidState("쿠폰이 선택되지 않은 토큰입니다")
	}

	partnership, err := s.partnerships.GetByID(token.PartnershipID)
	if err != nil {
		return nil, err
	}
	if partnership.ProviderStoreID != providerStoreID {
		return nil, apperr.Forbidden("이 매장에서 사용할 수 없는 쿠폰입니다")
	}

	if token.RedeemedAt != nil {
		return nil, apperr.InvalidState("이미 사용된 쿠폰입니다")
	}

	coupon := token.SelectedCrossCoupon
	if coupon == nil {
		coupon, err = s.coupons.GetByID(*token.SelectedCrossCouponID)
		if err != nil {
			return nil, err
		}
	}

	// PERCENTAGE 는 주문 금액이 없으면 할인액을 정할 수 없다
	var discount int
	switch coupon.DiscountType {
	case ccModel.DiscountPercentage:
		if orderAmount == nil {
			return nil, apperr.Validation("정률 할인 쿠폰은 주문 금액이 필요합니다")
		}
		discount = coupon.DiscountFor(*orderAmount)
	default:
		discount = coupon.DiscountValue
	}

	// 토큰 REDEEMED 전이와 쿠폰 통계 증분은 단일 트랜잭션
	err = s.tokens.Redeem(token.ID, s.now(), func(tx *gorm.DB) error {
		return s.coupons.IncrementRedeemed(tx, coupon.ID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 동시 사용 경쟁에서 진 경우
			return nil, apperr.InvalidState("이미 사용된 쿠폰입니다")
		}
		return nil, err
	}

	metrics.TokenRedeemed()

	return &RedeemResult{
		Success:        true,
		DiscountAmount: discount,
		CouponName:     coupon.Name,
		DiscountType:   coupon.DiscountType,
		DiscountValue:  coupon.DiscountValue,
	}, nil
}

func (s *mealTokenService) GetTokenByCode(code string) (*model.MealToken, error) {
	token, err := s.tokens.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("토큰을 찾을 수 없습니다")
		}
		return nil, err
	}
	return token, nil
}

func (s *mealTokenService) GetCustomerTokens(customerID string, opts CustomerTokensOptions) ([]model.MealToken, int64, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}

	// 목록 조회 전에 기한 경과 토큰을 일괄 EXPIRED 처리
	if err := s.tokens.ExpireOverdue(customerID, s.now()); err != nil {
		return nil, 0, err
	}

	return s.tokens.GetByCustomer(customerID, opts.Status, opts.Limit, opts.Offset)
}

func (s *mealTokenService) GetCustomerTokenByID(customerID, tokenID string) (*model.MealToken, error) {
	token, err := s.tokens.GetCustomerToken(customerID, tokenID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("토큰을 찾을 수 없습니다")
		}
		return nil, err
	}

	// 지연 만료 반영
	if !token.IsTerminal() && token.IsExpired(s.now()) {
		if err := s.tokens.MarkExpired(token.ID); err != nil {
			return nil, err
		}
		token.Status = model.StatusExpired
	}

	return token, nil
}
