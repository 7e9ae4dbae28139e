package service

import (
	"errors"
	"time"

	ccModel "coupon_day/internal/domain/crosscoupon/model"
	pRepo "coupon_day/internal/domain/partnership/repository"
	"coupon_day/internal/domain/settlement/model"
	"coupon_day/internal/domain/settlement/repository"
	"coupon_day/pkg/apperr"
	"coupon_day/pkg/logger"
	"coupon_day/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GenerateResult 월 배치의 파트너십별 처리 결과. 실패해도 항목은 남는다
type GenerateResult struct {
	PartnershipID string            `json:"partnershipId"`
	Settlement    *model.Settlement `json:"settlement,omitempty"`
	Created       bool              `json:"created"`
	Error         string            `json:"error,omitempty"`
}

// SettlementService 월별 수수료 정산
type SettlementService interface {
	// CalculateSettlement 저장 없는 순수 계산 (미리보기)
	CalculateSettlement(partnershipID string, year, month int) (*model.Summary, error)
	// GetOrCreateSettlement 멱등 생성. 이미 있으면 기존 스냅샷을 그대로 반환
	GetOrCreateSettlement(partnershipID string, year, month int) (*model.Settlement, bool, error)
	GetStoreSettlements(storeID string, opts repository.ListOptions) ([]model.Settlement, int64, error)
	UpdateSettlementStatus(id, status string, paidAt *time.Time) (*model.Settlement, error)
	// GenerateMonthlySettlements 모든 ACTIVE 파트너십에 대해 생성.
	// 개별 실패는 격리되어 다른 파트너십 처리에 영향을 주지 않는다
	GenerateMonthlySettlements(year, month int) ([]GenerateResult, error)
}

type settlementService struct {
	settlements  repository.SettlementRepository
	redemptions  repository.RedemptionRepository
	partnerships pRepo.PartnershipRepository

	defaultCommission int
}

func NewSettlementService(
	settlements repository.SettlementRepository,
	redemptions repository.RedemptionRepository,
	partnerships pRepo.PartnershipRepository,
	defaultCommission int,
) SettlementService {
	if defaultCommission <= 0 {
		defaultCommission = 500
	}
	return &settlementService{
		settlements:       settlements,
		redemptions:       redemptions,
		partnerships:      partnerships,
		defaultCommission: defaultCommission,
	}
}

func validPeriod(year, month int) error {
	if year < 2000 || year > 9999 || month < 1 || month > 12 {
		return apperr.Validation("유효하지 않은 정산 기간입니다")
	}
	return nil
}

func (s *settlementService) CalculateSettlement(partnershipID string, year, month int) (*model.Summary, error) {
	if err := validPeriod(year, month); err != nil {
		return nil, err
	}

	partnership, err := s.partnerships.GetByID(partnershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("파트너십을 찾을 수 없습니다")
		}
		return nil, err
	}

	start, end := model.MonthPeriod(year, month)
	commission := partnership.CommissionOrDefault(s.defaultCommission)

	groups, err := s.redemptions.GroupByCoupon(partnershipID, start, end)
	if err != nil {
		return nil, err
	}

	summary := &model.Summary{
		PartnershipID:     partnershipID,
		PeriodStart:       start,
		PeriodEnd:         end,
		CommissionPerUnit: commission,
		Status:            model.StatusCalculated,
		Details:           make([]model.CouponBreakdown, 0, len(groups)),
	}

	for _, g := range groups {
		// PERCENTAGE 는 주문 금액을 저장하지 않으므로 할인 집계에서 제외
		discount := 0
		if g.DiscountType == ccModel.DiscountFixed {
			discount = g.DiscountValue * g.Count
		}

		summary.Details = append(summary.Details, model.CouponBreakdown{
			CrossCouponID:  g.CrossCouponID,
			CouponName:     g.CouponName,
			DiscountType:   g.DiscountType,
			Count:          g.Count,
			DiscountAmount: discount,
			Commission:     g.Count * commission,
		})

		summary.TotalRedemptions += g.Count
		summary.TotalDiscountAmount += discount
		summary.TotalCommission += g.Count * commission
	}

	return summary, nil
}

func (s *settlementService) GetOrCreateSettlement(partnershipID string, year, month int) (*model.Settlement, bool, error) {
	if err := validPeriod(year, month); err != nil {
		return nil, false, err
	}

	start, _ := model.MonthPeriod(year, month)

	existing, err := s.settlements.GetByPeriod(partnershipID, start)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	summary, err := s.CalculateSettlement(partnershipID, year, month)
	if err != nil {
		return nil, false, err
	}

	settlement := &model.Settlement{
		PartnershipID:       partnershipID,
		PeriodStart:         summary.PeriodStart,
		PeriodEnd:           summary.PeriodEnd,
		TotalRedemptions:    summary.TotalRedemptions,
		TotalDiscountAmount: summary.TotalDiscountAmount,
		CommissionPerUnit:   summary.CommissionPerUnit,
		TotalCommission:     summary.TotalCommission,
		Status:              model.StatusPending,
	}
	if err := s.settlements.Create(settlement); err != nil {
		// 동시 생성 경쟁에서 진 경우 유니크 제약에 걸린다. 기존 행을 다시 읽는다
		if existing, getErr := s.settlements.GetByPeriod(partnershipID, start); getErr == nil {
			return existing, false, nil
		}
		return nil, false, err
	}

	metrics.SettlementCreated()

	return settlement, true, nil
}

func (s *settlementService) GetStoreSettlements(storeID string, opts repository.ListOptions) ([]model.Settlement, int64, error) {
	if opts.Limit <= 0 {
		opts.Limit = 12
	}
	return s.settlements.GetByStore(storeID, opts)
}

func (s *settlementService) UpdateSettlementStatus(id, status string, paidAt *time.Time) (*model.Settlement, error) {
	if !model.ValidStatus(status) {
		return nil, apperr.Validation("유효하지 않은 정산 상태입니다")
	}

	settlement, err := s.settlements.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("정산 정보를 찾을 수 없습니다")
		}
		return nil, err
	}

	if !model.CanTransition(settlement.Status, status) {
		return nil, apperr.InvalidState("변경할 수 없는 정산 상태입니다")
	}

	if status == model.StatusPaid {
		if paidAt == nil {
			return nil, apperr.Validation("지급 완료 처리에는 지급 일시가 필요합니다")
		}
		settlement.PaidAt = paidAt
	}
	settlement.Status = status

	if err := s.settlements.Update(settlement); err != nil {
		return nil, err
	}
	return settlement, nil
}

func (s *settlementService) GenerateMonthlySettlements(year, month int) ([]GenerateResult, error) {
	if err := validPeriod(year, month); err != nil {
		return nil, err
	}

	ids, err := s.partnerships.GetActiveIDs()
	if err != nil {
		return nil, err
	}

	results := make([]GenerateResult, 0, len(ids))
	for _, id := range ids {
		settlement, created, err := s.GetOrCreateSettlement(id, year, month)
		if err != nil {
			// 개별 실패 격리: 기록만 남기고 다음 파트너십으로 진행
			logger.Log.Warn("settlement generation failed",
				zap.String("partnershipID", id),
				zap.Int("year", year), zap.Int("month", month),
				zap.Error(err))
			results = append(results, GenerateResult{PartnershipID: id, Error: err.Error()})
			continue
		}
		results = append(results, GenerateResult{
			PartnershipID: id,
			Settlement:    settlement,
			Created:       created,
		})
	}

	return results, nil
}
