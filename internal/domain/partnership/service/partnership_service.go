package service

import (
	"errors"
	"time"

	ccModel "coupon_day/internal/domain/crosscoupon/model"
	"coupon_day/internal/domain/partnership/model"
	"coupon_day/internal/domain/partnership/repository"
	"coupon_day/pkg/apperr"

	"gorm.io/gorm"
)

// CrossCouponLister 제휴별 활성 크로스 쿠폰 조회 (crosscoupon 모듈 구현)
type CrossCouponLister interface {
	GetActiveByPartnership(partnershipID string) ([]ccModel.CrossCoupon, error)
}

// TokenCounter 제휴별 토큰 발급 수 집계 (mealtoken 모듈 구현)
type TokenCounter interface {
	CountByPartnership(partnershipID string) (int64, error)
}

// PartnershipView 파트너 매장 요약과 집계가 포함된 제휴 응답
type PartnershipView struct {
	model.Partnership
	ActiveCrossCoupons []ccModel.CrossCoupon `json:"activeCrossCoupons"`
	TokenCount         int64                 `json:"tokenCount"`
}

// PartnershipService 제휴 요청/응답 라이프사이클
type PartnershipService interface {
	RequestPartnership(requesterStoreID, targetStoreID string) (*model.Partnership, error)
	RespondToPartnership(partnershipID, responderStoreID string, accept bool) (*model.Partnership, error)
	GetPartnerships(storeID string, status string) ([]PartnershipView, error)
}

type partnershipService struct {
	repo    repository.PartnershipRepository
	coupons CrossCouponLister
	tokens  TokenCounter
}

func NewPartnershipService(repo repository.PartnershipRepository, coupons CrossCouponLister, tokens TokenCounter) PartnershipService {
	return &partnershipService{repo: repo, coupons: coupons, tokens: tokens}
}

// RequestPartnership 제휴 요청 생성. 요청자가 distributor 가 된다
func (s *partnershipService) RequestPartnership(requesterStoreID, targetStoreID string) (*model.Partnership, error) {
	// 1. 자기 매장과의 제휴 금지
	if requesterStoreID == targetStoreID {
		return nil, apperr.InvalidOperation("자기 매장과는 제휴를 맺을 수 없습니다")
	}

	// 2. 종료되지 않은 제휴가 양방향 어느 쪽으로든 존재하면 중복
	if _, err := s.repo.GetActivePair(requesterStoreID, targetStoreID); err == nil {
		return nil, apperr.Conflict("이미 진행 중인 파트너십이 있습니다")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 3. PENDING 생성
	p := &model.Partnership{
		DistributorStoreID: requesterStoreID,
		ProviderStoreID:    targetStoreID,
		Status:             model.StatusPending,
		RequestedBy:        requesterStoreID,
		RequestedAt:        time.Now(),
	}
	if err := s.repo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// RespondToPartnership 요청 수락/거절. 상태 검사와 갱신은 단일 트랜잭션(행 잠금)으로
// 수행되어 동시 응답이 둘 다 성공하는 경쟁을 막는다
func (s *partnershipService) RespondToPartnership(partnershipID, responderStoreID string, accept bool) (*model.Partnership, error) {
	var result *model.Partnership

	err := s.repo.Respond(partnershipID, func(p *model.Partnership) error {
		if p.Status != model.StatusPending {
			if p.Status == model.StatusActive {
				return apperr.InvalidState("이미 수락된 파트너십입니다")
			}
			return apperr.InvalidState("이미 처리된 파트너십입니다")
		}
		if !p.IsParty(responderStoreID) {
			return apperr.Forbidden("파트너십 당사자만 응답할 수 있습니다")
		}
		if p.RequestedBy == responderStoreID {
			return apperr.InvalidOperation("자신의 요청에는 응답할 수 없습니다")
		}

		now := time.Now()
		p.RespondedAt = &now
		if accept {
			p.Status = model.StatusActive
		} else {
			p.Status = model.StatusTerminated
			p.TerminatedAt = &now
		}
		result = p
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("파트너십을 찾을 수 없습니다")
		}
		return nil, err
	}

	return result, nil
}

// GetPartnerships 매장이 당사자인 제휴 목록 + 활성 쿠폰/토큰 집계
func (s *partnershipService) GetPartnerships(storeID string, status string) ([]PartnershipView, error) {
	list, err := s.repo.GetByStore(storeID, status)
	if err != nil {
		return nil, err
	}

	views := make([]PartnershipView, 0, len(list))
	for i := range list {
		p := list[i]

		coupons, err := s.coupons.GetActiveByPartnership(p.ID)
		if err != nil {
			return nil, err
		}
		if coupons == nil {
			coupons = []ccModel.CrossCoupon{}
		}

		tokenCount, err := s.tokens.CountByPartnership(p.ID)
		if err != nil {
			return nil, err
		}

		views = append(views, PartnershipView{
			Partnership:        p,
			ActiveCrossCoupons: coupons,
			TokenCount:         tokenCount,
		})
	}
	return views, nil
}
