package service

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"coupon_day/internal/domain/partnership/model"
	"coupon_day/internal/domain/partnership/repository"
	"coupon_day/internal/domain/partnership/scoring"
	storeModel "coupon_day/internal/domain/store/model"
	storeRepo "coupon_day/internal/domain/store/repository"
	"coupon_day/pkg/apperr"

	"gorm.io/gorm"
)

// 추천 사유 발급 임계치: 항목 원점수가 만점의 75% 이상일 때
// 가격/피크 항목은 고정 플레이스홀더라 사유를 내지 않는다
const reasonThreshold = 0.75

// 추천 기본/최대 개수
const (
	defaultRecommendationLimit = 10
	maxRecommendationLimit     = 50
)

// MatchingService 파트너 매칭 추천
type MatchingService interface {
	// GetRecommendations 합성 점수 내림차순 추천 목록
	// weights 가 nil 이면 설정 기본 가중치를 쓴다. 가중치는 호출 단위로만 전달되며
	// 엔진 내부 가변 상태로 보관하지 않는다 (동시 요청 간 오염 방지)
	GetRecommendations(storeID string, role string, limit int, weights *scoring.Weights) ([]model.Recommendation, error)
}

type matchingService struct {
	stores       storeRepo.StoreRepository
	partnerships repository.PartnershipRepository

	defaultWeights scoring.Weights
	transitions    scoring.TransitionTable
	candidateLimit int

	// 가격 유사도/피크타임 점수. 거래 집계 데이터가 준비되면 실측 기반 함수로 교체
	priceScore scoring.SubscoreFunc
	peakScore  scoring.SubscoreFunc
}

// NewMatchingService 매칭 서비스 생성. 기본 가중치는 생성 시점에 1회 검증한다
func NewMatchingService(
	stores storeRepo.StoreRepository,
	partnerships repository.PartnershipRepository,
	defaultWeights scoring.Weights,
	transitions scoring.TransitionTable,
	candidateLimit int,
) (MatchingService, error) {
	if err := defaultWeights.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if candidateLimit <= 0 {
		candidateLimit = 50
	}
	if transitions == nil {
		transitions = scoring.DefaultTransitionTable()
	}

	return &matchingService{
		stores:         stores,
		partnerships:   partnerships,
		defaultWeights: defaultWeights,
		transitions:    transitions,
		candidateLimit: candidateLimit,
		priceScore:     scoring.FixedSubscore(15),
		peakScore:      scoring.FixedSubscore(15),
	}, nil
}

func (s *matchingService) GetRecommendations(storeID string, role string, limit int, weights *scoring.Weights) ([]model.Recommendation, error) {
	w := s.defaultWeights
	if weights != nil {
		if err := weights.Validate(); err != nil {
			return nil, apperr.Validation(err.Error())
		}
		w = *weights
	}
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	if limit > maxRecommendationLimit {
		limit = maxRecommendationLimit
	}

	myStore, err := s.stores.GetByID(storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("매장을 찾을 수 없습니다")
		}
		return nil, err
	}

	// 이미 제휴 중인 매장(양방향) + 자기 자신 제외
	excludeIDs, err := s.partnerships.GetPartneredStoreIDs(storeID)
	if err != nil {
		return nil, err
	}
	excludeIDs = append(excludeIDs, storeID)

	// 같은 카테고리 제휴는 정책상 금지 (경쟁이 아닌 교차 판매가 목적)
	candidates, err := s.stores.GetCandidates(excludeIDs, myStore.CategoryID, s.candidateLimit)
	if err != nil {
		return nil, err
	}

	recommendations := make([]model.Recommendation, 0, len(candidates))
	for i := range candidates {
		recommendations = append(recommendations, s.score(myStore, &candidates[i], role, w))
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].MatchScore > recommendations[j].MatchScore
	})

	if len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}
	return recommendations, nil
}

func (s *matchingService) score(myStore, candidate *storeModel.Store, role string, w scoring.Weights) model.Recommendation {
	distance := scoring.DistanceMeters(
		myStore.Latitude, myStore.Longitude,
		candidate.Latitude, candidate.Longitude,
	)

	// 전환 방향은 토큰 흐름을 따른다: distributor 관점은 내 매장 → 후보,
	// provider 관점은 후보(배포처) → 내 매장
	fromCategory, toCategory := myStore.CategoryName(), candidate.CategoryName()
	if role == model.RoleProvider {
		fromCategory, toCategory = toCategory, fromCategory
	}

	sub := scoring.Subscores{
		Category: s.transitions.Score(fromCategory, toCategory),
		Distance: scoring.DistanceScore(distance),
		Price:    s.priceScore(myStore.ID, candidate.ID),
		Peak:     s.peakScore(myStore.ID, candidate.ID),
	}
	composite := scoring.Composite(sub, w)

	var reasons []string
	if sub.Category/scoring.CategoryMax >= reasonThreshold {
		reasons = append(reasons, fmt.Sprintf("%s에서 %s으로의 전환율이 높습니다",
			fromCategory, toCategory))
	}
	if sub.Distance/scoring.DistanceMax >= reasonThreshold {
		reasons = append(reasons, fmt.Sprintf("적절한 거리(%.0fm)에 위치해 있습니다", distance))
	}
	if reasons == nil {
		reasons = []string{}
	}

	return model.Recommendation{
		Store: model.RecommendedStore{
			ID:       candidate.ID,
			Name:     candidate.Name,
			Category: candidate.CategoryName(),
			Address:  candidate.Address,
			Distance: math.Round(distance),
		},
		MatchScore:          composite,
		Reasons:             reasons,
		ExpectedPerformance: estimatePerformance(composite, sub),
		CategoryTransition: model.CategoryTransition{
			From:           fromCategory,
			To:             toCategory,
			TransitionRate: sub.Category / scoring.CategoryMax,
		},
	}
}

// estimatePerformance 합성 점수 기반의 결정적 추정치
// 실측 데이터가 아닌 참고용 예상치이며 보장값이 아니다
func estimatePerformance(composite float64, sub scoring.Subscores) model.ExpectedPerformance {
	transitionRate := sub.Category / scoring.CategoryMax
	inflow := math.Round(composite * 3)
	selections := math.Round(inflow * transitionRate)
	roi := math.Round(composite/20*10) / 10

	return model.ExpectedPerformance{
		MonthlyTokenInflow:      int(inflow),
		MonthlyCouponSelections: int(selections),
		ExpectedROI:             roi,
	}
}
