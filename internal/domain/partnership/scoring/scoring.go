package scoring

import (
	"errors"
	"math"
)

// 지구 평균 반지름 (m)
const earthRadiusMeters = 6371000

// 항목별 원점수 만점
const (
	CategoryMax = 40
	DistanceMax = 20
	PriceMax    = 20
	PeakMax     = 20
)

// 전환율 테이블에 없는 카테고리 쌍의 기본 점수
const defaultTransitionScore = 10

// Weights 합성 점수 가중치. 네 항목의 합은 반드시 100
type Weights struct {
	CategoryTransition int `json:"categoryTransition"`
	Distance           int `json:"distance"`
	PriceSimilarity    int `json:"priceSimilarity"`
	PeakTimeAlignment  int `json:"peakTimeAlignment"`
}

var ErrInvalidWeights = errors.New("matching weights must sum to exactly 100")

// Validate 가중치 합 검증. 할당 시점에 1회 호출한다
func (w Weights) Validate() error {
	if w.CategoryTransition+w.Distance+w.PriceSimilarity+w.PeakTimeAlignment != 100 {
		return ErrInvalidWeights
	}
	return nil
}

// DefaultWeights 서비스 기본 가중치
func DefaultWeights() Weights {
	return Weights{
		CategoryTransition: 40,
		Distance:           20,
		PriceSimilarity:    20,
		PeakTimeAlignment:  20,
	}
}

// Subscores 항목별 원점수 (각자의 만점 기준)
type Subscores struct {
	Category float64 // /40
	Distance float64 // /20
	Price    float64 // /20
	Peak     float64 // /20
}

// DistanceMeters 하버사인 대원거리 (m). 순수 함수, 대칭, 동일 좌표는 0
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// distanceSteps 거리 구간별 점수 테이블. "걸어갈 만하지만 바로 옆은 아닌" 거리를 선호
// [<50)→10, [50,100)→15, [100,300]→20, (300,400]→15, (400,500]→10, (500,∞)→0
var distanceSteps = []struct {
	upper     float64
	inclusive bool
	score     float64
}{
	{50, false, 10},
	{100, false, 15},
	{300, true, 20},
	{400, true, 15},
	{500, true, 10},
}

// DistanceScore 거리 -> 0~20 점 단계 함수
func DistanceScore(d float64) float64 {
	for _, step := range distanceSteps {
		if d < step.upper || (step.inclusive && d == step.upper) {
			return step.score
		}
	}
	return 0
}

// TransitionTable 카테고리 쌍 전환율 테이블 (from -> to -> 점수)
type TransitionTable map[string]map[string]int

// DefaultTransitionTable 기본 전환율 테이블
// 실서비스에서는 CategoryFatigueMatrix 집계로 대체 예정
func DefaultTransitionTable() TransitionTable {
	return TransitionTable{
		"한식":     {"카페/디저트": 35, "양식": 20, "일식": 25, "중식": 15},
		"일식":     {"카페/디저트": 30, "한식": 20, "양식": 25},
		"중식":     {"카페/디저트": 30, "한식": 25, "양식": 20},
		"양식":     {"카페/디저트": 35, "한식": 20, "일식": 20},
		"카페/디저트": {"한식": 15, "일식": 15, "양식": 15, "중식": 15},
		"분식":     {"카페/디저트": 30, "한식": 20},
	}
}

// Score 카테고리 전환 점수 조회. 미등록 쌍(빈 카테고리 포함)은 기본 10점
func (t TransitionTable) Score(from, to string) float64 {
	if rates, ok := t[from]; ok {
		if score, ok := rates[to]; ok {
			return float64(score)
		}
	}
	return defaultTransitionScore
}

// SubscoreFunc 거래 데이터 집계가 준비되면 교체 가능한 항목 점수 함수
type SubscoreFunc func(myStoreID, candidateID string) float64

// FixedSubscore 고정 점수 함수 (가격 유사도/피크타임은 현재 15점 고정)
func FixedSubscore(score float64) SubscoreFunc {
	return func(_, _ string) float64 { return score }
}

// Composite 항목별 원점수를 가중치 비율로 환산해 0~100 합성 점수 산출
// raw/만점 * 가중치 의 합. 가중치는 Validate 를 통과했다고 가정한다
func Composite(sub Subscores, w Weights) float64 {
	score := sub.Category/CategoryMax*float64(w.CategoryTransition) +
		sub.Distance/DistanceMax*float64(w.Distance) +
		sub.Price/PriceMax*float64(w.PriceSimilarity) +
		sub.Peak/PeakMax*float64(w.PeakTimeAlignment)
	return score
}
