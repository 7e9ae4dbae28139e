package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters(t *testing.T) {
	t.Run("Identical points yield zero", func(t *testing.T) {
		assert.Equal(t, 0.0, DistanceMeters(37.5665, 126.9780, 37.5665, 126.9780))
	})

	t.Run("Symmetric", func(t *testing.T) {
		d1 := DistanceMeters(37.5665, 126.9780, 37.5796, 126.9770)
		d2 := DistanceMeters(37.5796, 126.9770, 37.5665, 126.9780)
		assert.InDelta(t, d1, d2, 1e-9)
	})

	t.Run("Known distance", func(t *testing.T) {
		// 서울시청 ~ 경복궁 방면, 대략 1km 내외
		d := DistanceMeters(37.5665, 126.9780, 37.5759, 126.9768)
		assert.Greater(t, d, 900.0)
		assert.Less(t, d, 1200.0)
	})
}

func TestDistanceScore(t *testing.T) {
	cases := []struct {
		distance float64
		want     float64
	}{
		{0, 10},
		{49.9, 10},
		{50, 15},
		{99.9, 15},
		{100, 20},
		{200, 20},
		{300, 20},
		{300.1, 15},
		{400, 15},
		{400.1, 10},
		{500, 10},
		{500.1, 0},
		{10000, 0},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, DistanceScore(tc.distance), "distance %.1f", tc.distance)
	}
}

func TestTransitionTable(t *testing.T) {
	table := DefaultTransitionTable()

	t.Run("Known pair", func(t *testing.T) {
		assert.Equal(t, 35.0, table.Score("한식", "카페/디저트"))
		assert.Equal(t, 25.0, table.Score("중식", "한식"))
	})

	t.Run("Unknown pair defaults to 10", func(t *testing.T) {
		assert.Equal(t, 10.0, table.Score("한식", "세차장"))
		assert.Equal(t, 10.0, table.Score("피트니스", "한식"))
	})

	t.Run("Empty category defaults to 10", func(t *testing.T) {
		assert.Equal(t, 10.0, table.Score("", "카페/디저트"))
		assert.Equal(t, 10.0, table.Score("한식", ""))
	})
}

func TestWeightsValidate(t *testing.T) {
	t.Run("Default weights valid", func(t *testing.T) {
		assert.NoError(t, DefaultWeights().Validate())
	})

	t.Run("Custom valid weights", func(t *testing.T) {
		w := Weights{CategoryTransition: 50, Distance: 30, PriceSimilarity: 10, PeakTimeAlignment: 10}
		assert.NoError(t, w.Validate())
	})

	t.Run("Sum not 100 rejected", func(t *testing.T) {
		w := Weights{CategoryTransition: 40, Distance: 20, PriceSimilarity: 20, PeakTimeAlignment: 10}
		assert.ErrorIs(t, w.Validate(), ErrInvalidWeights)
	})
}

func TestComposite(t *testing.T) {
	t.Run("Max subscores yield 100", func(t *testing.T) {
		sub := Subscores{Category: 40, Distance: 20, Price: 20, Peak: 20}
		assert.InDelta(t, 100, Composite(sub, DefaultWeights()), 1e-9)
	})

	t.Run("Zero subscores yield 0", func(t *testing.T) {
		assert.Equal(t, 0.0, Composite(Subscores{}, DefaultWeights()))
	})

	t.Run("Reference flow scores", func(t *testing.T) {
		// 전환 35/40, 거리 20/20, 가격 15/20, 피크 15/20 -> 기본 가중치에서 원점수 합과 동일
		sub := Subscores{Category: 35, Distance: 20, Price: 15, Peak: 15}
		assert.InDelta(t, 85, Composite(sub, DefaultWeights()), 1e-9)
	})

	t.Run("Bounded for any valid weights", func(t *testing.T) {
		weights := []Weights{
			{100, 0, 0, 0},
			{0, 100, 0, 0},
			{25, 25, 25, 25},
			{70, 10, 10, 10},
		}
		subs := []Subscores{
			{},
			{Category: 40, Distance: 20, Price: 20, Peak: 20},
			{Category: 10, Distance: 15, Price: 15, Peak: 15},
		}
		for _, w := range weights {
			assert.NoError(t, w.Validate())
			for _, sub := range subs {
				score := Composite(sub, w)
				assert.GreaterOrEqual(t, score, 0.0)
				assert.LessOrEqual(t, score, 100.0)
			}
		}
	})
}
