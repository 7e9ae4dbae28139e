package service

import (
	"testing"

	"coupon_day/internal/domain/partnership/model"
	"coupon_day/internal/domain/partnership/scoring"
	storeModel "coupon_day/internal/domain/store/model"
	"coupon_day/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockStoreRepository is a mock of StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) GetByID(id string) (*storeModel.Store, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storeModel.Store), args.Error(1)
}

func (m *MockStoreRepository) GetByIDs(ids []string) ([]storeModel.Store, error) {
	args := m.Called(ids)
	return args.Get(0).([]storeModel.Store), args.Error(1)
}

func (m *MockStoreRepository) GetCandidates(excludeIDs []string, excludeCategoryID string, limit int) ([]storeModel.Store, error) {
	args := m.Called(excludeIDs, excludeCategoryID, limit)
	return args.Get(0).([]storeModel.Store), args.Error(1)
}

func (m *MockStoreRepository) Update(store *storeModel.Store) error {
	args := m.Called(store)
	return args.Error(0)
}

func newMatchingService(t *testing.T) (*MockStoreRepository, *MockPartnershipRepository, MatchingService) {
	mockStores := new(MockStoreRepository)
	mockPartnerships := new(MockPartnershipRepository)
	service, err := NewMatchingService(mockStores, mockPartnerships, scoring.DefaultWeights(), nil, 50)
	assert.NoError(t, err)
	return mockStores, mockPartnerships, service
}

// 기준 좌표 (서울 시청). 위도 0.0018도 차이는 약 200m
const (
	baseLat = 37.5665
	baseLon = 126.9780
)

func matchStore(id, name, category string, lat, lon float64) storeModel.Store {
	s := storeModel.Store{
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
		Status:    storeModel.StoreStatusActive,
	}
	s.ID = id
	if category != "" {
		s.CategoryID = "cat-" + id
		s.Category = &storeModel.Category{Name: category}
	}
	return s
}

func TestGetRecommendations(t *testing.T) {
	t.Run("Partnered stores and self excluded from candidates", func(t *testing.T) {
		mockStores, mockPartnerships, service := newMatchingService(t)
		me := matchStore("store-a", "백반집", "한식", baseLat, baseLon)

		mockStores.On("GetByID", "store-a").Return(&me, nil)
		mockPartnerships.On("GetPartneredStoreIDs", "store-a").Return([]string{"store-b", "store-c"}, nil)
		mockStores.On("GetCandidates", mock.MatchedBy(func(ids []string) bool {
			return assert.ObjectsAreEqual([]string{"store-b", "store-c", "store-a"}, ids)
		}), me.CategoryID, 50).Return([]storeModel.Store{}, nil)

		recs, err := service.GetRecommendations("store-a", model.RoleDistributor, 0, nil)

		assert.NoError(t, err)
		assert.Empty(t, recs)
		mockStores.AssertExpectations(t)
	})

	t.Run("Provider role inverts transition direction", func(t *testing.T) {
		mockStores, mockPartnerships, service := newMatchingService(t)
		// 카페 입장에서 distributor 방향(카페/디저트->한식)은 15점이지만
		// provider 방향(한식->카페/디저트)은 35점이다
		me := matchStore("store-a", "동네 카페", "카페/디저트", baseLat, baseLon)
		candidate := matchStore("store-b", "백반집", "한식", baseLat+0.0018, baseLon)

		mockStores.On("GetByID", "store-a").Return(&me, nil)
		mockPartnerships.On("GetPartneredStoreIDs", "store-a").Return([]string{}, nil)
		mockStores.On("GetCandidates", mock.Anything, me.CategoryID, 50).
			Return([]storeModel.Store{candidate}, nil)

		asDistributor, err := service.GetRecommendations("store-a", model.RoleDistributor, 0, nil)
		assert.NoError(t, err)
		asProvider, err := service.GetRecommendations("store-a", model.RoleProvider, 0, nil)
		assert.NoError(t, err)

		assert.Equal(t, "카페/디저트", asDistributor[0].CategoryTransition.From)
		assert.Equal(t, "한식", asDistributor[0].CategoryTransition.To)
		assert.Equal(t, "한식", asProvider[0].CategoryTransition.From)
		assert.Equal(t, "카페/디저트", asProvider[0].CategoryTransition.To)
		assert.InDelta(t, 0.375, asDistributor[0].CategoryTransition.TransitionRate, 0.001)
		assert.InDelta(t, 0.875, asProvider[0].CategoryTransition.TransitionRate, 0.001)
		assert.Greater(t, asProvider[0].MatchScore, asDistributor[0].MatchScore)
	})

	t.Run("Sorted by score descending with default limit", func(t *testing.T) {
		mockStores, mockPartnerships, service := newMatchingService(t)
		me := matchStore("store-a", "백반집", "한식", baseLat, baseLon)

		// 점수대를 섞어 12곳: 근거리 카페 4곳(85), 근거리 미등록 업종 4곳(60), 원거리 미등록 4곳(40)
		var candidates []storeModel.Store
		for i := 0; i < 4; i++ {
			candidates = append(candidates,
				matchStore("far", "네일샵", "네일아트", baseLat+0.02, baseLon),
				matchStore("near-cafe", "카페", "카페/디저트", baseLat+0.0018, baseLon),
				matchStore("near-etc", "네일샵", "네일아트", baseLat+0.0018, baseLon),
			)
		}

		mockStores.On("GetByID", "store-a").Return(&me, nil)
		mockPartnerships.On("GetPartneredStoreIDs", "store-a").Return([]string{}, nil)
		mockStores.On("GetCandidates", mock.Anything, me.CategoryID, 50).Return(candidates, nil)

		recs, err := service.GetRecommendations("store-a", model.RoleDistributor, 0, nil)

		assert.NoError(t, err)
		assert.Len(t, recs, 10)
		for i := 1; i < len(recs); i++ {
			assert.GreaterOrEqual(t, recs[i-1].MatchScore, recs[i].MatchScore)
		}
		assert.InDelta(t, 85, recs[0].MatchScore, 0.001)
		assert.InDelta(t, 40, recs[9].MatchScore, 0.001)
	})

	t.Run("Unregistered category pair scores default transition", func(t *testing.T) {
		mockStores, mockPartnerships, service := newMatchingService(t)
		me := matchStore("store-a", "백반집", "", baseLat, baseLon)
		candidate := matchStore("store-b", "네일샵", "네일아트", baseLat+0.0018, baseLon)

		mockStores.On("GetByID", "store-a").Return(&me, nil)
		mockPartnerships.On("GetPartneredStoreIDs", "store-a").Return([]string{}, nil)
		mockStores.On("GetCandidates", mock.Anything, "", 50).
			Return([]storeModel.Store{candidate}, nil)

		recs, err := service.GetRecommendations("store-a", model.RoleDistributor, 0, nil)

		assert.NoError(t, err)
		assert.Len(t, recs, 1)
		// 카테고리 기본 10점 + 거리 만점 + 가격/피크 고정 15점 = 10+20+15+15 = 60
		assert.InDelta(t, 60, recs[0].MatchScore, 0.001)
		assert.InDelta(t, 0.25, recs[0].CategoryTransition.TransitionRate, 0.001)
	})

	t.Run("Reasons only from category and distance", func(t *testing.T) {
		mockStores, mockPartnerships, service := newMatchingService(t)
		me := matchStore("store-a", "백반집", "한식", baseLat, baseLon)
		strong := matchStore("store-b", "카페", "카페/디저트", baseLat+0.0018, baseLon)
		weak := matchStore("store-c", "네일샵", "네일아트", baseLat+0.02, baseLon)

		mockStores.On("GetByID", "store-a").Return(&me, nil)
		mockPartnerships.On("GetPartneredStoreIDs", "store-a").Return([]string{}, nil)
		mockStores.On("GetCandidates", mock.Anything, me.CategoryID, 50).
			Return([]storeModel.Store{strong, weak}, nil)

		recs, err := service.GetRecommendations("store-a", model.RoleDistributor, 0, nil)

		assert.NoError(t, err)
		assert.Len(t, recs, 2)
		assert.Len(t, recs[0].Reasons, 2)
		assert.Contains(t, recs[0].Reasons[0], "전환율")
		assert.Contains(t, recs[0].Reasons[1], "거리")
		// 약한 후보는 사유 없이 빈 배열로 내려간다 (null 아님)
		assert.NotNil(t, recs[1].Reasons)
		assert.Empty(t, recs[1].Reasons)
	})

	t.Run("Custom weights must sum to 100", func(t *testing.T) {
		mockStores, _, service := newMatchingService(t)
		bad := &scoring.Weights{CategoryTransition: 50, Distance: 20, PriceSimilarity: 20, PeakTimeAlignment: 20}

		recs, err := service.GetRecommendations("store-a", model.RoleDistributor, 0, bad)

		assert.Nil(t, recs)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		mockStores.AssertNotCalled(t, "GetByID")
	})

	t.Run("Store not found", func(t *testing.T) {
		mockStores, _, service := newMatchingService(t)

		mockStores.On("GetByID", "missing").Return(nil, gorm.ErrRecordNotFound)

		recs, err := service.GetRecommendations("missing", model.RoleDistributor, 0, nil)

		assert.Nil(t, recs)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}
