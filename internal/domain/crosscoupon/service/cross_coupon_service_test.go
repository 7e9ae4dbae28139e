package service

import (
	"testing"
	"time"

	"coupon_day/internal/domain/crosscoupon/model"
	"coupon_day/internal/domain/crosscoupon/repository"
	pModel "coupon_day/internal/domain/partnership/model"
	"coupon_day/internal/pkg/config"
	"coupon_day/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func init() {
	config.GlobalConfig.Matching.DefaultCommission = 500
	config.GlobalConfig.Matching.DefaultDailyLimit = 30
}

// MockCrossCouponRepository is a mock of CrossCouponRepository
type MockCrossCouponRepository struct {
	mock.Mock
}

func (m *MockCrossCouponRepository) Create(coupon *model.CrossCoupon) error {
	args := m.Called(coupon)
	return args.Error(0)
}

func (m *MockCrossCouponRepository) GetByID(id string) (*model.CrossCoupon, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CrossCoupon), args.Error(1)
}

func (m *MockCrossCouponRepository) GetByStore(storeID string) ([]model.CrossCoupon, error) {
	args := m.Called(storeID)
	return args.Get(0).([]model.CrossCoupon), args.Error(1)
}

func (m *MockCrossCouponRepository) GetActiveByPartnership(partnershipID string) ([]model.CrossCoupon, error) {
	args := m.Called(partnershipID)
	return args.Get(0).([]model.CrossCoupon), args.Error(1)
}

func (m *MockCrossCouponRepository) CountActiveByPartnership(partnershipID string) (int64, error) {
	args := m.Called(partnershipID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCrossCouponRepository) Update(coupon *model.CrossCoupon) error {
	args := m.Called(coupon)
	return args.Error(0)
}

func (m *MockCrossCouponRepository) Deactivate(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCrossCouponRepository) IncrementSelected(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCrossCouponRepository) IncrementRedeemed(tx *gorm.DB, id string) error {
	args := m.Called(tx, id)
	return args.Error(0)
}

// MockStatsRepository is a mock of StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) GetDailyStats(crossCouponID string, days int) ([]repository.DailyStat, error) {
	args := m.Called(crossCouponID, days)
	return args.Get(0).([]repository.DailyStat), args.Error(1)
}

// MockPartnershipRepo is a mock of PartnershipRepository
type MockPartnershipRepo struct {
	mock.Mock
}

func (m *MockPartnershipRepo) Create(p *pModel.Partnership) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockPartnershipRepo) GetByID(id string) (*pModel.Partnership, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pModel.Partnership), args.Error(1)
}

func (m *MockPartnershipRepo) GetActivePair(storeA, storeB string) (*pModel.Partnership, error) {
	args := m.Called(storeA, storeB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pModel.Partnership), args.Error(1)
}

func (m *MockPartnershipRepo) GetByStore(storeID string, status string) ([]pModel.Partnership, error) {
	args := m.Called(storeID, status)
	return args.Get(0).([]pModel.Partnership), args.Error(1)
}

func (m *MockPartnershipRepo) GetPartneredStoreIDs(storeID string) ([]string, error) {
	args := m.Called(storeID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPartnershipRepo) GetActiveIDs() ([]string, error) {
	args := m.Called()
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPartnershipRepo) Respond(id string, update func(p *pModel.Partnership) error) error {
	args := m.Called(id)
	if args.Get(0) == nil {
		return args.Error(1)
	}
	if err := update(args.Get(0).(*pModel.Partnership)); err != nil {
		return err
	}
	return args.Error(1)
}

func newCouponService() (*MockCrossCouponRepository, *MockStatsRepository, *MockPartnershipRepo, CrossCouponService) {
	coupons := new(MockCrossCouponRepository)
	stats := new(MockStatsRepository)
	partnerships := new(MockPartnershipRepo)
	return coupons, stats, partnerships, NewCrossCouponService(coupons, stats, partnerships)
}

func activePartnership(id string) *pModel.Partnership {
	p := &pModel.Partnership{
		DistributorStoreID: "store-dist",
		ProviderStoreID:    "store-prov",
		Status:             pModel.StatusActive,
	}
	p.ID = id
	return p
}

func ownedCoupon(id string) *model.CrossCoupon {
	c := &model.CrossCoupon{
		PartnershipID:   "p-1",
		ProviderStoreID: "store-prov",
		Name:            "아메리카노 1천원 할인",
		DiscountType:    model.DiscountFixed,
		DiscountValue:   1000,
		IsActive:        true,
	}
	c.ID = id
	return c
}

func TestCreateCrossCoupon(t *testing.T) {
	validInput := func() CreateInput {
		return CreateInput{
			PartnershipID: "p-1",
			Name:          "아메리카노 1천원 할인",
			DiscountType:  model.DiscountFixed,
			DiscountValue: 1000,
		}
	}

	t.Run("Success with defaults", func(t *testing.T) {
		coupons, _, partnerships, service := newCouponService()

		partnerships.On("GetByID", "p-1").Return(activePartnership("p-1"), nil)
		coupons.On("Create", mock.AnythingOfType("*model.CrossCoupon")).Return(nil)

		coupon, err := service.CreateCrossCoupon("store-prov", validInput())

		assert.NoError(t, err)
		assert.Equal(t, "store-prov", coupon.ProviderStoreID)
		assert.Equal(t, model.WindowNextDay, coupon.RedemptionWindow)
		assert.True(t, coupon.IsActive)
		if assert.NotNil(t, coupon.DailyLimit) {
			assert.Equal(t, 30, *coupon.DailyLimit)
		}
	})

	t.Run("Distributor cannot create", func(t *testing.T) {
		coupons, _, partnerships, service := newCouponService()

		partnerships.On("GetByID", "p-1").Return(activePartnership("p-1"), nil)

		coupon, err := service.CreateCrossCoupon("store-dist", validInput())

		assert.Nil(t, coupon)
		assert.Equal(t, apperr.KindInvalidOperation, apperr.KindOf(err))
		coupons.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Pending partnership rejected", func(t *testing.T) {
		_, _, partnerships, service := newCouponService()
		p := activePartnership("p-1")
		p.Status = pModel.StatusPending

		partnerships.On("GetByID", "p-1").Return(p, nil)

		_, err := service.CreateCrossCoupon("store-prov", validInput())

		assert.Equal(t, apperr.KindInvalidOperation, apperr.KindOf(err))
	})

	t.Run("Unknown partnership", func(t *testing.T) {
		_, _, partnerships, service := newCouponService()

		partnerships.On("GetByID", "missing").Return(nil, gorm.ErrRecordNotFound)

		input := validInput()
		input.PartnershipID = "missing"
		_, err := service.CreateCrossCoupon("store-prov", input)

		assert.Equal(t, apperr.KindInvalidOperation, apperr.KindOf(err))
	})

	t.Run("Percentage over 100 rejected", func(t *testing.T) {
		_, _, partnerships, service := newCouponService()

		partnerships.On("GetByID", "p-1").Return(activePartnership("p-1"), nil)

		input := validInput()
		input.DiscountType = model.DiscountPercentage
		input.DiscountValue = 120
		_, err := service.CreateCrossCoupon("store-prov", input)

		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("Zero fixed amount rejected", func(t *testing.T) {
		_, _, partnerships, service := newCouponService()

		partnerships.On("GetByID", "p-1").Return(activePartnership("p-1"), nil)

		input := validInput()
		input.DiscountValue = 0
		_, err := service.CreateCrossCoupon("store-prov", input)

		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("Explicit daily limit kept", func(t *testing.T) {
		coupons, _, partnerships, service := newCouponService()
		limit := 5

		partnerships.On("GetByID", "p-1").Return(activePartnership("p-1"), nil)
		coupons.On("Create", mock.AnythingOfType("*model.CrossCoupon")).Return(nil)

		input := validInput()
		input.DailyLimit = &limit
		coupon, err := service.CreateCrossCoupon("store-prov", input)

		assert.NoError(t, err)
		assert.Equal(t, 5, *coupon.DailyLimit)
	})
}

func TestUpdateCrossCoupon(t *testing.T) {
	t.Run("Partial update", func(t *testing.T) {
		coupons, _, _, service := newCouponService()
		name := "김밥 2천원 할인"
		value := 2000

		coupons.On("GetByID", "c-1").Return(ownedCoupon("c-1"), nil)
		coupons.On("Update", mock.AnythingOfType("*model.CrossCoupon")).Return(nil)

		coupon, err := service.UpdateCrossCoupon("store-prov", "c-1", UpdateInput{
			Name:          &name,
			DiscountValue: &value,
		})

		assert.NoError(t, err)
		assert.Equal(t, "김밥 2천원 할인", coupon.Name)
		assert.Equal(t, 2000, coupon.DiscountValue)
		// 건드리지 않은 필드는 유지
		assert.Equal(t, model.DiscountFixed, coupon.DiscountType)
	})

	t.Run("Updated discount revalidated", func(t *testing.T) {
		coupons, _, _, service := newCouponService()
		dtype := model.DiscountPercentage
		value := 150

		coupons.On("GetByID", "c-1").Return(ownedCoupon("c-1"), nil)

		_, err := service.UpdateCrossCoupon("store-prov", "c-1", UpdateInput{
			DiscountType:  &dtype,
			DiscountValue: &value,
		})

		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		coupons.AssertNotCalled(t, "Update", mock.Anything)
	})

	t.Run("Other store's coupon hidden", func(t *testing.T) {
		coupons, _, _, service := newCouponService()
		name := "변경"

		coupons.On("GetByID", "c-1").Return(ownedCoupon("c-1"), nil)

		_, err := service.UpdateCrossCoupon("store-other", "c-1", UpdateInput{Name: &name})

		// 소유자 불일치는 존재 여부를 숨기기 위해 NotFound 로 응답
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("Not found", func(t *testing.T) {
		coupons, _, _, service := newCouponService()

		coupons.On("GetByID", "missing").Return(nil, gorm.ErrRecordNotFound)

		_, err := service.UpdateCrossCoupon("store-prov", "missing", UpdateInput{})

		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestDeleteCrossCoupon(t *testing.T) {
	t.Run("Soft delete via deactivate", func(t *testing.T) {
		coupons, _, _, service := newCouponService()

		coupons.On("GetByID", "c-1").Return(ownedCoupon("c-1"), nil)
		coupons.On("Deactivate", "c-1").Return(nil)

		err := service.DeleteCrossCoupon("store-prov", "c-1")

		assert.NoError(t, err)
		coupons.AssertExpectations(t)
	})

	t.Run("Other store's coupon hidden", func(t *testing.T) {
		coupons, _, _, service := newCouponService()

		coupons.On("GetByID", "c-1").Return(ownedCoupon("c-1"), nil)

		err := service.DeleteCrossCoupon("store-other", "c-1")

		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
		coupons.AssertNotCalled(t, "Deactivate", mock.Anything)
	})
}

func TestGetStoreSummary(t *testing.T) {
	t.Run("Aggregates across coupons", func(t *testing.T) {
		coupons, _, _, service := newCouponService()
		active := *ownedCoupon("c-1")
		active.StatsSelected = 30
		active.StatsRedeemed = 9
		inactive := *ownedCoupon("c-2")
		inactive.IsActive = false
		inactive.StatsSelected = 10
		inactive.StatsRedeemed = 1

		coupons.On("GetByStore", "store-prov").Return([]model.CrossCoupon{active, inactive}, nil)

		summary, err := service.GetStoreSummary("store-prov")

		assert.NoError(t, err)
		assert.Equal(t, 2, summary.TotalCoupons)
		assert.Equal(t, 1, summary.ActiveCoupons)
		assert.Equal(t, 40, summary.TotalSelected)
		assert.Equal(t, 10, summary.TotalRedeemed)
		assert.Equal(t, 25.0, summary.ConversionRate)
	})

	t.Run("Empty store", func(t *testing.T) {
		coupons, _, _, service := newCouponService()

		coupons.On("GetByStore", "store-prov").Return([]model.CrossCoupon{}, nil)

		summary, err := service.GetStoreSummary("store-prov")

		assert.NoError(t, err)
		assert.Equal(t, 0, summary.TotalCoupons)
		assert.Equal(t, 0.0, summary.ConversionRate)
	})
}

func TestGetCrossCouponStats(t *testing.T) {
	t.Run("Conversion rate and revenue", func(t *testing.T) {
		coupons, stats, partnerships, service := newCouponService()
		coupon := ownedCoupon("c-1")
		coupon.StatsSelected = 40
		coupon.StatsRedeemed = 13

		coupons.On("GetByID", "c-1").Return(coupon, nil)
		partnerships.On("GetByID", "p-1").Return(activePartnership("p-1"), nil)
		stats.On("GetDailyStats", "c-1", 30).Return([]repository.DailyStat{
			{Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local), Selected: 4, Redeemed: 2},
		}, nil)

		result, err := service.GetCrossCouponStats("store-prov", "c-1")

		assert.NoError(t, err)
		assert.Equal(t, 40, result.TotalSelected)
		assert.Equal(t, 13, result.TotalRedeemed)
		assert.Equal(t, 32.5, result.ConversionRate)
		assert.Equal(t, 13*500, result.EstimatedRevenue)
		assert.Len(t, result.DailyStats, 1)
	})

	t.Run("Distributor can also view", func(t *testing.T) {
		coupons, stats, partnerships, service := newCouponService()

		coupons.On("GetByID", "c-1").Return(ownedCoupon("c-1"), nil)
		partnerships.On("GetByID", "p-1").Return(activePartnership("p-1"), nil)
		stats.On("GetDailyStats", "c-1", 30).Return([]repository.DailyStat{}, nil)

		result, err := service.GetCrossCouponStats("store-dist", "c-1")

		assert.NoError(t, err)
		assert.Equal(t, 0.0, result.ConversionRate)
	})

	t.Run("Outsider forbidden", func(t *testing.T) {
		coupons, _, partnerships, service := newCouponService()

		coupons.On("GetByID", "c-1").Return(ownedCoupon("c-1"), nil)
		partnerships.On("GetByID", "p-1").Return(activePartnership("p-1"), nil)

		result, err := service.GetCrossCouponStats("store-other", "c-1")

		assert.Nil(t, result)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})

	t.Run("Not found", func(t *testing.T) {
		coupons, _, _, service := newCouponService()

		coupons.On("GetByID", "missing").Return(nil, gorm.ErrRecordNotFound)

		_, err := service.GetCrossCouponStats("store-prov", "missing")

		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}
