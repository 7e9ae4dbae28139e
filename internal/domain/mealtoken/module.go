package mealtoken

import (
	ccRepo "coupon_day/internal/domain/crosscoupon/repository"
	"coupon_day/internal/domain/mealtoken/handler"
	"coupon_day/internal/domain/mealtoken/repository"
	"coupon_day/internal/domain/mealtoken/service"
	pRepo "coupon_day/internal/domain/partnership/repository"
	storeRepo "coupon_day/internal/domain/store/repository"
	"coupon_day/internal/pkg/middleware"
	"coupon_day/internal/pkg/registry"
	"coupon_day/internal/pkg/worker"

	"github.com/gin-gonic/gin"
)

// MealTokenModule 식사 토큰 모듈
type MealTokenModule struct{}

func init() {
	registry.Register(&MealTokenModule{})
}

func (m *MealTokenModule) Name() string {
	return "mealtoken"
}

func (m *MealTokenModule) Priority() int {
	// 파트너십/크로스쿠폰 뒤에 초기화
	return 4
}

func (m *MealTokenModule) Init(ctx *registry.ModuleContext) error {
	tokenRepo := repository.NewMealTokenRepository(ctx.DB)
	couponRepo := ccRepo.NewCrossCouponRepository(ctx.DB)
	partnershipRepo := pRepo.NewPartnershipRepository(ctx.DB)
	sRepo := storeRepo.NewStoreRepository(ctx.DB)

	// 선택 통계 비동기 반영 워커
	statsPool := worker.NewWorkerPool(couponRepo, 5, 1000)
	statsPool.Start()

	limiter := service.NewRedisDailyLimiter(ctx.Redis)

	tokenService := service.NewMealTokenService(
		tokenRepo, couponRepo, partnershipRepo, sRepo, limiter, statsPool)
	tokenHandler := handler.NewMealTokenHandler(tokenService)

	setupRoutes(ctx.Router, tokenHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.MealTokenHandler) {
	tokens := r.Group("/meal-tokens")
	{
		tokens.POST("", middleware.StoreAuthMiddleware(), h.IssueMealToken)
		tokens.POST("/verify", middleware.StoreAuthMiddleware(), h.VerifyAndUseToken)

		// 코드 기반 접근은 비로그인 고객도 가능
		tokens.GET("/:code", h.GetToken)
		tokens.GET("/:code/coupons", h.GetAvailableCoupons)
		tokens.POST("/:code/select", middleware.OptionalAuthMiddleware(), h.SelectCoupon)
	}

	me := r.Group("/customers/me/meal-tokens", middleware.CustomerAuthMiddleware())
	{
		me.GET("", h.GetMyTokens)
		me.GET("/:id", h.GetMyToken)
	}
}
