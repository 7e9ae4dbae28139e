package crosscoupon

import (
	"coupon_day/internal/domain/crosscoupon/handler"
	"coupon_day/internal/domain/crosscoupon/repository"
	"coupon_day/internal/domain/crosscoupon/service"
	pRepo "coupon_day/internal/domain/partnership/repository"
	"coupon_day/internal/pkg/middleware"
	"coupon_day/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CrossCouponModule 크로스 쿠폰 모듈
type CrossCouponModule struct{}

func init() {
	registry.Register(&CrossCouponModule{})
}

func (m *CrossCouponModule) Name() string {
	return "crosscoupon"
}

func (m *CrossCouponModule) Priority() int {
	return 3
}

func (m *CrossCouponModule) Init(ctx *registry.ModuleContext) error {
	couponRepo := repository.NewCrossCouponRepository(ctx.DB)
	statsRepo := repository.NewStatsRepository(ctx.SQLX)
	partnershipRepo := pRepo.NewPartnershipRepository(ctx.DB)

	couponService := service.NewCrossCouponService(couponRepo, statsRepo, partnershipRepo)
	couponHandler := handler.NewCrossCouponHandler(couponService)

	setupRoutes(ctx.Router, couponHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CrossCouponHandler) {
	g := r.Group("/cross-coupons", middleware.StoreAuthMiddleware())
	{
		g.POST("", h.CreateCrossCoupon)
		g.GET("", h.GetCrossCoupons)
		g.GET("/summary", h.GetStoreSummary)
		g.PUT("/:id", h.UpdateCrossCoupon)
		g.DELETE("/:id", h.DeleteCrossCoupon)
		g.GET("/:id/stats", h.GetCrossCouponStats)
	}
}
