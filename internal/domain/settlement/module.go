package settlement

import (
	pRepo "coupon_day/internal/domain/partnership/repository"
	"coupon_day/internal/domain/settlement/handler"
	"coupon_day/internal/domain/settlement/repository"
	"coupon_day/internal/domain/settlement/service"
	"coupon_day/internal/pkg/config"
	"coupon_day/internal/pkg/middleware"
	"coupon_day/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// SettlementModule 정산 모듈
type SettlementModule struct{}

func init() {
	registry.Register(&SettlementModule{})
}

func (m *SettlementModule) Name() string {
	return "settlement"
}

func (m *SettlementModule) Priority() int {
	return 5
}

func (m *SettlementModule) Init(ctx *registry.ModuleContext) error {
	settlementRepo := repository.NewSettlementRepository(ctx.DB)
	redemptionRepo := repository.NewRedemptionRepository(ctx.SQLX)
	partnershipRepo := pRepo.NewPartnershipRepository(ctx.DB)

	settlementService := service.NewSettlementService(
		settlementRepo, redemptionRepo, partnershipRepo,
		config.GlobalConfig.Matching.DefaultCommission)
	settlementHandler := handler.NewSettlementHandler(settlementService, settlementRepo, partnershipRepo)

	setupRoutes(ctx.Router, settlementHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.SettlementHandler) {
	partnerships := r.Group("/partnerships", middleware.StoreAuthMiddleware())
	{
		partnerships.GET("/:id/settlements/preview", h.CalculateSettlement)
		partnerships.POST("/:id/settlements", h.GetOrCreateSettlement)
	}

	settlements := r.Group("/settlements", middleware.StoreAuthMiddleware())
	{
		settlements.GET("", h.GetMySettlements)
		settlements.PUT("/:id/status", h.UpdateSettlementStatus)
	}
}
