package partnership

import (
	ccRepo "coupon_day/internal/domain/crosscoupon/repository"
	mtRepo "coupon_day/internal/domain/mealtoken/repository"
	"coupon_day/internal/domain/partnership/handler"
	"coupon_day/internal/domain/partnership/repository"
	"coupon_day/internal/domain/partnership/scoring"
	"coupon_day/internal/domain/partnership/service"
	storeRepo "coupon_day/internal/domain/store/repository"
	"coupon_day/internal/pkg/config"
	"coupon_day/internal/pkg/middleware"
	"coupon_day/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// PartnershipModule 파트너십 모듈 (매칭 추천 + 제휴 생명주기)
type PartnershipModule struct{}

func init() {
	registry.Register(&PartnershipModule{})
}

func (m *PartnershipModule) Name() string {
	return "partnership"
}

func (m *PartnershipModule) Priority() int {
	return 2
}

func (m *PartnershipModule) Init(ctx *registry.ModuleContext) error {
	pRepo := repository.NewPartnershipRepository(ctx.DB)
	sRepo := storeRepo.NewStoreRepository(ctx.DB)
	couponRepo := ccRepo.NewCrossCouponRepository(ctx.DB)
	tokenRepo := mtRepo.NewMealTokenRepository(ctx.DB)

	mc := config.GlobalConfig.Matching

	var transitions scoring.TransitionTable
	if len(mc.Transition) > 0 {
		transitions = scoring.TransitionTable(mc.Transition)
	}

	matchingService, err := service.NewMatchingService(
		sRepo, pRepo,
		scoring.Weights{
			CategoryTransition: mc.Weights.CategoryTransition,
			Distance:           mc.Weights.Distance,
			PriceSimilarity:    mc.Weights.PriceSimilarity,
			PeakTimeAlignment:  mc.Weights.PeakTimeAlignment,
		},
		transitions,
		mc.CandidateLimit,
	)
	if err != nil {
		return err
	}

	partnershipService := service.NewPartnershipService(pRepo, couponRepo, tokenRepo)
	partnershipHandler := handler.NewPartnershipHandler(matchingService, partnershipService)

	setupRoutes(ctx.Router, partnershipHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PartnershipHandler) {
	g := r.Group("/partnerships", middleware.StoreAuthMiddleware())
	{
		g.GET("/recommendations", h.GetRecommendations)
		g.POST("", h.RequestPartnership)
		g.GET("", h.GetPartnerships)
		g.POST("/:id/respond", h.RespondToPartnership)
	}
}
