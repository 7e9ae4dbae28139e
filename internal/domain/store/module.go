package store

import (
	"coupon_day/internal/domain/store/handler"
	"coupon_day/internal/domain/store/repository"
	"coupon_day/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// StoreModule 매장 모듈
type StoreModule struct{}

func init() {
	registry.Register(&StoreModule{})
}

func (m *StoreModule) Name() string {
	return "store"
}

func (m *StoreModule) Priority() int {
	// 다른 모듈이 매장 조회에 의존하므로 가장 먼저 초기화
	return 1
}

func (m *StoreModule) Init(ctx *registry.ModuleContext) error {
	sRepo := repository.NewStoreRepository(ctx.DB)
	sHandler := handler.NewStoreHandler(sRepo)

	setupRoutes(ctx.Router, sHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.StoreHandler) {
	g := r.Group("/stores")
	{
		g.GET("/:id", h.GetStore)
	}
}
