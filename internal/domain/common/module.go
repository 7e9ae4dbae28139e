package common

import (
	commonHandler "coupon_day/internal/pkg/common"
	"coupon_day/internal/pkg/config"
	"coupon_day/internal/pkg/middleware"
	"coupon_day/internal/pkg/registry"
	"coupon_day/internal/pkg/uploader"
	"coupon_day/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CommonModule 공통 기능 모듈 (파일 업로드 등)
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 마지막에 초기화
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	// OSS 미설정 환경(로컬 등)에서는 업로드만 비활성화하고 기동은 계속한다
	if config.GlobalConfig.OSS.Endpoint != "" {
		if err := uploader.InitUploader(); err != nil {
			logger.Log.Warn("uploader init failed, upload disabled", zap.Error(err))
		}
	}

	setupRoutes(ctx.Router)
	return nil
}

func setupRoutes(r *gin.Engine) {
	// 매장/쿠폰 이미지 업로드
	r.POST("/upload", middleware.AuthMiddleware(), commonHandler.UploadFile)
}
