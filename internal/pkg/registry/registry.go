package registry

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ModuleContext 모듈 초기화에 필요한 컨텍스트
type ModuleContext struct {
	DB     *gorm.DB
	SQLX   *sqlx.DB // 통계/집계 raw SQL 용
	Redis  *redis.Client
	Router *gin.Engine
}

// Module 모듈 인터페이스
type Module interface {
	// Name 모듈 이름
	Name() string

	// Init 모듈 초기화 (의존성 주입, 라우트 등록)
	Init(ctx *ModuleContext) error

	// Priority 초기화 우선순위 (숫자가 작을수록 먼저)
	// 예: store 모듈은 partnership 보다 먼저 초기화되어야 한다
	Priority() int
}

// moduleRegistry 전역 모듈 레지스트리
var moduleRegistry = make(map[string]Module)

// Register 모듈 등록
func Register(module Module) {
	moduleRegistry[module.Name()] = module
}

// GetModules 등록된 모든 모듈 조회
func GetModules() map[string]Module {
	return moduleRegistry
}

// InitModules 우선순위 순으로 모든 모듈 초기화
func InitModules(ctx *ModuleContext) error {
	modules := make([]Module, 0, len(moduleRegistry))
	for _, m := range moduleRegistry {
		modules = append(modules, m)
	}

	// 모듈 수가 적어 단순 정렬로 충분
	for i := 0; i < len(modules); i++ {
		for j := i + 1; j < len(modules); j++ {
			if modules[i].Priority() > modules[j].Priority() {
				modules[i], modules[j] = modules[j], modules[i]
			}
		}
	}

	for _, module := range modules {
		if err := module.Init(ctx); err != nil {
			return err
		}
	}

	return nil
}
