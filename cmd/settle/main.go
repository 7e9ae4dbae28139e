package main

import (
	"flag"
	"os"
	"time"

	pRepo "coupon_day/internal/domain/partnership/repository"
	"coupon_day/internal/domain/settlement/repository"
	"coupon_day/internal/domain/settlement/service"
	"coupon_day/internal/pkg/config"
	"coupon_day/pkg/database"
	"coupon_day/pkg/logger"

	"go.uber.org/zap"
)

// 월별 정산 배치. cron 으로 매월 1일 실행을 가정하며 기본값은 지난달이다.
// 멱등하므로 같은 달에 여러 번 실행해도 안전하다.
func main() {
	var year, month int
	flag.IntVar(&year, "year", 0, "정산 연도 (기본: 지난달)")
	flag.IntVar(&month, "month", 0, "정산 월 (기본: 지난달)")
	flag.Parse()

	if year == 0 || month == 0 {
		last := time.Now().AddDate(0, -1, 0)
		year, month = last.Year(), int(last.Month())
	}

	config.LoadConfig()
	logger.InitLogger(config.GlobalConfig.App.Debug)
	defer logger.Sync()

	db := database.InitDatabase()
	sqlxDB := database.InitSQLX()

	settlementService := service.NewSettlementService(
		repository.NewSettlementRepository(db),
		repository.NewRedemptionRepository(sqlxDB),
		pRepo.NewPartnershipRepository(db),
		config.GlobalConfig.Matching.DefaultCommission,
	)

	results, err := settlementService.GenerateMonthlySettlements(year, month)
	if err != nil {
		logger.Log.Error("settlement batch failed", zap.Error(err))
		os.Exit(1)
	}

	created, existing, failed := 0, 0, 0
	for _, r := range results {
		switch {
		case r.Error != "":
			failed++
		case r.Created:
			created++
		default:
			existing++
		}
	}

	logger.Log.Info("settlement batch finished",
		zap.Int("year", year), zap.Int("month", month),
		zap.Int("partnerships", len(results)),
		zap.Int("created", created),
		zap.Int("existing", existing),
		zap.Int("failed", failed))

	if failed > 0 {
		os.Exit(1)
	}
}
