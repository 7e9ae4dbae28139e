package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
)

// DailyStat 일자별 선택/사용 건수
type DailyStat struct {
	Date     time.Time `db:"date" json:"date"`
	Selected int       `db:"selected" json:"selected"`
	Redeemed int       `db:"redeemed" json:"redeemed"`
}

// StatsRepository 쿠폰 성과 집계용 raw SQL 리포지토리
// 집계 쿼리는 ORM 대신 sqlx 로 직접 작성한다
type StatsRepository interface {
	// GetDailyStats 최근 days 일간 일자별 선택/사용 추이
	GetDailyStats(crossCouponID string, days int) ([]DailyStat, error)
}

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

const dailyStatsQuery = `
SELECT d.date,
       COALESCE(s.selected, 0) AS selected,
       COALESCE(r.redeemed, 0) AS redeemed
FROM generate_series(
         (now() - ($2 - 1) * interval '1 day')::date,
         now()::date,
         interval '1 day'
     ) AS d(date)
LEFT JOIN (
    SELECT selected_at::date AS date, COUNT(*) AS selected
    FROM meal_tokens
    WHERE selected_cross_coupon_id = $1
      AND selected_at >= now() - $2 * interval '1 day'
    GROUP BY selected_at::date
) s ON s.date = d.date
LEFT JOIN (
    SELECT redeemed_at::date AS date, COUNT(*) AS redeemed
    FROM meal_tokens
    WHERE selected_cross_coupon_id = $1
      AND redeemed_at IS NOT NULL
      AND redeemed_at >= now() - $2 * interval '1 day'
    GROUP BY redeemed_at::date
) r ON r.date = d.date
ORDER BY d.date`

func (r *statsRepository) GetDailyStats(crossCouponID string, days int) ([]DailyStat, error) {
	if days <= 0 {
		days = 30
	}
	stats := []DailyStat{}
	err := r.db.Select(&stats, dailyStatsQuery, crossCouponID, days)
	return stats, err
}
