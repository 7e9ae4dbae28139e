package service

import (
	"context"
	"fmt"
	"time"

	"coupon_day/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DailyLimiter 쿠폰별 일일 선택 한도 카운터
// count-then-insert 경쟁을 막기 위해 비교와 증분을 원자적으로 수행해야 한다
type DailyLimiter interface {
	// Acquire 한도 내이면 카운터를 증가시키고 true 반환. false 면 한도 초과
	Acquire(ctx context.Context, crossCouponID string, limit int, now time.Time) (bool, error)
	// Release Acquire 이후 선택 트랜잭션이 실패했을 때 카운터 반납
	Release(ctx context.Context, crossCouponID string, now time.Time)
}

// Lua 스크립트: 한도 비교 + 증분 + 자정 만료 설정을 원자적으로 수행
var acquireScript = redis.NewScript(`
	local current = tonumber(redis.call("GET", KEYS[1]) or "0")
	local limit = tonumber(ARGV[1])

	if current >= limit then
		return -1 -- 한도 초과
	end

	redis.call("INCR", KEYS[1])
	if current == 0 then
		redis.call("EXPIRE", KEYS[1], ARGV[2])
	end

	return current + 1
`)

type redisDailyLimiter struct {
	rdb *redis.Client
}

func NewRedisDailyLimiter(rdb *redis.Client) DailyLimiter {
	return &redisDailyLimiter{rdb: rdb}
}

func dailyKey(crossCouponID string, now time.Time) string {
	return fmt.Sprintf("crosscoupon:daily:%s:%s", crossCouponID, now.Format("20060102"))
}

func (l *redisDailyLimiter) Acquire(ctx context.Context, crossCouponID string, limit int, now time.Time) (bool, error) {
	key := dailyKey(crossCouponID, now)

	// 키는 당일 자정에 소멸하도록 남은 초를 TTL 로 준다
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	ttl := int(endOfDay.Sub(now).Seconds()) + 1

	result, err := acquireScript.Run(ctx, l.rdb, []string{key}, limit, ttl).Int()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return result != -1, nil
}

func (l *redisDailyLimiter) Release(ctx context.Context, crossCouponID string, now time.Time) {
	if err := l.rdb.Decr(ctx, dailyKey(crossCouponID, now)).Err(); err != nil {
		// 반납 실패는 한도를 실제보다 타이트하게 만들 뿐이라 로그만 남긴다
		if logger.Log != nil {
			logger.Log.Warn("failed to release daily limit counter",
				zap.String("cross_coupon_id", crossCouponID), zap.Error(err))
		}
	}
}
