package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector 지표 수집기
type Collector struct {
	// HTTP 지표
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 도메인 지표
	tokensIssuedTotal      prometheus.Counter
	tokensRedeemedTotal    prometheus.Counter
	couponsSelectedTotal   prometheus.Counter
	settlementsCreatedTotal prometheus.Counter
}

// NewCollector 수집기 생성 (promauto 로 기본 레지스트리에 등록)
func NewCollector() *Collector {
	return &Collector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		tokensIssuedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "meal_tokens_issued_total",
			Help: "Total number of meal tokens issued",
		}),
		tokensRedeemedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "meal_tokens_redeemed_total",
			Help: "Total number of meal tokens redeemed",
		}),
		couponsSelectedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cross_coupons_selected_total",
			Help: "Total number of cross coupon selections",
		}),
		settlementsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "settlements_created_total",
			Help: "Total number of settlement records created",
		}),
	}
}

// 전역 수집기. 서버 기동 시 한 번 생성
var Default = NewCollector()

func TokenIssued()       { Default.tokensIssuedTotal.Inc() }
func TokenRedeemed()     { Default.tokensRedeemedTotal.Inc() }
func CouponSelected()    { Default.couponsSelectedTotal.Inc() }
func SettlementCreated() { Default.settlementsCreatedTotal.Inc() }

// Middleware gin 요청 지표 수집 미들웨어
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}
		Default.httpRequestsTotal.WithLabelValues(
			c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status()),
		).Inc()
		Default.httpRequestDuration.WithLabelValues(
			c.Request.Method, endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler /metrics 노출 핸들러
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
