package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/azure-analyst/backend/internal/service"
)

type RouterDeps struct {
	Analyzer Analyzer
	Verifier *service.TokenVerifier
	Limiter  *rate.Limiter
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewRouter - 공개 엔드포인트(health, metrics, openapi)와 인증이 필요한 /api/v1 그룹 구성
func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// 페이로드 숫자를 float64 대신 json.Number로 디코딩 (큰 정수 ID 보존)
	binding.EnableDecoderUseNumber = true

	router := gin.New()
	router.Use(gin.Recovery(), RequestIDMiddleware(), AccessLogMiddleware(logger))

	router.GET("/ping", Ping)
	router.GET("/", Root)
	router.GET("/openapi.json", OpenAPIDoc)
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api/v1")
	api.Use(RateLimitMiddleware(deps.Limiter), AuthMiddleware(deps.Verifier))
	api.POST("/analyze", NewAnalyzeHandler(deps.Analyzer).Analyze)

	return router
}
