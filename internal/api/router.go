package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/saisaravanan/judgeboard/internal/analytics"
	"github.com/saisaravanan/judgeboard/internal/api/handler"
	"github.com/saisaravanan/judgeboard/internal/config"
	"github.com/saisaravanan/judgeboard/internal/llm"
	"github.com/saisaravanan/judgeboard/internal/queue"
	"github.com/saisaravanan/judgeboard/internal/storage"
	"github.com/saisaravanan/judgeboard/internal/suggest"
)

type Router struct {
	engine *gin.Engine
}

func NewRouter(cfg *config.Config, db *storage.PostgresDB, q *queue.RedisQueue) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	store := storage.NewStore(db)
	service := analytics.NewService(store, cfg.Analytics.CacheTTL, cfg.Analytics.MetricsPeriod)

	// Suggestion generation degrades gracefully without an API key.
	var suggester *suggest.Suggester
	if llmClient, err := llm.NewClient(&cfg.LLM); err != nil {
		log.Printf("Warning: suggestion generation disabled: %v", err)
	} else {
		suggester = suggest.NewSuggester(llmClient)
	}

	metricsHandler := handler.NewMetricsHandler(service)
	evalHandler := handler.NewEvaluationHandler(store.Evaluations, q, service)
	judgeHandler := handler.NewJudgeHandler(store.Judges)
	suggHandler := handler.NewSuggestionHandler(store.Suggestions, service, suggester)
	healthHandler := handler.NewHealthHandler(q)

	engine.GET("/health", healthHandler.Status)

	v1 := engine.Group("/api/v1")
	{
		judges := v1.Group("/judges")
		{
			judges.GET("", judgeHandler.ListActive)
			judges.GET("/stats", metricsHandler.GetFleetStats)
			judges.GET("/:id", judgeHandler.GetByID)
			judges.GET("/:id/metrics", metricsHandler.GetMetrics)
			judges.POST("/:id/metrics/refresh", metricsHandler.RefreshMetrics)
			judges.GET("/:id/series", metricsHandler.GetSeries)
		}

		evaluations := v1.Group("/evaluations")
		{
			evaluations.POST("", evalHandler.Ingest)
			evaluations.GET("/:id", evalHandler.GetByID)
			evaluations.POST("/:id/review", evalHandler.CompleteReview)
		}

		suggestions := v1.Group("/suggestions")
		{
			suggestions.GET("", suggHandler.List)
			suggestions.POST("/generate", suggHandler.Generate)
			suggestions.POST("/:id/approve", suggHandler.Approve)
			suggestions.POST("/:id/reject", suggHandler.Reject)
		}
	}

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
