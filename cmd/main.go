package main

import (
	"context"
	"encoding/json"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"resume-coach/domain"
	"resume-coach/infrastructure"
	"resume-coach/interfaces"
)

const defaultQuestionCount = 5

func main() {
	// Load .env
	_ = godotenv.Load()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	// Connect DB
	db := infrastructure.NewMySQLConnection()
	store := infrastructure.NewStore(db)

	// Connect RabbitMQ
	rmq := infrastructure.NewRabbitMQ()

	// Init Gemini client
	gemini := infrastructure.NewGeminiClient()

	questionCount := defaultQuestionCount
	if v := os.Getenv("INTERVIEW_QUESTION_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			questionCount = n
		}
	}

	// Worker consumer: runs queued resume critiques.
	rmq.ConsumeJobs(func(job infrastructure.AnalysisJob) {
		ctx := context.Background()
		logger := log.WithFields(log.Fields{"analysis_id": job.AnalysisID, "user_id": job.UserID})
		logger.Info("worker processing analysis")

		if err := store.UpdateAnalysisStatus(ctx, job.AnalysisID, domain.AnalysisProcessing, ""); err != nil {
			logger.WithError(err).Error("failed to mark analysis processing")
			return
		}

		report, err := gemini.Critique(ctx, job.ResumeText)
		if err != nil {
			logger.WithError(err).Error("critique failed")
			if uerr := store.UpdateAnalysisStatus(ctx, job.AnalysisID, domain.AnalysisFailed, err.Error()); uerr != nil {
				logger.WithError(uerr).Error("failed to mark analysis failed")
			}
			return
		}

		reportJSON, _ := json.Marshal(report)
		if err := store.CompleteAnalysis(ctx, job.AnalysisID, string(reportJSON)); err != nil {
			logger.WithError(err).Error("failed to store analysis result")
			return
		}

		logger.WithField("overall_score", report.OverallScore).Info("worker finished analysis")
	})

	// Setup Gin router
	router := gin.Default()
	interfaces.NewHTTPHandler(router, store, gemini, rmq, questionCount)

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	log.Infof("🚀 Server running on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal(err)
	}
}
