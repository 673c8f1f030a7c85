package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"resume-coach/domain"
	"resume-coach/infrastructure"
)

// Publisher queues async analysis jobs.
type Publisher interface {
	PublishJob(job infrastructure.AnalysisJob) error
}

// AnalysisStore is the persistence surface the handlers need beyond the
// score log.
type AnalysisStore interface {
	domain.ScoreStore
	CreateAnalysis(ctx context.Context, userID string) (*domain.ResumeAnalysis, error)
	GetAnalysis(ctx context.Context, id uint, userID string) (*domain.ResumeAnalysis, error)
	UpdateAnalysisStatus(ctx context.Context, id uint, status, errMsg string) error
}

type HTTPHandler struct {
	Store         AnalysisStore
	Cognition     domain.Cognition
	Queue         Publisher
	Sessions      *SessionRegistry
	QuestionCount int
}

func NewHTTPHandler(router *gin.Engine, store AnalysisStore, cog domain.Cognition, queue Publisher, questionCount int) *HTTPHandler {
	h := &HTTPHandler{
		Store:         store,
		Cognition:     cog,
		Queue:         queue,
		Sessions:      NewSessionRegistry(),
		QuestionCount: questionCount,
	}

	authed := router.Group("/", requireUser())
	authed.POST("/analyze", h.Analyze)
	authed.POST("/analyze/async", h.AnalyzeAsync)
	authed.GET("/analyze/:id", h.GetAnalysis)
	authed.POST("/job-suggestions", h.JobSuggestions)
	authed.POST("/mockinterview", h.StartInterview)
	authed.POST("/interview/:id/answer", h.SetAnswer)
	authed.POST("/interview/:id/next", h.Next)
	authed.POST("/interview/:id/previous", h.Previous)
	authed.POST("/interview/:id/skip", h.Skip)
	authed.POST("/interview/:id/evaluate", h.Evaluate)
	authed.GET("/dashboard", h.Dashboard)

	return h
}

// requireUser resolves the caller identity. Authentication happens upstream;
// the core trusts the forwarded user id and only refuses requests without one.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString("userID")
}

// statusFor maps the error taxonomy onto HTTP statuses: validation errors are
// the caller's fault, collaborator failures are upstream failures.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrExtractionFailed),
		errors.Is(err, domain.ErrIndexOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return http.StatusConflict
	case errors.Is(err, errSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCognitionUnavailable),
		errors.Is(err, domain.ErrGenerationFailed),
		errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// renderReport keeps the report JSON shape the frontend renders: overallScore
// plus one lowercase key per category.
func renderReport(report *domain.ResumeReport) gin.H {
	out := gin.H{"overallScore": report.OverallScore}
	for _, cat := range report.Categories {
		out[strings.ToLower(cat.Name)] = gin.H{
			"score":       cat.Score,
			"issues":      cat.Issues,
			"suggestions": cat.Suggestions,
		}
	}
	return out
}

// scoreResume is the synchronous scoring pipeline: extension gate, text
// extraction, critique, normalization. All-or-nothing; nothing is retained on
// failure, so the caller can simply re-submit.
func (h *HTTPHandler) scoreResume(ctx context.Context, data []byte, filename string) (*domain.ResumeReport, string, error) {
	text, err := infrastructure.ExtractResumeText(data, filename)
	if err != nil {
		return nil, "", err
	}
	report, err := h.Cognition.Critique(ctx, text)
	if err != nil {
		return nil, "", err
	}
	return report, text, nil
}

func readUpload(c *gin.Context) ([]byte, string, error) {
	header, err := c.FormFile("resume")
	if err != nil {
		return nil, "", errors.New("resume file is required")
	}
	file, err := header.Open()
	if err != nil {
		return nil, "", errors.New("failed to open resume file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", errors.New("failed to read resume file")
	}
	return data, header.Filename, nil
}

// Analyze scores an uploaded resume and returns the report directly.
func (h *HTTPHandler) Analyze(c *gin.Context) {
	data, filename, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	report, resumeText, err := h.scoreResume(c.Request.Context(), data, filename)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       renderReport(report),
		"resumeText": resumeText,
	})
}

// AnalyzeAsync accepts the upload, validates and extracts inline so format
// errors surface immediately, then queues the critique for the worker.
func (h *HTTPHandler) AnalyzeAsync(c *gin.Context) {
	data, filename, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, err := infrastructure.ExtractResumeText(data, filename)
	if err != nil {
		fail(c, err)
		return
	}

	analysis, err := h.Store.CreateAnalysis(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}

	job := infrastructure.AnalysisJob{
		AnalysisID: analysis.ID,
		UserID:     analysis.UserID,
		ResumeText: text,
	}
	if err := h.Queue.PublishJob(job); err != nil {
		// Mark failed so the row never sits queued forever.
		if uerr := h.Store.UpdateAnalysisStatus(c.Request.Context(), analysis.ID, domain.AnalysisFailed, "queue publish failed"); uerr != nil {
			log.WithField("analysis_id", analysis.ID).WithError(uerr).Error("failed to mark analysis failed")
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue analysis"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analysis_id": analysis.ID,
		"status":      domain.AnalysisQueued,
	})
}

// GetAnalysis returns the status of an async analysis, with the report once
// completed.
func (h *HTTPHandler) GetAnalysis(c *gin.Context) {
	id, err := strconv.Atoi(strings.TrimSpace(c.Param("id")))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	analysis, err := h.Store.GetAnalysis(c.Request.Context(), uint(id), userID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
			return
		}
		fail(c, domain.ErrStoreUnavailable)
		return
	}

	resp := gin.H{
		"analysis_id": analysis.ID,
		"status":      analysis.Status,
		"created_at":  analysis.CreatedAt,
		"updated_at":  analysis.UpdatedAt,
	}
	if analysis.Status == domain.AnalysisFailed {
		resp["error"] = analysis.Error
	}
	if analysis.Status == domain.AnalysisCompleted && analysis.ReportJSON != nil {
		var report domain.ResumeReport
		if err := json.Unmarshal([]byte(*analysis.ReportJSON), &report); err == nil {
			resp["data"] = renderReport(&report)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// JobSuggestions is a pure query; cognition failures degrade to an empty list
// since the user can always type a role manually.
func (h *HTTPHandler) JobSuggestions(c *gin.Context) {
	var req struct {
		ResumeText string `json:"resumeText" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suggestions, err := h.Cognition.SuggestRoles(c.Request.Context(), req.ResumeText)
	if err != nil {
		log.WithError(err).Warn("job suggestions unavailable")
		suggestions = nil
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// StartInterview generates the question set and registers a new session.
func (h *HTTPHandler) StartInterview(c *gin.Context) {
	var req struct {
		ResumeText  string `json:"resumeText" binding:"required"`
		JobRole     string `json:"jobRole" binding:"required"`
		Difficulty  string `json:"difficulty" binding:"required,oneof=beginner intermediate pro"`
		ResumeScore int    `json:"resumeScore" binding:"omitempty,min=0,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := domain.StartInterview(c.Request.Context(), h.Cognition,
		userID(c), req.ResumeText, req.JobRole, req.Difficulty, h.QuestionCount, req.ResumeScore)
	if err != nil {
		fail(c, err)
		return
	}
	h.Sessions.Put(session)

	log.WithFields(log.Fields{
		"user_id":    session.UserID,
		"session_id": session.ID,
		"questions":  len(session.Questions),
	}).Info("interview started")

	c.JSON(http.StatusOK, gin.H{
		"sessionId":    session.ID,
		"jobRole":      session.JobRole,
		"difficulty":   session.Difficulty,
		"questions":    session.Questions,
		"currentIndex": session.CurrentIndex,
	})
}

func (h *HTTPHandler) sessionSnapshot(c *gin.Context, op func(*domain.InterviewSession) error) {
	var snapshot gin.H
	err := h.Sessions.With(c.Param("id"), userID(c), func(s *domain.InterviewSession) error {
		if err := op(s); err != nil {
			return err
		}
		snapshot = gin.H{
			"currentIndex": s.CurrentIndex,
			"skippedCount": s.SkippedCount,
			"state":        s.State,
		}
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// SetAnswer overwrites one answer slot.
func (h *HTTPHandler) SetAnswer(c *gin.Context) {
	var req struct {
		Index  int    `json:"index" binding:"min=0"`
		Answer string `json:"answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.sessionSnapshot(c, func(s *domain.InterviewSession) error {
		return s.SetAnswer(req.Index, req.Answer)
	})
}

func (h *HTTPHandler) Next(c *gin.Context) {
	h.sessionSnapshot(c, (*domain.InterviewSession).Advance)
}

func (h *HTTPHandler) Previous(c *gin.Context) {
	h.sessionSnapshot(c, (*domain.InterviewSession).Retreat)
}

func (h *HTTPHandler) Skip(c *gin.Context) {
	h.sessionSnapshot(c, (*domain.InterviewSession).Skip)
}

// Evaluate grades the whole session and persists the score record.
func (h *HTTPHandler) Evaluate(c *gin.Context) {
	var result *domain.EvaluationResult
	err := h.Sessions.With(c.Param("id"), userID(c), func(s *domain.InterviewSession) error {
		var gerr error
		result, gerr = domain.GradeSession(c.Request.Context(), h.Cognition, h.Store, s)
		return gerr
	})
	if err != nil {
		fail(c, err)
		return
	}

	log.WithFields(log.Fields{
		"user_id":    userID(c),
		"session_id": c.Param("id"),
		"correct":    result.CorrectCount,
		"wrong":      result.WrongCount,
		"skipped":    result.SkippedCount,
	}).Info("interview graded")

	c.JSON(http.StatusOK, gin.H{
		"evaluation":   result.Verdicts,
		"correctCount": result.CorrectCount,
		"wrongCount":   result.WrongCount,
		"skippedCount": result.SkippedCount,
	})
}

// Dashboard lists the user's completed results, newest first (the store order
// is stable; the frontend renders it as-is).
func (h *HTTPHandler) Dashboard(c *gin.Context) {
	records, err := h.Store.ListScoresByUser(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if records == nil {
		records = []domain.ScoreRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}
