package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"resume-coach/domain"
)

// Models tried in order until one answers.
var availableModels = []string{
	"gemini-2.0-flash-001",
	"gemini-2.0-flash",
	"gemini-2.5-flash",
	"gemini-flash-latest",
}

const defaultCognitionTimeout = 30 * time.Second

// GeminiClient implements domain.Cognition against the Gemini
// generativelanguage REST API. Every call is bounded by the configured
// timeout; transport errors, timeouts and responses that do not match the
// requested schema all surface as ErrCognitionUnavailable.
type GeminiClient struct {
	apiKey  string
	timeout time.Duration
	http    *http.Client
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient() *GeminiClient {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		panic("GEMINI_API_KEY environment variable not set")
	}

	timeout := defaultCognitionTimeout
	if v := os.Getenv("COGNITION_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}

	return &GeminiClient{
		apiKey:  apiKey,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
	}
}

type critiqueCategory struct {
	Score       *int   `json:"score"`
	Issues      string `json:"issues"`
	Suggestions string `json:"suggestions"`
}

type critiqueResponse struct {
	Content  *critiqueCategory `json:"content"`
	Format   *critiqueCategory `json:"format"`
	Sections *critiqueCategory `json:"sections"`
	Skills   *critiqueCategory `json:"skills"`
	Style    *critiqueCategory `json:"style"`
}

// Critique scores resume text into the five-category report.
func (g *GeminiClient) Critique(ctx context.Context, resumeText string) (*domain.ResumeReport, error) {
	prompt := fmt.Sprintf(`You are a resume reviewer. Analyze the following resume and score it in exactly five categories: Content, Format, Sections, Skills, Style. Each category gets an integer score from 0 to 20, a short "issues" text and a short "suggestions" text.

Resume:
%s

Return strict JSON with structure:
{
  "content": {"score": int, "issues": string, "suggestions": string},
  "format": {"score": int, "issues": string, "suggestions": string},
  "sections": {"score": int, "issues": string, "suggestions": string},
  "skills": {"score": int, "issues": string, "suggestions": string},
  "style": {"score": int, "issues": string, "suggestions": string}
}

IMPORTANT: Return ONLY the raw JSON without any markdown formatting, code blocks, or additional text.`, resumeText)

	var resp critiqueResponse
	if err := g.generateJSON(ctx, prompt, &resp); err != nil {
		return nil, err
	}

	raw := map[string]domain.CategoryScore{}
	for name, cat := range map[string]*critiqueCategory{
		domain.CategoryContent:  resp.Content,
		domain.CategoryFormat:   resp.Format,
		domain.CategorySections: resp.Sections,
		domain.CategorySkills:   resp.Skills,
		domain.CategoryStyle:    resp.Style,
	} {
		if cat == nil || cat.Score == nil {
			return nil, fmt.Errorf("%w: critique response missing category %q", domain.ErrCognitionUnavailable, name)
		}
		raw[name] = domain.CategoryScore{
			Score:       *cat.Score,
			Issues:      cat.Issues,
			Suggestions: cat.Suggestions,
		}
	}

	return domain.NewResumeReport(raw), nil
}

type interviewResponse struct {
	Questions       []string `json:"questions"`
	ExpectedAnswers []string `json:"expectedAnswers"`
}

// GenerateInterview produces n question/expected-answer pairs. Count and
// length checking is left to the session state machine, which owns the
// GenerationFailed policy.
func (g *GeminiClient) GenerateInterview(ctx context.Context, resumeText, jobRole, difficulty string, n int) ([]string, []string, error) {
	prompt := fmt.Sprintf(`You are a technical interviewer. Based on the resume below, generate exactly %d %s-level interview questions for the role of %s, each with a concise expected answer.

Resume:
%s

Return strict JSON with structure:
{
  "questions": [string],
  "expectedAnswers": [string]
}

IMPORTANT: questions and expectedAnswers must have the same length. Return ONLY the raw JSON without any markdown formatting, code blocks, or additional text.`, n, difficulty, jobRole, resumeText)

	var resp interviewResponse
	if err := g.generateJSON(ctx, prompt, &resp); err != nil {
		return nil, nil, err
	}
	return resp.Questions, resp.ExpectedAnswers, nil
}

type verdictResponse struct {
	IsCorrect *bool  `json:"isCorrect"`
	Rationale string `json:"rationale"`
}

// GradeAnswer judges one given answer against the expected one.
func (g *GeminiClient) GradeAnswer(ctx context.Context, question, expected, given string) (*domain.Verdict, error) {
	prompt := fmt.Sprintf(`You are grading a mock interview answer.

Question:
%s

Expected answer:
%s

Candidate answer:
%s

Judge whether the candidate answer is substantially correct compared to the expected answer. An empty candidate answer is always incorrect.

Return strict JSON with structure:
{
  "isCorrect": bool,
  "rationale": string
}

IMPORTANT: Return ONLY the raw JSON without any markdown formatting, code blocks, or additional text.`, question, expected, given)

	var resp verdictResponse
	if err := g.generateJSON(ctx, prompt, &resp); err != nil {
		return nil, err
	}
	if resp.IsCorrect == nil {
		return nil, fmt.Errorf("%w: verdict missing isCorrect", domain.ErrCognitionUnavailable)
	}
	return &domain.Verdict{IsCorrect: *resp.IsCorrect, Rationale: resp.Rationale}, nil
}

type suggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// SuggestRoles returns job roles matching the resume text.
func (g *GeminiClient) SuggestRoles(ctx context.Context, resumeText string) ([]string, error) {
	prompt := fmt.Sprintf(`Based on the resume below, suggest up to 5 job roles the candidate is a good fit for.

Resume:
%s

Return strict JSON with structure:
{
  "suggestions": [string]
}

IMPORTANT: Return ONLY the raw JSON without any markdown formatting, code blocks, or additional text.`, resumeText)

	var resp suggestionsResponse
	if err := g.generateJSON(ctx, prompt, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

// generateJSON runs the prompt through the model fallback list and decodes the
// cleaned response body into out.
func (g *GeminiClient) generateJSON(ctx context.Context, prompt string, out interface{}) error {
	var lastError error
	for _, model := range availableModels {
		text, err := g.callGeminiWithModel(ctx, prompt, model)
		if err != nil {
			lastError = err
			log.WithField("model", model).WithError(err).Debug("model failed, trying next")
			continue
		}

		cleaned := cleanJSONResponse(text)
		if err := json.Unmarshal([]byte(cleaned), out); err != nil {
			lastError = fmt.Errorf("failed to parse JSON: %w", err)
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: all models failed: %v", domain.ErrCognitionUnavailable, lastError)
}

func (g *GeminiClient) callGeminiWithModel(ctx context.Context, prompt string, model string) (string, error) {
	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{
						"text": prompt,
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.1,
			"topP":        0.8,
			"topK":        40,
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		model, g.apiKey)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var apiResponse map[string]interface{}
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return "", fmt.Errorf("failed to parse API response: %w", err)
	}

	return extractTextFromResponse(apiResponse)
}

func extractTextFromResponse(apiResponse map[string]interface{}) (string, error) {
	candidates, ok := apiResponse["candidates"].([]interface{})
	if !ok || len(candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	firstCandidate, ok := candidates[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid candidate format")
	}
	content, ok := firstCandidate["content"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid content format")
	}

	parts, ok := content["parts"].([]interface{})
	if !ok || len(parts) == 0 {
		return "", fmt.Errorf("no parts in content")
	}

	firstPart, ok := parts[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid part format")
	}
	text, ok := firstPart["text"].(string)
	if !ok {
		return "", fmt.Errorf("no text in part")
	}

	return text, nil
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
	}

	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")

	if start != -1 && end != -1 && end > start {
		content = content[start : end+1]
	}

	return strings.TrimSpace(content)
}
