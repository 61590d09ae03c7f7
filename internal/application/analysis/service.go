// Package analysis implements the upload → decode → prompt → completion →
// normalize → persist pipeline and the history-aware Q&A use case.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fiscalia/fiscalia-api/internal/application"
	domain "github.com/fiscalia/fiscalia-api/internal/domain/analysis"
	"github.com/fiscalia/fiscalia-api/internal/domain/identity"
	"github.com/fiscalia/fiscalia-api/internal/infra/decode"
)

// SnippetLimit caps the stored prefix of the canonical text. The full
// payload is never persisted in the analysis row.
const SnippetLimit = 1000

// historyWindow bounds how many prior analyses feed the Q&A prompt.
const historyWindow = 10

// Service implements the analysis use-cases. Safe for concurrent use; all
// collaborators are read-only after construction.
type Service struct {
	Repo      domain.Repository
	AI        domain.Completer
	Artifacts domain.ArtifactStore // optional
	Clock     application.Clock
	Logger    *zap.Logger
}

func NewService(repo domain.Repository, ai domain.Completer, artifacts domain.ArtifactStore, clock application.Clock, logger *zap.Logger) *Service {
	if clock == nil {
		clock = application.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Repo: repo, AI: ai, Artifacts: artifacts, Clock: clock, Logger: logger}
}

// UploadCommand carries one upload/analysis request. FileData is empty when
// the caller pasted raw text only.
type UploadCommand struct {
	FileName string
	FileData []byte
	Text     string
}

// Upload runs the full pipeline and returns the record as stored.
func (s *Service) Upload(ctx context.Context, user *identity.User, cmd UploadCommand) (*domain.Record, error) {
	text := cmd.Text
	if len(cmd.FileData) > 0 {
		decoded, err := decode.Decode(cmd.FileData, cmd.FileName)
		if err != nil {
			return nil, err
		}
		text = decoded
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no data provided for analysis", domain.ErrValidation)
	}

	var raw string
	if s.AI.Enabled() {
		completion, err := s.AI.Analyze(ctx, text, cmd.FileName)
		if err != nil {
			// Provider failures never dead-end the request; the normalizer
			// builds the fallback record from the source text.
			s.Logger.Warn("completion failed, using fallback analysis", zap.Error(err))
		} else {
			raw = completion
		}
	}
	result := Normalize(raw, text, cmd.FileName)

	artifactURL := ""
	if s.Artifacts != nil && len(cmd.FileData) > 0 {
		key := fmt.Sprintf("uploads/%s/%s-%s", user.ID, uuid.New().String(), filepath.Base(cmd.FileName))
		url, err := s.Artifacts.Upload(ctx, key, cmd.FileData, contentTypeFor(cmd.FileName))
		if err != nil {
			s.Logger.Warn("artifact archive failed", zap.Error(err), zap.String("key", key))
		} else {
			artifactURL = url
		}
	}

	rec, err := s.buildRecord(user.ID, result, text, artifactURL)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return rec, nil
}

// History returns the caller's analyses newest first. An owner with no rows
// gets an empty slice, not an error.
func (s *Service) History(ctx context.Context, userID string) ([]*domain.Record, error) {
	list, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if list == nil {
		list = []*domain.Record{}
	}
	return list, nil
}

// AskResult is the Q&A response shape.
type AskResult struct {
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	HistoryCount int    `json:"historyCount"`
}

// Ask answers a free-form question against the caller's accumulated
// analyses. Requires at least one prior analysis on file.
func (s *Service) Ask(ctx context.Context, user *identity.User, question string) (*AskResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrValidation)
	}

	history, err := s.Repo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if len(history) == 0 {
		return nil, domain.ErrNoHistory
	}

	answer := degradedAnswer()
	if s.AI.Enabled() {
		resp, err := s.AI.Answer(ctx, question, historyJSON(history))
		if err != nil {
			s.Logger.Warn("question completion failed, using degraded answer", zap.Error(err))
		} else {
			answer = resp
		}
	}

	return &AskResult{Question: question, Answer: answer, HistoryCount: len(history)}, nil
}

func (s *Service) buildRecord(userID string, res *domain.Result, text, artifactURL string) (*domain.Record, error) {
	taxes, err := json.Marshal(res.Taxes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	var insights json.RawMessage
	if len(res.Insights) > 0 {
		insights, err = json.Marshal(res.Insights)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
	}
	return &domain.Record{
		ID:             domain.RecordID(uuid.New().String()),
		UserID:         userID,
		Title:          res.Title,
		Category:       res.Category,
		Amount:         res.Amount,
		Taxes:          taxes,
		Insights:       insights,
		MonthlySummary: res.MonthlySummary,
		OriginalData:   truncate(text, SnippetLimit),
		OperationType:  res.OperationType,
		Advisory:       res.Advisory(),
		ArtifactURL:    artifactURL,
		CreatedAt:      s.Clock.Now(),
	}, nil
}

// historyJSON serializes the most recent analyses in the compact shape the
// advisory prompt expects.
func historyJSON(records []*domain.Record) string {
	type entry struct {
		Title     string          `json:"title"`
		Category  string          `json:"category"`
		Amount    float64         `json:"amount"`
		Taxes     json.RawMessage `json:"taxes,omitempty"`
		Insights  json.RawMessage `json:"insights,omitempty"`
		CreatedAt string          `json:"created_at"`
	}
	n := len(records)
	if n > historyWindow {
		n = historyWindow
	}
	entries := make([]entry, 0, n)
	for _, r := range records[:n] {
		entries = append(entries, entry{
			Title:     r.Title,
			Category:  r.Category,
			Amount:    r.Amount,
			Taxes:     r.Taxes,
			Insights:  r.Insights,
			CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(b)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return "text/csv"
	case ".xlsx", ".xls":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
