package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/fiscalia/fiscalia-api/internal/domain/analysis"
	"github.com/fiscalia/fiscalia-api/internal/domain/identity"
)

type fakeRepo struct {
	saved []*domain.Record
	rows  []*domain.Record
	err   error
}

func (f *fakeRepo) Save(_ context.Context, rec *domain.Record) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeRepo) ListByUser(context.Context, string) ([]*domain.Record, error) {
	return f.rows, f.err
}

type fakeCompleter struct {
	enabled    bool
	completion string
	answer     string
	err        error
}

func (f *fakeCompleter) Enabled() bool { return f.enabled }

func (f *fakeCompleter) Analyze(context.Context, string, string) (string, error) {
	return f.completion, f.err
}

func (f *fakeCompleter) Answer(context.Context, string, string) (string, error) {
	return f.answer, f.err
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testUser = &identity.User{ID: "owner-1", Email: "dev@example.com"}

func newTestService(repo *fakeRepo, ai *fakeCompleter) *Service {
	return NewService(repo, ai, nil, fixedClock{t: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)}, nil)
}

func TestUpload_textOnlyWithCompletion(t *testing.T) {
	repo := &fakeRepo{}
	ai := &fakeCompleter{
		enabled: true,
		completion: `{"operationType":"servico","category":"consultoria","title":"Consultoria Mensal",` +
			`"amount":5000,"taxes":{"melhorRegime":"Simples Nacional"},"insights":["ok"],"monthlySummary":"resumo"}`,
	}
	svc := newTestService(repo, ai)

	rec, err := svc.Upload(context.Background(), testUser, UploadCommand{Text: "Serviço prestado por R$ 5000"})
	require.NoError(t, err)
	require.Len(t, repo.saved, 1)

	assert.Equal(t, "owner-1", rec.UserID)
	assert.Equal(t, "Consultoria Mensal", rec.Title)
	assert.Equal(t, 5000.0, rec.Amount)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, svc.Clock.Now(), rec.CreatedAt)
}

func TestUpload_providerFailureUsesFallback(t *testing.T) {
	repo := &fakeRepo{}
	ai := &fakeCompleter{enabled: true, err: domain.ErrProvider}
	svc := newTestService(repo, ai)

	rec, err := svc.Upload(context.Background(), testUser, UploadCommand{Text: "Recebi R$ 1500 pelo serviço"})
	require.NoError(t, err, "provider failure must not surface")
	assert.Equal(t, 1500.0, rec.Amount)
	assert.Contains(t, rec.Title, "Orientação Fiscal")
}

func TestUpload_disabledProviderNeverCalled(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeCompleter{enabled: false})

	rec, err := svc.Upload(context.Background(), testUser, UploadCommand{Text: "3 mil de adiantamento"})
	require.NoError(t, err)
	assert.Equal(t, 3000.0, rec.Amount)
}

func TestUpload_noDataIsValidationError(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeCompleter{})

	_, err := svc.Upload(context.Background(), testUser, UploadCommand{Text: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpload_unsupportedFileSurfaces(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeCompleter{})

	_, err := svc.Upload(context.Background(), testUser, UploadCommand{
		FileName: "dados.txt",
		FileData: []byte("x"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestUpload_truncatesStoredExcerpt(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeCompleter{})

	long := strings.Repeat("a", 5000)
	rec, err := svc.Upload(context.Background(), testUser, UploadCommand{Text: long})
	require.NoError(t, err)
	assert.Len(t, rec.OriginalData, SnippetLimit)
}

func TestUpload_persistenceFailure(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection refused")}
	svc := newTestService(repo, &fakeCompleter{})

	_, err := svc.Upload(context.Background(), testUser, UploadCommand{Text: "R$ 100"})
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestHistory_emptyIsNotAnError(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeCompleter{})

	list, err := svc.History(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestAsk_requiresQuestion(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeCompleter{})

	_, err := svc.Ask(context.Background(), testUser, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAsk_requiresHistory(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeCompleter{})

	_, err := svc.Ask(context.Background(), testUser, "Quanto paguei de impostos?")
	assert.ErrorIs(t, err, domain.ErrNoHistory)
}

func TestAsk_withHistory(t *testing.T) {
	repo := &fakeRepo{rows: []*domain.Record{
		{Title: "Consultoria", Amount: 5000, CreatedAt: time.Now()},
		{Title: "Venda", Amount: 900, CreatedAt: time.Now()},
	}}
	ai := &fakeCompleter{enabled: true, answer: "Sua carga tributária foi de 6%."}
	svc := newTestService(repo, ai)

	res, err := svc.Ask(context.Background(), testUser, "Qual minha carga tributária?")
	require.NoError(t, err)
	assert.Equal(t, "Sua carga tributária foi de 6%.", res.Answer)
	assert.Equal(t, 2, res.HistoryCount)
}

func TestAsk_degradedAnswerOnProviderFailure(t *testing.T) {
	repo := &fakeRepo{rows: []*domain.Record{{Title: "x", CreatedAt: time.Now()}}}
	ai := &fakeCompleter{enabled: true, err: domain.ErrProvider}
	svc := newTestService(repo, ai)

	res, err := svc.Ask(context.Background(), testUser, "pergunta")
	require.NoError(t, err)
	assert.Contains(t, res.Answer, "GROQ_API_KEY")
}
