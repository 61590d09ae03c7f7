package analysis

import "context"

// Repository port for persisting and querying analyses
type Repository interface {
	Save(ctx context.Context, rec *Record) error
	ListByUser(ctx context.Context, userID string) ([]*Record, error)
}

// Completer is the completion-provider port. Implementations send a prompt
// to the LLM and return the raw completion text; they never parse it.
type Completer interface {
	// Enabled reports whether the provider is configured. Callers must not
	// invoke Analyze/Answer on a disabled client expecting network traffic;
	// both fail immediately with ErrProvider.
	Enabled() bool
	Analyze(ctx context.Context, text, filename string) (string, error)
	Answer(ctx context.Context, question, historyJSON string) (string, error)
}

// ArtifactStore archives the raw uploaded file bytes for audit purposes.
type ArtifactStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
