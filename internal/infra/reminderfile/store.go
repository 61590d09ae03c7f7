// Package reminderfile persists the reminder collection as one JSON file,
// rewritten whole on every mutation.
package reminderfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	domain "github.com/fiscalia/fiscalia-api/internal/domain/reminders"
)

// Store reads and writes the backing file. Serialization of read-modify-
// write cycles is the caller's job (the reminders service holds the lock).
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load returns the full collection. A missing file is seeded with the
// default Brazilian filing deadlines and those are returned.
func (s *Store) Load(ctx context.Context) ([]domain.Reminder, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		defaults := DefaultReminders()
		if err := s.Replace(ctx, defaults); err != nil {
			return nil, err
		}
		return defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read reminders: %w", err)
	}

	var all []domain.Reminder
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parse reminders: %w", err)
	}
	return all, nil
}

// Replace overwrites the backing file with the full collection.
func (s *Store) Replace(_ context.Context, all []domain.Reminder) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create reminders dir: %w", err)
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encode reminders: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write reminders: %w", err)
	}
	return nil
}

// DefaultReminders is the seed collection for a fresh store.
func DefaultReminders() []domain.Reminder {
	return []domain.Reminder{
		{
			ID:          1,
			Title:       "Declaração do Imposto de Renda",
			Description: "Prazo para entrega da Declaração Anual do Imposto de Renda",
			DueDate:     "2024-04-30",
			Type:        domain.TypeFederal,
			Priority:    domain.PriorityHigh,
			Recurring:   true,
		},
		{
			ID:          2,
			Title:       "Pagamento do Simples Nacional",
			Description: "Vencimento mensal do Simples Nacional",
			DueDate:     "2024-04-20",
			Type:        domain.TypeFederal,
			Priority:    domain.PriorityHigh,
			Recurring:   true,
		},
		{
			ID:          3,
			Title:       "Declaração DASN-SIMEI",
			Description: "Declaração anual para MEI",
			DueDate:     "2024-08-31",
			Type:        domain.TypeFederal,
			Priority:    domain.PriorityMedium,
			Recurring:   true,
		},
		{
			ID:          4,
			Title:       "Pagamento de ICMS",
			Description: "Imposto sobre Circulação de Mercadorias e Serviços",
			DueDate:     "2024-04-25",
			Type:        domain.TypeState,
			Priority:    domain.PriorityHigh,
			Recurring:   true,
		},
		{
			ID:          5,
			Title:       "Pagamento de ISS",
			Description: "Imposto Sobre Serviços",
			DueDate:     "2024-04-10",
			Type:        domain.TypeMunicipal,
			Priority:    domain.PriorityHigh,
			Recurring:   true,
		},
		{
			ID:          6,
			Title:       "Entrega da ECD",
			Description: "Escrituração Contábil Digital",
			DueDate:     "2024-07-31",
			Type:        domain.TypeFederal,
			Priority:    domain.PriorityMedium,
			Recurring:   true,
		},
		{
			ID:          7,
			Title:       "Entrega da ECF",
			Description: "Escrituração Contábil Fiscal",
			DueDate:     "2024-07-31",
			Type:        domain.TypeFederal,
			Priority:    domain.PriorityMedium,
			Recurring:   true,
		},
		{
			ID:          8,
			Title:       "Pagamento do INSS",
			Description: "Contribuição previdenciária",
			DueDate:     "2024-04-15",
			Type:        domain.TypeFederal,
			Priority:    domain.PriorityHigh,
			Recurring:   true,
		},
		{
			ID:          9,
			Title:       "Declaração de Débitos e Créditos Tributários Federais (DCTF)",
			Description: "Declaração mensal de débitos e créditos fiscais",
			DueDate:     "2024-04-25",
			Type:        domain.TypeFederal,
			Priority:    domain.PriorityHigh,
			Recurring:   true,
		},
		{
			ID:          10,
			Title:       "Revisão Fiscal Anual",
			Description: "Revisão completa da situação fiscal do ano",
			DueDate:     "2024-12-31",
			Type:        domain.TypeGeneral,
			Priority:    domain.PriorityMedium,
			Recurring:   true,
		},
	}
}
