package questionbank

import (
	"context"
	"fmt"

	"grindccat/internal/logging"
	"grindccat/internal/repository"
)

// Stats counts the outcome of an Import.
type Stats struct {
	Inserted int
	Updated  int
}

// Import upserts every question of b. It stops at the first repository error;
// questions written before it stay written.
func Import(ctx context.Context, repo repository.QuestionRepository, b *Bank, log *logging.Logger) (Stats, error) {
	var st Stats
	for i, e := range b.Questions {
		q := e.Question()
		inserted, err := repo.Upsert(ctx, &q)
		if err != nil {
			return st, fmt.Errorf("import question %d: %w", i+1, err)
		}
		if inserted {
			st.Inserted++
		} else {
			st.Updated++
		}
	}
	log.Info("question_bank_imported", map[string]any{
		"inserted": st.Inserted,
		"updated":  st.Updated,
	})
	return st, nil
}
