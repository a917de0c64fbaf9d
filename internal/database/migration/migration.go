package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"grindccat/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is the last table the steps create.
const sentinelTable = "public.attempts"

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_questions",
		SQL: `CREATE TABLE IF NOT EXISTS questions (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  category       TEXT        NOT NULL,
  text           TEXT        NOT NULL UNIQUE,
  options        JSONB       NOT NULL CHECK (jsonb_typeof(options) = 'array'),
  correct_answer INT         NOT NULL CHECK (correct_answer >= 0),
  explanation    TEXT        NOT NULL DEFAULT '',
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_questions_category",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_questions_category ON questions (category);`,
	},
	{
		Name: "create_table_test_attempts",
		SQL: `CREATE TABLE IF NOT EXISTS test_attempts (
  id                UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  username          TEXT        NOT NULL,
  score             INT         NOT NULL DEFAULT 0 CHECK (score >= 0),
  time_taken        INT         NOT NULL DEFAULT 0 CHECK (time_taken >= 0),
  question_attempts JSONB       NOT NULL DEFAULT '[]'::jsonb,
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_test_attempts_leaderboard",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_test_attempts_leaderboard ON test_attempts (username, score DESC, time_taken ASC, created_at ASC);`,
	},
	{
		Name: "create_table_attempts",
		SQL: `CREATE TABLE IF NOT EXISTS attempts (
  id              UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  test_attempt_id UUID        NOT NULL REFERENCES test_attempts (id) ON DELETE CASCADE,
  username        TEXT        NOT NULL,
  question_id     TEXT        NOT NULL,
  question_text   TEXT        NOT NULL DEFAULT '',
  options         JSONB       NOT NULL DEFAULT '[]'::jsonb,
  user_answer     INT         NOT NULL,
  correct_answer  INT         NOT NULL,
  time_spent      INT         NOT NULL DEFAULT 0,
  is_correct      BOOLEAN     NOT NULL DEFAULT false,
  category        TEXT        NOT NULL DEFAULT '',
  explanation     TEXT        NOT NULL DEFAULT '',
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_attempts_username_question",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_attempts_username_question ON attempts (username, question_id);`,
	},
	{
		Name: "create_index_attempts_test_attempt_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_attempts_test_attempt_id ON attempts (test_attempt_id);`,
	},
}

// EnsureMigrated checks for the sentinel table and runs every step if it is missing.
// Steps are idempotent, so a partially applied schema is completed on the next start.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *logging.Logger, dbHost string) error {
	log = log.With("database")
	start := time.Now()

	log.Log(map[string]any{
		"event":   "db_migration_check",
		"status":  "starting",
		"db_host": dbHost,
	})

	var exists bool
	query := fmt.Sprintf("SELECT to_regclass('%s') IS NOT NULL", sentinelTable)
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Log(map[string]any{
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Log(map[string]any{
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	log.Log(map[string]any{
		"event":   "db_migration_start",
		"status":  "in_progress",
		"db_host": dbHost,
		"steps":   len(steps),
	})

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Log(map[string]any{
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Log(map[string]any{
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	log.Log(map[string]any{
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}
