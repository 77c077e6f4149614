package database

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"pulse/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestStatementLabels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		sql       string
		operation string
		table     string
	}{
		{
			name:      "select with count subqueries",
			sql:       `SELECT posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) as comments_count FROM "posts" WHERE id = 1`,
			operation: "SELECT",
			table:     "posts",
		},
		{
			name:      "plain select",
			sql:       `SELECT * FROM "users" WHERE "users"."id" = 42`,
			operation: "SELECT",
			table:     "users",
		},
		{
			name:      "insert",
			sql:       `INSERT INTO "likes" ("user_id","post_id") VALUES (1,2)`,
			operation: "INSERT",
			table:     "likes",
		},
		{
			name:      "update",
			sql:       `UPDATE "notifications" SET "read"=true WHERE id = 5`,
			operation: "UPDATE",
			table:     "notifications",
		},
		{
			name:      "delete",
			sql:       `DELETE FROM "follows" WHERE follower_id = 1`,
			operation: "DELETE",
			table:     "follows",
		},
		{
			name:      "unrecognized statement",
			sql:       `BEGIN`,
			operation: "other",
			table:     "unknown",
		},
		{
			name:      "empty statement",
			sql:       "",
			operation: "other",
			table:     "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			operation, table := statementLabels(tt.sql)
			assert.Equal(t, tt.operation, operation)
			assert.Equal(t, tt.table, table)
		})
	}
}

func TestTrace_RecordsQueryLatency(t *testing.T) {
	gormLogger := &CustomGormLogger{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: logger.Config{LogLevel: logger.Silent},
	}

	before := testutil.CollectAndCount(observability.DatabaseQueryLatency)

	// Even a silenced logger must still feed the histogram.
	gormLogger.Trace(context.Background(), time.Now(), func() (string, int64) {
		return `SELECT * FROM "trace_sample_rows"`, 1
	}, nil)

	after := testutil.CollectAndCount(observability.DatabaseQueryLatency)
	assert.Greater(t, after, before)
}
