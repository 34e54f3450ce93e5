package implementation

import (
	"testing"

	"audit-copilot-be/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=audit dbname=audit"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestKeywordSearchOrdersByRank(t *testing.T) {
	db := dryRunDB(t)

	var models []*model.DocumentChunk
	stmt := keywordSearchQuery(db, "terminated user access", 5).Find(&models).Statement

	sql := stmt.SQL.String()
	require.Contains(t, sql, "ts_rank", "rank expression missing from statement")
	require.Contains(t, sql, "ORDER BY rank DESC", "full-text results must be ranked")

	// The search term binds twice: once for the rank column and once for
	// the match predicate.
	bound := 0
	for _, v := range stmt.Vars {
		if v == "terminated user access" {
			bound++
		}
	}
	require.Equal(t, 2, bound, "search term should bind in rank and predicate")
}
