package repository

import (
	"strings"
	"testing"

	"go-warehouse-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// dryRunDB opens a gorm handle that only builds SQL, never executes it.
func dryRunDB(t *testing.T, dialector gorm.Dialector) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(dialector, &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open dry-run db: %v", err)
	}
	return db
}

func lockedProductQuery(db *gorm.DB) string {
	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var product model.Product
		return forUpdate(tx).Where("id = ?", uuid.Nil).Find(&product)
	})
}

func TestForUpdateEmitsRowLockOnPostgres(t *testing.T) {
	db := dryRunDB(t, postgres.New(postgres.Config{
		DSN:                  "host=localhost user=app dbname=app",
		PreferSimpleProtocol: true,
	}))

	sql := lockedProductQuery(db)
	if !strings.HasSuffix(strings.TrimSpace(sql), "FOR UPDATE") {
		t.Errorf("locked query = %q, want a FOR UPDATE suffix", sql)
	}
}

func TestForUpdateSkippedOnSqlite(t *testing.T) {
	db := dryRunDB(t, sqlite.Open(":memory:"))

	sql := lockedProductQuery(db)
	if strings.Contains(sql, "FOR UPDATE") {
		t.Errorf("sqlite query = %q, must not carry FOR UPDATE (unsupported syntax)", sql)
	}
}
