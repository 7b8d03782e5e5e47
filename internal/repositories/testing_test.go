package repositories

import (
	"path/filepath"
	"testing"

	"ofo/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ledger.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, phone string, cash, point int64) *models.User {
	t.Helper()
	u := &models.User{FullName: "User " + phone, PhoneNumber: phone, Cash: cash, Point: point, IsVerified: true}
	require.NoError(t, db.Create(u).Error)
	return u
}
