// Package dbtest opens throwaway in-memory databases carrying the records table.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"go_rdns/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns an in-memory SQLite database private to t with the records table
// created. The pool is limited to one connection so every statement sees the
// same in-memory database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Record{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// FailCreates makes every insert of a record named name fail with err
func FailCreates(t *testing.T, db *gorm.DB, name string, err error) {
	t.Helper()

	cbName := "dbtest:fail_create:" + name
	regErr := db.Callback().Create().Before("gorm:create").Register(cbName, func(tx *gorm.DB) {
		if rec, ok := tx.Statement.Dest.(*model.Record); ok && rec.Name == name {
			_ = tx.AddError(err)
		}
	})
	if regErr != nil {
		t.Fatalf("register callback: %v", regErr)
	}
}

// Records returns every row of the records table ordered by id
func Records(t *testing.T, db *gorm.DB) []model.Record {
	t.Helper()

	var rows []model.Record
	if err := db.Order("id").Find(&rows).Error; err != nil {
		t.Fatalf("list records: %v", err)
	}
	return rows
}
