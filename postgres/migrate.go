package postgres

import (
	"fmt"
	"time"

	"github.com/xy-planning-network/gatekeeper"
	"gorm.io/gorm"
)

// Migration is used to hold the database key and function for creating the migration.
type Migration struct {
	Executor func(*gorm.DB) error
	Key      string
}

func (m Migration) execute(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := m.Executor(tx); err != nil {
			return err
		}

		return tx.Create(&migrationRecord{Key: m.Key, RanAt: time.Now().Unix()}).Error
	})
}

// migrationRecord notes a Migration has run.
type migrationRecord struct {
	ID    uint   `gorm:"primaryKey"`
	Key   string `gorm:"uniqueIndex"`
	RanAt int64
}

func (migrationRecord) TableName() string { return "migrations" }

// MigrateUp runs, in order, each Migration whose Key has not been recorded as run.
//
// A failing Migration is rolled back and stops MigrateUp;
// Migrations after it do not run.
func MigrateUp(db *gorm.DB, migrations []Migration) error {
	if err := db.AutoMigrate(new(migrationRecord)); err != nil {
		return fmt.Errorf("%w: creating migrations table: %s", gatekeeper.ErrUnexpected, err)
	}

	var ran []string
	if err := db.Model(new(migrationRecord)).Pluck("key", &ran).Error; err != nil {
		return fmt.Errorf("%w: fetching ran migrations: %s", gatekeeper.ErrUnexpected, err)
	}

	done := make(map[string]bool, len(ran))
	for _, k := range ran {
		done[k] = true
	}

	for _, m := range migrations {
		if done[m.Key] {
			continue
		}

		if m.Executor == nil {
			return fmt.Errorf("%w: migration %q has no executor", gatekeeper.ErrNotValid, m.Key)
		}

		if err := m.execute(db); err != nil {
			return fmt.Errorf("%w: migration %q: %s", gatekeeper.ErrUnexpected, m.Key, err)
		}

		done[m.Key] = true
	}

	return nil
}
