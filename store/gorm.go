package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xy-planning-network/gatekeeper"
	"github.com/xy-planning-network/gatekeeper/postgres"
	"gorm.io/gorm"
)

// A Snapshot is the database record of one session's State.
type Snapshot struct {
	SessionID string `gorm:"primaryKey"`
	State     []byte
	UpdatedAt time.Time
}

func (Snapshot) TableName() string { return "state_snapshots" }

// Migrations lists what a database needs before a GormCacher can use it.
func Migrations() []postgres.Migration {
	return []postgres.Migration{
		{
			Key:      "20240601_create_state_snapshots",
			Executor: func(tx *gorm.DB) error { return tx.AutoMigrate(new(Snapshot)) },
		},
	}
}

// A GormCacher keeps State as JSON in a relational database.
type GormCacher struct {
	db *postgres.DB
}

// NewGormCacher constructs a GormCacher.
// The database must have had Migrations run against it.
func NewGormCacher(db *postgres.DB) *GormCacher { return &GormCacher{db: db} }

// Load retrieves the Snapshot for sid and decodes its State.
func (c *GormCacher) Load(ctx context.Context, sid string) (State, error) {
	snap := new(Snapshot)
	if err := c.db.WithContext(ctx).Where("session_id = ?", sid).First(snap); err != nil {
		return State{}, err
	}

	var st State
	if err := json.Unmarshal(snap.State, &st); err != nil {
		return State{}, fmt.Errorf("%w: decoding state: %s", gatekeeper.ErrUnexpected, err)
	}

	return st, nil
}

// Save writes st as the Snapshot for sid.
func (c *GormCacher) Save(ctx context.Context, sid string, st State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("%w: encoding state: %s", gatekeeper.ErrNotValid, err)
	}

	return c.db.WithContext(ctx).Upsert(&Snapshot{SessionID: sid, State: b})
}

// Delete removes the Snapshot for sid.
func (c *GormCacher) Delete(ctx context.Context, sid string) error {
	return c.db.WithContext(ctx).Delete(&Snapshot{SessionID: sid})
}
