package postgres

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/xy-planning-network/gatekeeper"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

type DB struct {
	// *gorm.DB's methods are generally unsafe to use.
	// Specifically, some *gorm.DB methods are not thread-safe
	// and mutate the state of the *gorm.DB backing DB.
	//
	// If a *gorm.DB method calls *gorm.DB.getInstance,
	// this appears to render a method "safe" since it creates a new pointer.
	//
	// If a *gorm.DB method does not, be aware.
	// One solution is to use *gorm.DB.Session to force a clean pointer.
	db *gorm.DB
}

// NewDB constructs a *DB from a *gorm.DB.
func NewDB(db *gorm.DB) *DB { return &DB{db: db} }

// DB exposes the underlying *gorm.DB backing DB.
//
// NB: use in exceptional circumstances only.
func (db *DB) DB() *gorm.DB { return db.db }

// Close closes the connection pool backing DB.
func (db *DB) Close() error {
	sqlDB, err := db.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %s", gatekeeper.ErrUnexpected, err)
	}

	return sqlDB.Close()
}

// **************************************************************************
// FINISHER METHODS
//
// These methods close out a current query, executing it.
// All finisher methods are terminal and cannot be chained.
// They return any errors occuring within the query chain
// or when executing the query.
//
// **************************************************************************

// Delete removes the database record for value.
//
// If no record matches, gatekeeper.ErrNotExist returns.
func (db *DB) Delete(value any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	res := db.db.Delete(value)
	if errors.Is(res.Error, schema.ErrUnsupportedDataType) {
		return fmt.Errorf("%w: cannot parse table name from %T", gatekeeper.ErrMissingData, value)
	}

	if res.Error != nil {
		return fmt.Errorf("%w: failed deleting %T: %s", gatekeeper.ErrUnexpected, value, res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %T", gatekeeper.ErrNotExist, value)
	}

	return nil
}

// First retrieves a single record from the database matching the query
// and stores it in dest.
//
// If no matches are found, First returns gatekeeper.ErrNotExist.
func (db *DB) First(dest any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	err := db.db.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %T", gatekeeper.ErrNotExist, dest)
	}

	if err != nil && errSQLSyntax.MatchString(err.Error()) {
		return fmt.Errorf("%w: %s", gatekeeper.ErrNotValid, err)
	}

	if err != nil {
		return fmt.Errorf("%w: %s", gatekeeper.ErrUnexpected, err)
	}

	return nil
}

// Upsert inserts value into the database
// or, when a record with the same primary key exists, overwrites every column of that record.
//
// Value must be a non-nil pointer, otherwise gatekeeper.ErrNotValid returns.
func (db *DB) Upsert(value any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %T must be a non-nil pointer", gatekeeper.ErrNotValid, value)
		}
	}()

	if db.db.Error != nil {
		return db.db.Error
	}

	if v := reflect.ValueOf(value); v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("%w: %T must be a non-nil pointer", gatekeeper.ErrNotValid, value)
	}

	err = db.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(value).Error
	switch {
	case err == nil:
		return nil

	case errors.Is(err, schema.ErrUnsupportedDataType), errors.Is(err, gorm.ErrInvalidData):
		return fmt.Errorf("%w: %T does not implement gorm.TableNamer", gatekeeper.ErrMissingData, value)

	case errUniqViolation.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", gatekeeper.ErrExists, err)

	default:
		return fmt.Errorf("%w: failed upserting %T: %s", gatekeeper.ErrUnexpected, value, err)
	}
}

// **************************************************************************
// CHAINING METHODS
//
// These methods build up a query without executing it.
// **************************************************************************

// Model specifies the database table to query.
func (db *DB) Model(model any) *DB { return &DB{db: db.db.Model(model)} }

// Where applies the query fragment as a WHERE or AND clause.
//
// Where supports one or none args.
// If more than one arg is passed, finisher methods will return gatekeeper.ErrNotValid.
func (db *DB) Where(query any, args ...any) *DB {
	if len(args) > 1 {
		gdb := db.db.Session(&gorm.Session{NewDB: true})
		_ = gdb.AddError(fmt.Errorf("%w: Where supports one or none args", gatekeeper.ErrNotValid))
		return &DB{db: gdb}
	}

	return &DB{db: db.db.Where(query, args...)}
}

// WithContext scopes every query built from the returned *DB to ctx.
func (db *DB) WithContext(ctx context.Context) *DB { return &DB{db: db.db.WithContext(ctx)} }
