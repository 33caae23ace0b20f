package postgres_test

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/xy-planning-network/gatekeeper"
	"github.com/xy-planning-network/gatekeeper/postgres"
	"gorm.io/driver/sqlite"
)

var (
	testErr = errors.New("just testing")
	dbCount int64
)

type DBTestSuite struct {
	suite.Suite

	db *postgres.DB
}

func TestRunSuite(t *testing.T) {
	suite.Run(t, new(DBTestSuite))
}

// SetupTest opens a fresh in-memory database for each test.
func (suite *DBTestSuite) SetupTest() {
	dsn := fmt.Sprintf("file:postgres-test-%d?mode=memory&cache=shared", atomic.AddInt64(&dbCount, 1))

	var err error
	suite.db, err = postgres.Open(sqlite.Open(dsn), gatekeeper.Testing)
	suite.Require().Nil(err)
}

func (suite *DBTestSuite) TearDownTest() {
	suite.Require().Nil(suite.db.Close())
}
