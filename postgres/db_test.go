package postgres_test

import (
	"context"

	"github.com/xy-planning-network/gatekeeper"
	"github.com/xy-planning-network/gatekeeper/postgres"
	"gorm.io/gorm"
)

type Widget struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

func (suite *DBTestSuite) migrate() {
	err := postgres.MigrateUp(suite.db.DB(), []postgres.Migration{
		{Key: "widgets", Executor: func(tx *gorm.DB) error { return tx.AutoMigrate(new(Widget)) }},
	})
	suite.Require().Nil(err)
}

func (suite *DBTestSuite) TestMigrateUp() {
	// Arrange
	var runs int
	ms := []postgres.Migration{
		{Key: "widgets", Executor: func(tx *gorm.DB) error { runs++; return tx.AutoMigrate(new(Widget)) }},
	}

	// Act
	err := postgres.MigrateUp(suite.db.DB(), ms)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal(1, runs)
	suite.Require().True(suite.db.DB().Migrator().HasTable(new(Widget)))

	// Act
	err = postgres.MigrateUp(suite.db.DB(), ms)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal(1, runs)
}

func (suite *DBTestSuite) TestMigrateUp_Failure() {
	// Arrange
	var after bool
	ms := []postgres.Migration{
		{Key: "fails", Executor: func(tx *gorm.DB) error { return testErr }},
		{Key: "after", Executor: func(tx *gorm.DB) error { after = true; return nil }},
	}

	// Act
	err := postgres.MigrateUp(suite.db.DB(), ms)

	// Assert
	suite.Require().ErrorIs(err, gatekeeper.ErrUnexpected)
	suite.Require().False(after)

	var count int64
	suite.Require().Nil(suite.db.DB().Table("migrations").Count(&count).Error)
	suite.Require().Zero(count)
}

func (suite *DBTestSuite) TestMigrateUp_NoExecutor() {
	err := postgres.MigrateUp(suite.db.DB(), []postgres.Migration{{Key: "empty"}})
	suite.Require().ErrorIs(err, gatekeeper.ErrNotValid)
}

func (suite *DBTestSuite) TestUpsert() {
	// Arrange
	suite.migrate()

	// Act
	err := suite.db.Upsert(&Widget{ID: "a", Name: "first"})

	// Assert
	suite.Require().Nil(err)

	// Act
	err = suite.db.Upsert(&Widget{ID: "a", Name: "second"})

	// Assert
	suite.Require().Nil(err)

	actual := new(Widget)
	suite.Require().Nil(suite.db.Where("id = ?", "a").First(actual))
	suite.Require().Equal("second", actual.Name)

	var count int64
	suite.Require().Nil(suite.db.DB().Model(new(Widget)).Count(&count).Error)
	suite.Require().EqualValues(1, count)
}

func (suite *DBTestSuite) TestUpsert_NotPointer() {
	suite.migrate()
	suite.Require().ErrorIs(suite.db.Upsert(nil), gatekeeper.ErrNotValid)
}

func (suite *DBTestSuite) TestFirst() {
	// Arrange
	suite.migrate()
	suite.Require().Nil(suite.db.Upsert(&Widget{ID: "a", Name: "first"}))

	tcs := []struct {
		name     string
		db       *postgres.DB
		expected *Widget
		err      error
	}{
		{"Found", suite.db.Where("id = ?", "a"), &Widget{ID: "a", Name: "first"}, nil},
		{"Not-Found", suite.db.Where("id = ?", "b"), new(Widget), gatekeeper.ErrNotExist},
		{"Too-Many-Args", suite.db.Where("id = ? OR id = ?", "a", "b"), new(Widget), gatekeeper.ErrNotValid},
		{"With-Context", suite.db.WithContext(context.Background()).Where("id = ?", "a"), &Widget{ID: "a", Name: "first"}, nil},
	}

	for _, tc := range tcs {
		suite.Run(tc.name, func() {
			// Act
			actual := new(Widget)
			err := tc.db.First(actual)

			// Assert
			suite.Require().ErrorIs(err, tc.err)
			suite.Require().Equal(tc.expected, actual)
		})
	}
}

func (suite *DBTestSuite) TestDelete() {
	// Arrange
	suite.migrate()
	suite.Require().Nil(suite.db.Upsert(&Widget{ID: "a", Name: "first"}))

	// Act
	err := suite.db.Delete(&Widget{ID: "a"})

	// Assert
	suite.Require().Nil(err)
	suite.Require().ErrorIs(suite.db.Where("id = ?", "a").First(new(Widget)), gatekeeper.ErrNotExist)

	// Act
	err = suite.db.Delete(&Widget{ID: "a"})

	// Assert
	suite.Require().ErrorIs(err, gatekeeper.ErrNotExist)
}
