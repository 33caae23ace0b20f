package store_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/gatekeeper"
	"github.com/xy-planning-network/gatekeeper/postgres"
	"github.com/xy-planning-network/gatekeeper/store"
	"gorm.io/driver/sqlite"
)

var dbCount int64

func newTestDB(t *testing.T) *postgres.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:store-test-%d?mode=memory&cache=shared", atomic.AddInt64(&dbCount, 1))
	db, err := postgres.Open(sqlite.Open(dsn), gatekeeper.Testing)
	require.Nil(t, err)
	require.Nil(t, postgres.MigrateUp(db.DB(), store.Migrations()))

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *store.RedisCacher) {
	t.Helper()

	mr, err := miniredis.Run()
	require.Nil(t, err)
	t.Cleanup(mr.Close)

	c := store.NewRedisCacher(&redis.Options{Addr: mr.Addr()}, time.Hour)
	t.Cleanup(func() { _ = c.Close() })

	return mr, c
}

func TestCachers(t *testing.T) {
	_, rc := newTestRedis(t)

	tcs := []struct {
		name  string
		cache store.Cacher
	}{
		{"Memory", store.NewMemoryCacher()},
		{"Redis", rc},
		{"Gorm", store.NewGormCacher(newTestDB(t))},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			st := store.State{User: &store.User{AuthResult: &testResult, Profile: testProfile}}

			// Act
			_, err := tc.cache.Load(ctx, "sid-1")

			// Assert
			require.ErrorIs(t, err, gatekeeper.ErrNotExist)

			// Act
			require.Nil(t, tc.cache.Save(ctx, "sid-1", st))
			actual, err := tc.cache.Load(ctx, "sid-1")

			// Assert
			require.Nil(t, err)
			require.Equal(t, st, actual)

			// Act
			st = store.SetProfileFailure(st, "tok1", "Unauthorized")
			require.Nil(t, tc.cache.Save(ctx, "sid-1", st))
			actual, err = tc.cache.Load(ctx, "sid-1")

			// Assert
			require.Nil(t, err)
			require.Equal(t, "Unauthorized", actual.User.ProfileErr)

			// Act
			err = tc.cache.Delete(ctx, "sid-1")

			// Assert
			require.Nil(t, err)
			_, err = tc.cache.Load(ctx, "sid-1")
			require.ErrorIs(t, err, gatekeeper.ErrNotExist)
			require.ErrorIs(t, tc.cache.Delete(ctx, "sid-1"), gatekeeper.ErrNotExist)
		})
	}
}

func TestRedisCacher_TTL(t *testing.T) {
	// Arrange
	mr, rc := newTestRedis(t)
	ctx := context.Background()
	require.Nil(t, rc.Ping(ctx))

	// Act
	require.Nil(t, rc.Save(ctx, "sid-1", store.SetAuthResult(store.State{}, testResult)))

	// Assert
	require.Equal(t, time.Hour, mr.TTL("gatekeeper:state:sid-1"))

	// Act
	mr.FastForward(2 * time.Hour)

	// Assert
	_, err := rc.Load(ctx, "sid-1")
	require.ErrorIs(t, err, gatekeeper.ErrNotExist)
}

func TestRedisCacher_Unreachable(t *testing.T) {
	// Arrange
	mr, rc := newTestRedis(t)
	mr.Close()

	// Act
	err := rc.Ping(context.Background())

	// Assert
	require.ErrorIs(t, err, gatekeeper.ErrBadConfig)

	_, err = rc.Load(context.Background(), "sid-1")
	require.ErrorIs(t, err, gatekeeper.ErrUnexpected)
}

func TestMemoryCacher_CtxDone(t *testing.T) {
	// Arrange
	c := store.NewMemoryCacher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	_, err := c.Load(ctx, "sid-1")

	// Assert
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, c.Save(ctx, "sid-1", store.State{}), context.Canceled)
	require.ErrorIs(t, c.Delete(ctx, "sid-1"), context.Canceled)
}

func TestMemoryCacher_TTL(t *testing.T) {
	// Arrange
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := store.NewMemoryCacherWithTTL(time.Hour)
	c.SetClock(func() time.Time { return now })
	signedIn := store.SetAuthResult(store.State{}, testResult)

	require.Nil(t, c.Save(ctx, "sid-1", signedIn))

	// Act
	now = now.Add(59 * time.Minute)
	actual, err := c.Load(ctx, "sid-1")

	// Assert
	require.Nil(t, err)
	require.Equal(t, signedIn, actual)

	// Act
	now = now.Add(time.Minute)
	_, err = c.Load(ctx, "sid-1")

	// Assert
	require.ErrorIs(t, err, gatekeeper.ErrNotExist)
	require.Equal(t, 1, c.Len())

	// Act
	require.Nil(t, c.Save(ctx, "sid-2", signedIn))

	// Assert
	require.Equal(t, 1, c.Len())
	require.ErrorIs(t, c.Delete(ctx, "sid-1"), gatekeeper.ErrNotExist)
}

func TestMemoryCacher_NoTTL(t *testing.T) {
	// Arrange
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := store.NewMemoryCacher()
	c.SetClock(func() time.Time { return now })
	require.Nil(t, c.Save(ctx, "sid-1", store.SetAuthResult(store.State{}, testResult)))

	// Act
	now = now.Add(24 * 365 * time.Hour)
	_, err := c.Load(ctx, "sid-1")

	// Assert
	require.Nil(t, err)
}

func TestStore_Gorm(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db := newTestDB(t)
	s := runStore(t, store.NewGormCacher(db))

	// Act
	_, err := s.DispatchSync(ctx, "sid-1", store.SetAuthResultEvent{Result: testResult})
	require.Nil(t, err)
	_, err = s.DispatchSync(ctx, "sid-1", store.SetUserProfileEvent{Profile: testProfile, Token: "tok1"})
	require.Nil(t, err)

	// Assert
	actual, err := store.NewGormCacher(db).Load(ctx, "sid-1")
	require.Nil(t, err)

	name, ok := actual.User.Profile.Name()
	require.True(t, ok)
	require.Equal(t, "Alice", name)

	// Act
	_, err = s.DispatchSync(ctx, "sid-1", store.LogoutEvent{})

	// Assert
	require.Nil(t, err)
	_, err = store.NewGormCacher(db).Load(ctx, "sid-1")
	require.ErrorIs(t, err, gatekeeper.ErrNotExist)
}

func TestNewCacher(t *testing.T) {
	mr, err := miniredis.Run()
	require.Nil(t, err)
	t.Cleanup(mr.Close)

	tcs := []struct {
		name     string
		cfg      store.CacherConfig
		deps     store.Dependencies
		expected store.Cacher
		err      error
	}{
		{"Default", store.CacherConfig{}, store.Dependencies{}, new(store.MemoryCacher), nil},
		{"Memory", store.CacherConfig{Driver: store.DriverMemory}, store.Dependencies{}, new(store.MemoryCacher), nil},
		{"Redis", store.CacherConfig{Driver: store.DriverRedis, RedisURL: "redis://" + mr.Addr()}, store.Dependencies{}, new(store.RedisCacher), nil},
		{"Redis-Bad-URL", store.CacherConfig{Driver: store.DriverRedis, RedisURL: "http://nope"}, store.Dependencies{}, nil, gatekeeper.ErrBadConfig},
		{"Postgres", store.CacherConfig{Driver: store.DriverPostgres}, store.Dependencies{DB: newTestDB(t)}, new(store.GormCacher), nil},
		{"Postgres-No-DB", store.CacherConfig{Driver: store.DriverPostgres}, store.Dependencies{}, nil, gatekeeper.ErrBadConfig},
		{"Unknown", store.CacherConfig{Driver: "etcd"}, store.Dependencies{}, nil, store.ErrNoDriver},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			actual, err := store.NewCacher(tc.cfg, tc.deps)

			// Assert
			require.ErrorIs(t, err, tc.err)
			if tc.expected == nil {
				require.Nil(t, actual)
				return
			}

			require.IsType(t, tc.expected, actual)
		})
	}
}
