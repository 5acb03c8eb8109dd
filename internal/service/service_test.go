package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"mealmate_backend/internal/config"
	"mealmate_backend/internal/model"
	"mealmate_backend/internal/repository"
	"mealmate_backend/pkg/database"
)

var testDBSeq int64

// newTestDB 每个测试一个独立的内存库，表结构与生产迁移保持一致
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type testEnv struct {
	db         *gorm.DB
	userRepo   *repository.UserRepository
	friendRepo *repository.FriendshipRepository
	squadRepo  *repository.SquadRepository
	mealRepo   *repository.MealRepository
	pingRepo   *repository.PingRepository

	friendship *FriendshipService
	squad      *SquadService
	meal       *MealService
	ping       *PingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendshipRepository(db, nil)
	squadRepo := repository.NewSquadRepository(db)
	mealRepo := repository.NewMealRepository(db)
	pingRepo := repository.NewPingRepository(db)

	return &testEnv{
		db:         db,
		userRepo:   userRepo,
		friendRepo: friendRepo,
		squadRepo:  squadRepo,
		mealRepo:   mealRepo,
		pingRepo:   pingRepo,
		friendship: NewFriendshipService(friendRepo, userRepo),
		squad:      NewSquadService(squadRepo, userRepo),
		meal:       NewMealService(mealRepo, squadRepo, friendRepo, userRepo),
		ping:       NewPingService(pingRepo, squadRepo, userRepo),
	}
}

func (e *testEnv) createUser(t *testing.T, name string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    fmt.Sprintf("%s-%d@example.com", name, atomic.AddInt64(&testDBSeq, 1)),
		Password: "hashed",
	}
	require.NoError(t, e.userRepo.Create(user))
	return user
}

// makeFriends 走完整的申请-同意流程建立双向好友关系
func (e *testEnv) makeFriends(t *testing.T, a, b uint) {
	t.Helper()
	require.NoError(t, e.friendship.SendRequest(a, b, ""))
	require.NoError(t, e.friendship.AcceptRequest(b, a))
}

func testLocationConfig(freshnessMinutes int) *config.Config {
	return &config.Config{
		Location: config.LocationConfig{FreshnessMinutes: freshnessMinutes},
	}
}
