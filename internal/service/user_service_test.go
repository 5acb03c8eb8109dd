package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealmate_backend/internal/model"
)

func TestUpdateLocationAndFriendMap(t *testing.T) {
	env := newTestEnv(t)
	users := NewUserService(env.userRepo, env.friendRepo, nil, testLocationConfig(120))

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")
	env.makeFriends(t, alice.ID, bob.ID)

	require.NoError(t, users.UpdateLocation(bob.ID, "食堂二楼"))
	// carol 不是好友，她的位置不该出现
	require.NoError(t, users.UpdateLocation(carol.ID, "图书馆"))

	locations, err := users.GetFriendLocations(alice.ID)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, bob.ID, locations[0].UserID)
	assert.Equal(t, "食堂二楼", locations[0].Location)
}

func TestGetFriendLocations_StaleExcluded(t *testing.T) {
	env := newTestEnv(t)
	users := NewUserService(env.userRepo, env.friendRepo, nil, testLocationConfig(120))

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.makeFriends(t, alice.ID, bob.ID)

	// 三小时前上报的位置已超出两小时有效窗口
	stale := time.Now().Add(-3 * time.Hour)
	require.NoError(t, env.userRepo.Updates(bob.ID, map[string]interface{}{
		"location":            "老地方",
		"location_updated_at": stale,
	}))

	locations, err := users.GetFriendLocations(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, locations)
}

func TestGetFriendLocations_OfflineExcluded(t *testing.T) {
	env := newTestEnv(t)
	users := NewUserService(env.userRepo, env.friendRepo, nil, testLocationConfig(120))

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.makeFriends(t, alice.ID, bob.ID)

	require.NoError(t, users.UpdateLocation(bob.ID, "食堂"))
	// 上报空位置表示下线
	require.NoError(t, users.UpdateLocation(bob.ID, model.LocationOffline))

	locations, err := users.GetFriendLocations(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, locations)
}

func TestGetFriendLocations_RespectsVisibility(t *testing.T) {
	env := newTestEnv(t)
	users := NewUserService(env.userRepo, env.friendRepo, nil, testLocationConfig(120))

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.makeFriends(t, alice.ID, bob.ID)

	require.NoError(t, users.UpdateLocation(bob.ID, "食堂"))
	// bob 对 alice 隐藏位置
	require.NoError(t, env.friendship.SetLocationVisibility(bob.ID, alice.ID, false))

	locations, err := users.GetFriendLocations(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, locations)
}

func TestUpdateProfile_Whitelist(t *testing.T) {
	env := newTestEnv(t)
	users := NewUserService(env.userRepo, env.friendRepo, nil, testLocationConfig(120))

	alice := env.createUser(t, "alice")

	require.NoError(t, users.UpdateProfile(alice.ID, ProfilePatch{Name: "  Alice Chen  ", Bio: "爱吃火锅"}))

	updated, err := users.GetByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Chen", updated.Name)
	assert.Equal(t, "爱吃火锅", updated.Bio)

	// 空补丁不应清掉已有字段
	require.NoError(t, users.UpdateProfile(alice.ID, ProfilePatch{}))
	updated, err = users.GetByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Chen", updated.Name)
}
