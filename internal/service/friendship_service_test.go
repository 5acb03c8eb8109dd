package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealmate_backend/internal/model"
	"mealmate_backend/internal/util"
)

func TestSendRequest_Validation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	// 自己加自己
	err := env.friendship.SendRequest(alice.ID, alice.ID, "")
	assert.ErrorIs(t, err, util.ErrSelfReference)

	// 接收者不存在
	err = env.friendship.SendRequest(alice.ID, 9999, "")
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	// 正常发送
	require.NoError(t, env.friendship.SendRequest(alice.ID, bob.ID, "hi"))

	// 重复发送
	err = env.friendship.SendRequest(alice.ID, bob.ID, "again")
	assert.ErrorIs(t, err, util.ErrDuplicateRequest)
}

func TestAcceptRequest_CreatesSymmetricEdges(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	require.NoError(t, env.friendship.SendRequest(alice.ID, bob.ID, ""))
	require.NoError(t, env.friendship.AcceptRequest(bob.ID, alice.ID))

	// 双向边都存在
	ab, err := env.friendRepo.IsFriend(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ab)
	ba, err := env.friendRepo.IsFriend(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, ba)

	// 已是好友后不能再发申请
	err = env.friendship.SendRequest(bob.ID, alice.ID, "")
	assert.ErrorIs(t, err, util.ErrAlreadyFriends)
}

func TestAcceptRequest_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	require.NoError(t, env.friendship.SendRequest(alice.ID, bob.ID, ""))
	require.NoError(t, env.friendship.AcceptRequest(bob.ID, alice.ID))

	// 重复同意（客户端重试）不会产生重复边
	err := env.friendship.AcceptRequest(bob.ID, alice.ID)
	assert.ErrorIs(t, err, util.ErrRequestNotFound)

	var count int64
	require.NoError(t, env.db.Model(&model.Friendship{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestDeclineRequest(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	require.NoError(t, env.friendship.SendRequest(alice.ID, bob.ID, ""))
	require.NoError(t, env.friendship.DeclineRequest(bob.ID, alice.ID))

	// 不建立任何好友边
	isFriend, err := env.friendRepo.IsFriend(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, isFriend)

	// 拒绝后可重新发起申请
	require.NoError(t, env.friendship.SendRequest(alice.ID, bob.ID, "second try"))
}

func TestGetPendingRequests_OrderedByCreation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	require.NoError(t, env.friendship.SendRequest(alice.ID, carol.ID, ""))
	require.NoError(t, env.friendship.SendRequest(bob.ID, carol.ID, ""))

	reqs, err := env.friendship.GetPendingRequests(carol.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, alice.ID, reqs[0].SenderID)
	assert.Equal(t, bob.ID, reqs[1].SenderID)
}

func TestRemoveFriend_DeletesBothEdges(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.makeFriends(t, alice.ID, bob.ID)

	require.NoError(t, env.friendship.RemoveFriend(alice.ID, bob.ID))

	ab, err := env.friendRepo.IsFriend(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ab)
	ba, err := env.friendRepo.IsFriend(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ba)

	// 非好友再删报错
	err = env.friendship.RemoveFriend(alice.ID, bob.ID)
	assert.ErrorIs(t, err, util.ErrNotFriends)

	// 删除后可重新加回（唯一索引不应被历史记录占用）
	env.makeFriends(t, alice.ID, bob.ID)
}

func TestSetLocationVisibility(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	// 非好友设置直接报错
	err := env.friendship.SetLocationVisibility(alice.ID, bob.ID, false)
	assert.ErrorIs(t, err, util.ErrNotFriends)

	env.makeFriends(t, alice.ID, bob.ID)
	require.NoError(t, env.friendship.SetLocationVisibility(alice.ID, bob.ID, false))

	// alice 对 bob 隐藏，bob 的可见好友里没有 alice
	visible, err := env.friendRepo.VisibleFriends(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, visible)

	// 反方向不受影响：bob 仍对 alice 可见
	visible, err = env.friendRepo.VisibleFriends(alice.ID)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, bob.ID, visible[0].ID)
}
