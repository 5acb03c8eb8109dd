package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealmate_backend/internal/model"
	"mealmate_backend/internal/util"
)

func TestCreatePing_TargetExpansion(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	squad, err := env.squad.Create(alice.ID, "hungry", []uint{bob.ID, carol.ID})
	require.NoError(t, err)

	// bob 既是直接接收人又在饭团里；发起人 alice 被排除
	ping, err := env.ping.CreatePing(alice.ID, CreatePingSpec{
		RecipientIDs: []uint{bob.ID},
		SquadIDs:     []uint{squad.ID},
	})
	require.NoError(t, err)

	require.Len(t, ping.Recipients, 2)
	got := map[uint]bool{}
	for _, r := range ping.Recipients {
		got[r.UserID] = true
	}
	assert.True(t, got[bob.ID])
	assert.True(t, got[carol.ID])
	assert.False(t, got[alice.ID])

	// 缺省消息与有效期
	assert.Equal(t, util.DefaultPingMessage, ping.Message)
	assert.WithinDuration(t, time.Now().Add(util.DefaultPingTTL), ping.ExpiresAt, 5*time.Second)
}

func TestCreatePing_NoTargets(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	_, err := env.ping.CreatePing(alice.ID, CreatePingSpec{})
	assert.ErrorIs(t, err, util.ErrNoPingTargets)

	// 只把自己列为接收人，排除后为空
	_, err = env.ping.CreatePing(alice.ID, CreatePingSpec{RecipientIDs: []uint{alice.ID}})
	assert.ErrorIs(t, err, util.ErrNoPingTargets)
}

func TestRespond_SingleResponse(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	ping, err := env.ping.CreatePing(alice.ID, CreatePingSpec{RecipientIDs: []uint{bob.ID}})
	require.NoError(t, err)

	// 非接收人不能响应
	err = env.ping.Respond(carol.ID, ping.ID, model.PingAccept)
	assert.ErrorIs(t, err, util.ErrNotPingRecipient)

	// 非法响应类型
	err = env.ping.Respond(bob.ID, ping.ID, "later")
	assert.Error(t, err)

	require.NoError(t, env.ping.Respond(bob.ID, ping.ID, model.PingAccept))

	// 单人单次，终态
	err = env.ping.Respond(bob.ID, ping.ID, model.PingDecline)
	assert.ErrorIs(t, err, util.ErrAlreadyResponded)
	err = env.ping.Dismiss(bob.ID, ping.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyResponded)
}

func TestListActive_SuppressesRespondedAndExpired(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	first, err := env.ping.CreatePing(alice.ID, CreatePingSpec{RecipientIDs: []uint{bob.ID}})
	require.NoError(t, err)
	second, err := env.ping.CreatePing(alice.ID, CreatePingSpec{RecipientIDs: []uint{bob.ID}})
	require.NoError(t, err)

	// 已过期的广播直接造数据
	past := time.Now().Add(-time.Minute)
	expired := &model.Ping{SenderID: alice.ID, Message: "too late", ExpiresAt: past, Status: model.PingActive}
	require.NoError(t, env.pingRepo.CreateWithTargets(expired, []uint{bob.ID}, nil))

	active, err := env.ping.ListActive(bob.ID)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	// 忽略其中一条后不再出现
	require.NoError(t, env.ping.Dismiss(bob.ID, first.ID))
	active, err = env.ping.ListActive(bob.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)
}

func TestRespond_Expired(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	past := time.Now().Add(-time.Minute)
	ping, err := env.ping.CreatePing(alice.ID, CreatePingSpec{
		RecipientIDs: []uint{bob.ID},
		ExpiresAt:    &past,
	})
	require.NoError(t, err)

	err = env.ping.Respond(bob.ID, ping.ID, model.PingAccept)
	assert.ErrorIs(t, err, util.ErrPingExpired)
}

func TestPingVisibility_ViaSquadMembership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	squad, err := env.squad.Create(alice.ID, "squad ping", []uint{bob.ID})
	require.NoError(t, err)

	ping, err := env.ping.CreatePing(alice.ID, CreatePingSpec{SquadIDs: []uint{squad.ID}})
	require.NoError(t, err)

	// 创建后入团的成员通过饭团引用也能看到
	require.NoError(t, env.squad.AddMember(bob.ID, squad.ID, carol.ID))

	active, err := env.ping.ListActive(carol.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, ping.ID, active[0].ID)

	require.NoError(t, env.ping.Respond(carol.ID, ping.ID, model.PingAccept))
}

func TestCancelPing(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	ping, err := env.ping.CreatePing(alice.ID, CreatePingSpec{RecipientIDs: []uint{bob.ID}})
	require.NoError(t, err)

	// 非发起人不能取消
	err = env.ping.Cancel(bob.ID, ping.ID)
	assert.ErrorIs(t, err, util.ErrNotPingSender)

	require.NoError(t, env.ping.Cancel(alice.ID, ping.ID))

	// 取消后对接收人不可见，也不能再响应
	active, err := env.ping.ListActive(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, active)

	err = env.ping.Respond(bob.ID, ping.ID, model.PingAccept)
	assert.ErrorIs(t, err, util.ErrPingExpired)

	// 已取消的不能再次取消
	err = env.ping.Cancel(alice.ID, ping.ID)
	assert.ErrorIs(t, err, util.ErrPingExpired)
}
