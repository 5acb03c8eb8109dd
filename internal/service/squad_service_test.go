package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealmate_backend/internal/util"
)

func TestCreateSquad(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	squad, err := env.squad.Create(alice.ID, "周五干饭小队", []uint{bob.ID})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, squad.CreatorID)
	require.Len(t, squad.Members, 2)

	// 创建者强制入团
	isMember, err := env.squadRepo.IsMember(squad.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, isMember)
}

func TestCreateSquad_Validation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	// 名称为空
	_, err := env.squad.Create(alice.ID, "  ", []uint{bob.ID})
	assert.Error(t, err)

	// 只有创建者自己
	_, err = env.squad.Create(alice.ID, "solo", []uint{alice.ID})
	assert.Error(t, err)

	// 成员不存在
	_, err = env.squad.Create(alice.ID, "ghost", []uint{9999})
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	// 名称唯一
	_, err = env.squad.Create(alice.ID, "taken", []uint{bob.ID})
	require.NoError(t, err)
	_, err = env.squad.Create(bob.ID, "taken", []uint{alice.ID})
	assert.ErrorIs(t, err, util.ErrSquadNameTaken)
}

func TestSquadGet_MemberOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	squad, err := env.squad.Create(alice.ID, "inner circle", []uint{bob.ID})
	require.NoError(t, err)

	_, err = env.squad.Get(bob.ID, squad.ID)
	assert.NoError(t, err)

	_, err = env.squad.Get(carol.ID, squad.ID)
	assert.ErrorIs(t, err, util.ErrNotSquadMember)
}

func TestAddMember(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")
	dave := env.createUser(t, "dave")

	squad, err := env.squad.Create(alice.ID, "open table", []uint{bob.ID})
	require.NoError(t, err)

	// 任何成员都可以拉人，不限于创建者
	require.NoError(t, env.squad.AddMember(bob.ID, squad.ID, carol.ID))

	// 非成员不能拉人
	err = env.squad.AddMember(dave.ID, squad.ID, dave.ID)
	assert.ErrorIs(t, err, util.ErrNotSquadMember)

	// 重复拉人
	err = env.squad.AddMember(alice.ID, squad.ID, carol.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyMember)
}

func TestRemoveMember_Permissions(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	squad, err := env.squad.Create(alice.ID, "strict", []uint{bob.ID, carol.ID})
	require.NoError(t, err)

	// 普通成员不能踢别人
	err = env.squad.RemoveMember(bob.ID, squad.ID, carol.ID)
	assert.ErrorIs(t, err, util.ErrNotSquadCreator)

	// 普通成员可以自己退团
	require.NoError(t, env.squad.RemoveMember(bob.ID, squad.ID, bob.ID))

	// 创建者可以踢人
	require.NoError(t, env.squad.RemoveMember(alice.ID, squad.ID, carol.ID))
}

func TestRemoveMember_CreatorMustTransfer(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	squad, err := env.squad.Create(alice.ID, "no exit", []uint{bob.ID})
	require.NoError(t, err)

	// 还有其他成员时创建者不能退团
	err = env.squad.RemoveMember(alice.ID, squad.ID, alice.ID)
	assert.ErrorIs(t, err, util.ErrCreatorMustTransfer)
}

func TestRemoveMember_LastMemberDissolvesSquad(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	squad, err := env.squad.Create(alice.ID, "ephemeral", []uint{bob.ID})
	require.NoError(t, err)

	require.NoError(t, env.squad.RemoveMember(bob.ID, squad.ID, bob.ID))
	// 创建者作为最后一人退团，饭团解散
	require.NoError(t, env.squad.RemoveMember(alice.ID, squad.ID, alice.ID))

	_, err = env.squad.Get(alice.ID, squad.ID)
	assert.ErrorIs(t, err, util.ErrSquadNotFound)

	// 解散后名称可复用
	_, err = env.squad.Create(bob.ID, "ephemeral", []uint{alice.ID})
	assert.NoError(t, err)
}

func TestTransferOwnership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	squad, err := env.squad.Create(alice.ID, "handover", []uint{bob.ID})
	require.NoError(t, err)

	// 非创建者不能转让
	err = env.squad.TransferOwnership(bob.ID, squad.ID, bob.ID)
	assert.ErrorIs(t, err, util.ErrNotSquadCreator)

	// 目标必须是成员
	err = env.squad.TransferOwnership(alice.ID, squad.ID, carol.ID)
	assert.ErrorIs(t, err, util.ErrNotSquadMember)

	require.NoError(t, env.squad.TransferOwnership(alice.ID, squad.ID, bob.ID))

	// 转让后原创建者可以直接退团
	require.NoError(t, env.squad.RemoveMember(alice.ID, squad.ID, alice.ID))
}

func TestDeleteSquad(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	squad, err := env.squad.Create(alice.ID, "doomed", []uint{bob.ID})
	require.NoError(t, err)

	err = env.squad.Delete(bob.ID, squad.ID)
	assert.ErrorIs(t, err, util.ErrNotSquadCreator)

	require.NoError(t, env.squad.Delete(alice.ID, squad.ID))

	_, err = env.squad.Get(alice.ID, squad.ID)
	assert.ErrorIs(t, err, util.ErrSquadNotFound)

	// 成员记录一并清掉
	isMember, err := env.squadRepo.IsMember(squad.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, isMember)
}

func TestUpdateMetadata(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	squad, err := env.squad.Create(alice.ID, "old name", []uint{bob.ID})
	require.NoError(t, err)
	other, err := env.squad.Create(bob.ID, "occupied", []uint{alice.ID})
	require.NoError(t, err)
	_ = other

	// 改成已占用的名称
	err = env.squad.UpdateMetadata(alice.ID, squad.ID, SquadPatch{Name: "occupied"})
	assert.ErrorIs(t, err, util.ErrSquadNameTaken)

	require.NoError(t, env.squad.UpdateMetadata(alice.ID, squad.ID, SquadPatch{Name: "new name"}))

	updated, err := env.squad.Get(alice.ID, squad.ID)
	require.NoError(t, err)
	assert.Equal(t, "new name", updated.Name)
}
