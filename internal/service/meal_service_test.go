package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealmate_backend/internal/model"
	"mealmate_backend/internal/util"
)

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(util.DateFormat)
}

func TestCreateMeal_Validation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	_, err := env.meal.CreateMeal(alice.ID, CreateMealSpec{
		Name: "", Date: futureDate(1), TimeSlot: model.SlotDinnerEarly,
	})
	assert.Error(t, err)

	_, err = env.meal.CreateMeal(alice.ID, CreateMealSpec{
		Name: "bad slot", Date: futureDate(1), TimeSlot: "midnight_snack",
	})
	assert.ErrorIs(t, err, util.ErrInvalidTimeSlot)

	_, err = env.meal.CreateMeal(alice.ID, CreateMealSpec{
		Name: "bad date", Date: "01/09/2026", TimeSlot: model.SlotDinnerEarly,
	})
	assert.ErrorIs(t, err, util.ErrInvalidDate)

	_, err = env.meal.CreateMeal(alice.ID, CreateMealSpec{
		Name: "ghost guest", Date: futureDate(1), TimeSlot: model.SlotDinnerEarly,
		ParticipantIDs: []uint{9999},
	})
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	_ = bob
}

func TestCreateMeal_ExpandsSquadAndDedupes(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	squad, err := env.squad.Create(alice.ID, "lunch crew", []uint{bob.ID, carol.ID})
	require.NoError(t, err)

	// bob 既被直接邀请又在饭团里，alice 是发起人不入名单
	meal, err := env.meal.CreateMeal(alice.ID, CreateMealSpec{
		Name:           "团建午饭",
		Date:           futureDate(1),
		TimeSlot:       model.SlotLunchEarly,
		ParticipantIDs: []uint{bob.ID, alice.ID},
		SquadIDs:       []uint{squad.ID},
	})
	require.NoError(t, err)

	require.Len(t, meal.Participants, 2)
	ids := map[uint]string{}
	for _, p := range meal.Participants {
		ids[p.UserID] = p.Status
	}
	assert.Equal(t, model.StatusInvited, ids[bob.ID])
	assert.Equal(t, model.StatusInvited, ids[carol.ID])
	assert.NotContains(t, ids, alice.ID)

	require.Len(t, meal.SquadInvites, 1)
	assert.Equal(t, model.StatusInvited, meal.SquadInvites[0].Status)
}

func TestCreateMeal_ConflictDetection(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	date := futureDate(2)

	_, err := env.meal.CreateMeal(alice.ID, CreateMealSpec{
		Name: "first lunch", Date: date, TimeSlot: model.SlotLunchEarly,
		ParticipantIDs: []uint{bob.ID},
	})
	require.NoError(t, err)

	// bob 已在同日午餐局里，再请他吃晚午餐（不同时段同餐别）冲突
	_, err = env.meal.CreateMeal(alice.ID, CreateMealSpec{
		Name: "second lunch", Date: date, TimeSlot: model.SlotLunchLate,
		ParticipantIDs: []uint{bob.ID},
	})
	assert.ErrorIs(t, err, util.ErrSchedulingConflict)

	// bob 自己当发起人也一样冲突（发起人计入冲突检查）
	_, err = env.meal.CreateMeal(bob.ID, CreateMealSpec{
		Name: "my own lunch", Date: date, TimeSlot: model.SlotLunchLate,
		ParticipantIDs: []uint{alice.ID},
	})
	assert.ErrorIs(t, err, util.ErrSchedulingConflict)

	// 同日不同餐别不冲突
	_, err = env.meal.CreateMeal(alice.ID, CreateMealSpec{
		Name: "dinner", Date: date, TimeSlot: model.SlotDinnerEarly,
		ParticipantIDs: []uint{bob.ID},
	})
	assert.NoError(t, err)
}

func TestUpdateParticipantStatus_Transitions(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	meal, err := env.meal.CreateMeal(alice.ID, CreateMealSpec{
		Name: "rsvp", Date: futureDate(1), TimeSlot: model.SlotDinnerEarly,
		ParticipantIDs: []uint{bob.ID},
	})
	require.NoError(t, err)

	// 非参与者
	err = env.meal.UpdateParticipantStatus(meal.ID, carol.ID, model.StatusConfirmed)
	assert.ErrorIs(t, err, util.ErrNotParticipant)

	// 非法目标状态
	err = env.meal.UpdateParticipantStatus(meal.ID, bob.ID, "maybe")
	assert.ErrorIs(t, err, util.ErrInvalidTransition)

	require.NoError(t, env.meal.UpdateParticipantStatus(meal.ID, bob.ID, model.StatusConfirmed))

	// 终态后不能再改
	err = env.meal.UpdateParticipantStatus(meal.ID, bob.ID, model.StatusDeclined)
	assert.ErrorIs(t, err, util.ErrInvalidTransition)
}

func TestRespondToSquadInvite_ConfirmCascades(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	squad, err := env.squad.Create(bob.ID, "dinner squad", []uint{carol.ID})
	require.NoError(t, err)

	meal, err := env.meal.CreateMeal(alice.ID, CreateMealSpec{
		Name: "团饭", Date: futureDate(1), TimeSlot: model.SlotDinnerEarly,
		SquadIDs: []uint{squad.ID},
	})
	require.NoError(t, err)

	// 非团成员不能代表饭团回应
	err = env.meal.RespondToSquadInvite(alice.ID, meal.ID, squad.ID, model.StatusConfirmed)
	assert.ErrorIs(t, err, util.ErrNotSquadMember)

	require.NoError(t, env.meal.RespondToSquadInvite(bob.ID, meal.ID, squad.ID, model.StatusConfirmed))

	// 团内全部参与者级联确认
	reloaded, err := env.meal.Get(meal.ID)
	require.NoError(t, err)
	for _, p := range reloaded.Participants {
		assert.Equal(t, model.StatusConfirmed, p.Status)
	}
	assert.Equal(t, model.StatusConfirmed, reloaded.SquadInvites[0].Status)

	// 整团邀请已处理，不能再次回应
	err = env.meal.RespondToSquadInvite(carol.ID, meal.ID, squad.ID, model.StatusDeclined)
	assert.ErrorIs(t, err, util.ErrInvalidTransition)
}

func TestRespondToSquadInvite_DeclineLeavesParticipants(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	squad, err := env.squad.Create(bob.ID, "hesitant", []uint{carol.ID})
	require.NoError(t, err)

	meal, err := env.meal.CreateMeal(alice.ID, CreateMealSpec{
		Name: "maybe dinner", Date: futureDate(1), TimeSlot: model.SlotDinnerLate,
		SquadIDs: []uint{squad.ID},
	})
	require.NoError(t, err)

	require.NoError(t, env.meal.RespondToSquadInvite(bob.ID, meal.ID, squad.ID, model.StatusDeclined))

	// 拒绝只改整团邀请，个人受邀状态不动，个人仍可单独确认
	reloaded, err := env.meal.Get(meal.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDeclined, reloaded.SquadInvites[0].Status)
	for _, p := range reloaded.Participants {
		assert.Equal(t, model.StatusInvited, p.Status)
	}
	require.NoError(t, env.meal.UpdateParticipantStatus(meal.ID, carol.ID, model.StatusConfirmed))
}

func TestJoinOpenMeal(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	open, err := env.meal.CreateMeal(alice.ID, CreateMealSpec{
		Name: "open table", Date: futureDate(1), TimeSlot: model.SlotDinnerEarly,
		IsOpenToJoin: true, ParticipantIDs: []uint{bob.ID},
	})
	require.NoError(t, err)

	closed, err := env.meal.CreateMeal(alice.ID, CreateMealSpec{
		Name: "private", Date: futureDate(3), TimeSlot: model.SlotDinnerEarly,
	})
	require.NoError(t, err)

	// 不开放的不能加入
	err = env.meal.JoinOpenMeal(carol.ID, closed.ID)
	assert.ErrorIs(t, err, util.ErrMealNotOpen)

	// 发起人不能加入自己的饭局
	err = env.meal.JoinOpenMeal(alice.ID, open.ID)
	assert.ErrorIs(t, err, util.ErrCannotJoinOwnMeal)

	// 正常加入，直接落为已确认
	require.NoError(t, env.meal.JoinOpenMeal(carol.ID, open.ID))
	p, err := env.mealRepo.GetParticipant(open.ID, carol.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, p.Status)

	// 重复加入
	err = env.meal.JoinOpenMeal(carol.ID, open.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyParticipant)

	// 受邀者也不能再 join（已在名单里）
	err = env.meal.JoinOpenMeal(bob.ID, open.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyParticipant)
}

func TestJoinOpenMeal_AlreadyStarted(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	// 直接造一个昨天的开放饭局，绕过创建校验
	past := &model.Meal{
		Name:         "yesterday",
		HostID:       alice.ID,
		Date:         time.Now().AddDate(0, 0, -1).Format(util.DateFormat),
		TimeSlot:     model.SlotDinnerEarly,
		MealType:     model.SlotDinnerEarly.MealType(),
		IsOpenToJoin: true,
	}
	require.NoError(t, env.db.Create(past).Error)

	err := env.meal.JoinOpenMeal(carol.ID, past.ID)
	assert.ErrorIs(t, err, util.ErrMealAlreadyStarted)

	_ = bob
}

func TestGetOpenMeals(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	env.makeFriends(t, alice.ID, bob.ID)

	// bob 的开放饭局：对好友 alice 可见
	visible, err := env.meal.CreateMeal(bob.ID, CreateMealSpec{
		Name: "friend food", Date: futureDate(2), TimeSlot: model.SlotDinnerEarly,
		IsOpenToJoin: true,
	})
	require.NoError(t, err)

	// carol 不是 alice 的好友，她的开放饭局不可见
	_, err = env.meal.CreateMeal(carol.ID, CreateMealSpec{
		Name: "stranger food", Date: futureDate(2), TimeSlot: model.SlotLunchEarly,
		IsOpenToJoin: true,
	})
	require.NoError(t, err)

	// bob 的非开放饭局也不可见
	_, err = env.meal.CreateMeal(bob.ID, CreateMealSpec{
		Name: "private", Date: futureDate(3), TimeSlot: model.SlotLunchEarly,
	})
	require.NoError(t, err)

	// 超出七天窗口的不可见
	_, err = env.meal.CreateMeal(bob.ID, CreateMealSpec{
		Name: "far future", Date: futureDate(10), TimeSlot: model.SlotDinnerEarly,
		IsOpenToJoin: true,
	})
	require.NoError(t, err)

	meals, err := env.meal.GetOpenMeals(alice.ID)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, visible.ID, meals[0].ID)

	// 加入后不再出现在开放列表
	require.NoError(t, env.meal.JoinOpenMeal(alice.ID, visible.ID))
	meals, err = env.meal.GetOpenMeals(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, meals)
}

func TestDeleteMeal_HostOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	meal, err := env.meal.CreateMeal(alice.ID, CreateMealSpec{
		Name: "short lived", Date: futureDate(1), TimeSlot: model.SlotBreakfast,
		ParticipantIDs: []uint{bob.ID},
	})
	require.NoError(t, err)

	err = env.meal.DeleteMeal(bob.ID, meal.ID)
	assert.ErrorIs(t, err, util.ErrNotMealHost)

	require.NoError(t, env.meal.DeleteMeal(alice.ID, meal.ID))

	_, err = env.meal.Get(meal.ID)
	assert.ErrorIs(t, err, util.ErrMealNotFound)

	// 参与者记录一并删除
	_, err = env.mealRepo.GetParticipant(meal.ID, bob.ID)
	assert.Error(t, err)
}

func TestListMine(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	hosted, err := env.meal.CreateMeal(alice.ID, CreateMealSpec{
		Name: "hosting", Date: futureDate(1), TimeSlot: model.SlotLunchEarly,
		ParticipantIDs: []uint{bob.ID},
	})
	require.NoError(t, err)

	joined, err := env.meal.CreateMeal(bob.ID, CreateMealSpec{
		Name: "invited to", Date: futureDate(2), TimeSlot: model.SlotDinnerEarly,
		ParticipantIDs: []uint{alice.ID},
	})
	require.NoError(t, err)

	_, err = env.meal.CreateMeal(carol.ID, CreateMealSpec{
		Name: "unrelated", Date: futureDate(3), TimeSlot: model.SlotDinnerEarly,
	})
	require.NoError(t, err)

	meals, err := env.meal.ListMine(alice.ID)
	require.NoError(t, err)
	require.Len(t, meals, 2)
	got := map[uint]bool{}
	for _, m := range meals {
		got[m.ID] = true
	}
	assert.True(t, got[hosted.ID])
	assert.True(t, got[joined.ID])
}
