package service

import (
	"mealmate_backend/internal/model"
	"mealmate_backend/internal/repository"
	"mealmate_backend/internal/util"
	"strings"
	"time"

	"gorm.io/gorm"
)

type MealService struct {
	MealRepo   *repository.MealRepository
	SquadRepo  *repository.SquadRepository
	FriendRepo *repository.FriendshipRepository
	UserRepo   *repository.UserRepository
}

func NewMealService(mealRepo *repository.MealRepository, squadRepo *repository.SquadRepository,
	friendRepo *repository.FriendshipRepository, userRepo *repository.UserRepository) *MealService {
	return &MealService{
		MealRepo:   mealRepo,
		SquadRepo:  squadRepo,
		FriendRepo: friendRepo,
		UserRepo:   userRepo,
	}
}

// CreateMealSpec 创建饭局的参数
type CreateMealSpec struct {
	Name           string
	Date           string
	TimeSlot       model.TimeSlot
	Location       string
	IsOpenToJoin   bool
	ParticipantIDs []uint
	SquadIDs       []uint
}

// CreateMeal 创建饭局。
// 受邀饭团在创建时一次性展开为参与者（之后团员变动不回溯）；
// 直接邀请与团展开取并集去重，发起人不入参与者名单；
// 同日同餐别下任一参与者（含发起人）已有饭局则拒绝，检查与落库在同一事务内。
func (s *MealService) CreateMeal(hostID uint, spec CreateMealSpec) (*model.Meal, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return nil, util.NewAppError(util.KindInvalidInput, "InvalidInput", "饭局名称不能为空")
	}
	if !spec.TimeSlot.Valid() {
		return nil, util.ErrInvalidTimeSlot
	}
	if _, err := time.ParseInLocation(util.DateFormat, spec.Date, time.Local); err != nil {
		return nil, util.ErrInvalidDate
	}

	// 1. 展开饭团成员，与直接邀请取并集
	candidates := append([]uint{}, spec.ParticipantIDs...)
	for _, squadID := range dedupeIDs(spec.SquadIDs, 0) {
		memberIDs, err := s.squadMemberIDs(squadID)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, memberIDs...)
	}
	participantIDs := dedupeIDs(candidates, hostID)

	existing, err := s.UserRepo.ExistingIDs(participantIDs)
	if err != nil {
		return nil, err
	}
	for _, uid := range participantIDs {
		if !existing[uid] {
			return nil, util.ErrUserNotFound
		}
	}

	meal := &model.Meal{
		Name:         strings.TrimSpace(spec.Name),
		HostID:       hostID,
		Date:         spec.Date,
		TimeSlot:     spec.TimeSlot,
		MealType:     spec.TimeSlot.MealType(),
		Location:     spec.Location,
		IsOpenToJoin: spec.IsOpenToJoin,
	}
	for _, uid := range participantIDs {
		meal.Participants = append(meal.Participants, model.MealParticipant{
			UserID: uid,
			Status: model.StatusInvited,
		})
	}
	for _, sid := range dedupeIDs(spec.SquadIDs, 0) {
		meal.SquadInvites = append(meal.SquadInvites, model.MealSquadInvite{
			SquadID: sid,
			Status:  model.StatusInvited,
		})
	}

	// 2. 冲突检查 + 落库，同一事务内串行完成
	conflictIDs := append([]uint{hostID}, participantIDs...)
	err = withTxRetry(func() error {
		return s.MealRepo.DB.Transaction(func(tx *gorm.DB) error {
			conflict, err := s.MealRepo.ConflictExists(tx, meal.Date, meal.MealType, conflictIDs)
			if err != nil {
				return err
			}
			if conflict {
				return util.ErrSchedulingConflict
			}
			return s.MealRepo.Create(tx, meal)
		})
	})
	if err != nil {
		return nil, err
	}

	return s.MealRepo.FindByID(meal.ID)
}

func (s *MealService) Get(mealID uint) (*model.Meal, error) {
	return s.findMeal(mealID)
}

// ListMine 我发起或参与的饭局
func (s *MealService) ListMine(userID uint) ([]model.Meal, error) {
	return s.MealRepo.ListByUser(userID)
}

// GetOpenMeals 好友发起的开放饭局，未来七天内，排除自己已参与的
func (s *MealService) GetOpenMeals(userID uint) ([]model.Meal, error) {
	friendIDs, err := s.FriendRepo.GetFriendIDsCached(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	fromDate := now.Format(util.DateFormat)
	toDate := now.Add(util.OpenMealWindow).Format(util.DateFormat)
	return s.MealRepo.FindOpenMeals(userID, friendIDs, fromDate, toDate)
}

// JoinOpenMeal 主动加入开放饭局，直接落为已确认（跳过受邀态）
func (s *MealService) JoinOpenMeal(userID, mealID uint) error {
	meal, err := s.findMeal(mealID)
	if err != nil {
		return err
	}

	if !meal.IsOpenToJoin {
		return util.ErrMealNotOpen
	}
	if !meal.StartTime().After(time.Now()) {
		return util.ErrMealAlreadyStarted
	}
	if userID == meal.HostID {
		return util.ErrCannotJoinOwnMeal
	}
	if _, err := s.MealRepo.GetParticipant(mealID, userID); err == nil {
		return util.ErrAlreadyParticipant
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	return s.MealRepo.CreateParticipant(&model.MealParticipant{
		MealID: mealID,
		UserID: userID,
		Status: model.StatusConfirmed,
	})
}

// UpdateParticipantStatus 参与者回应邀请，仅允许 invited → confirmed|declined
func (s *MealService) UpdateParticipantStatus(mealID, userID uint, newStatus string) error {
	if newStatus != model.StatusConfirmed && newStatus != model.StatusDeclined {
		return util.ErrInvalidTransition
	}

	if _, err := s.findMeal(mealID); err != nil {
		return err
	}

	p, err := s.MealRepo.GetParticipant(mealID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrNotParticipant
		}
		return err
	}
	if p.Status != model.StatusInvited {
		return util.ErrInvalidTransition
	}

	return s.MealRepo.UpdateParticipantStatus(mealID, userID, newStatus)
}

// RespondToSquadInvite 以饭团身份回应整团邀请。
// 确认时团内全部参与者一并置为已确认（团体共识覆盖个人受邀态），
// 拒绝只改整团邀请记录，个人参与状态不动。
func (s *MealService) RespondToSquadInvite(userID, mealID, squadID uint, status string) error {
	if status != model.StatusConfirmed && status != model.StatusDeclined {
		return util.ErrInvalidTransition
	}

	if _, err := s.findMeal(mealID); err != nil {
		return err
	}

	inv, err := s.MealRepo.GetSquadInvite(mealID, squadID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrSquadNotInvited
		}
		return err
	}

	isMember, err := s.SquadRepo.IsMember(squadID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return util.ErrNotSquadMember
	}

	if inv.Status != model.StatusInvited {
		return util.ErrInvalidTransition
	}

	if status == model.StatusDeclined {
		return s.MealRepo.UpdateSquadInviteStatus(mealID, squadID, model.StatusDeclined)
	}

	memberIDs, err := s.SquadRepo.MemberIDs(squadID)
	if err != nil {
		return err
	}
	return withTxRetry(func() error {
		return s.MealRepo.ConfirmSquadInvite(mealID, squadID, memberIDs)
	})
}

// DeleteMeal 仅发起人可删除
func (s *MealService) DeleteMeal(hostID, mealID uint) error {
	meal, err := s.findMeal(mealID)
	if err != nil {
		return err
	}
	if meal.HostID != hostID {
		return util.ErrNotMealHost
	}
	return s.MealRepo.Delete(mealID)
}

func (s *MealService) findMeal(mealID uint) (*model.Meal, error) {
	meal, err := s.MealRepo.FindByID(mealID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrMealNotFound
		}
		return nil, err
	}
	return meal, nil
}

func (s *MealService) squadMemberIDs(squadID uint) ([]uint, error) {
	if _, err := s.SquadRepo.FindByID(squadID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSquadNotFound
		}
		return nil, err
	}
	return s.SquadRepo.MemberIDs(squadID)
}
