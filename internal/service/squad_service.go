package service

import (
	"mealmate_backend/internal/model"
	"mealmate_backend/internal/repository"
	"mealmate_backend/internal/util"
	"strings"
	"time"

	"gorm.io/gorm"
)

type SquadService struct {
	SquadRepo *repository.SquadRepository
	UserRepo  *repository.UserRepository
}

func NewSquadService(squadRepo *repository.SquadRepository, userRepo *repository.UserRepository) *SquadService {
	return &SquadService{
		SquadRepo: squadRepo,
		UserRepo:  userRepo,
	}
}

// Create 建团：名称非空、除创建者外至少一名成员，创建者强制入团
func (s *SquadService) Create(creatorID uint, name string, memberIDs []uint) (*model.Squad, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.NewAppError(util.KindInvalidInput, "InvalidInput", "饭团名称不能为空")
	}

	// 去重并排除创建者，余下即"其他成员"
	others := dedupeIDs(memberIDs, creatorID)
	if len(others) == 0 {
		return nil, util.NewAppError(util.KindInvalidInput, "InvalidInput", "至少需要一名其他成员")
	}

	existing, err := s.UserRepo.ExistingIDs(others)
	if err != nil {
		return nil, err
	}
	for _, uid := range others {
		if !existing[uid] {
			return nil, util.ErrUserNotFound
		}
	}

	if _, err := s.SquadRepo.FindByName(name); err == nil {
		return nil, util.ErrSquadNameTaken
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	squad := &model.Squad{
		Name:         name,
		CreatorID:    creatorID,
		LastActiveAt: time.Now(),
	}
	allMembers := append([]uint{creatorID}, others...)
	if err := s.SquadRepo.CreateWithMembers(squad, allMembers); err != nil {
		return nil, err
	}
	return s.SquadRepo.FindByID(squad.ID)
}

func (s *SquadService) Get(userID, squadID uint) (*model.Squad, error) {
	squad, err := s.SquadRepo.FindByID(squadID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSquadNotFound
		}
		return nil, err
	}
	isMember, err := s.SquadRepo.IsMember(squadID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, util.ErrNotSquadMember
	}
	return squad, nil
}

func (s *SquadService) ListMine(userID uint) ([]model.Squad, error) {
	return s.SquadRepo.ListByUser(userID)
}

// AddMember 仅现有成员可拉人
func (s *SquadService) AddMember(actorID, squadID, newMemberID uint) error {
	if _, err := s.findSquad(squadID); err != nil {
		return err
	}

	isMember, err := s.SquadRepo.IsMember(squadID, actorID)
	if err != nil {
		return err
	}
	if !isMember {
		return util.ErrNotSquadMember
	}

	if _, err := s.UserRepo.FindByID(newMemberID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrUserNotFound
		}
		return err
	}

	already, err := s.SquadRepo.IsMember(squadID, newMemberID)
	if err != nil {
		return err
	}
	if already {
		return util.ErrAlreadyMember
	}

	if err := s.SquadRepo.AddMember(squadID, newMemberID); err != nil {
		return err
	}
	return s.SquadRepo.TouchLastActive(squadID)
}

// RemoveMember 踢人或主动退团。
// 创建者在还有其他成员时不能退团（需先转让或解散）；
// 创建者作为最后一名成员退团时，整个饭团随之解散。
func (s *SquadService) RemoveMember(actorID, squadID, targetID uint) error {
	squad, err := s.findSquad(squadID)
	if err != nil {
		return err
	}

	selfLeave := actorID == targetID
	if !selfLeave && actorID != squad.CreatorID {
		return util.ErrNotSquadCreator
	}

	isMember, err := s.SquadRepo.IsMember(squadID, targetID)
	if err != nil {
		return err
	}
	if !isMember {
		return util.ErrNotSquadMember
	}

	if targetID == squad.CreatorID {
		count, err := s.SquadRepo.MemberCount(squadID)
		if err != nil {
			return err
		}
		if count > 1 {
			return util.ErrCreatorMustTransfer
		}
		// 最后一人离开，解散（终态）
		return s.SquadRepo.Delete(squadID)
	}

	if err := s.SquadRepo.RemoveMember(squadID, targetID); err != nil {
		return err
	}
	return s.SquadRepo.TouchLastActive(squadID)
}

// SquadPatch 元数据更新，仅白名单字段
type SquadPatch struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// UpdateMetadata 仅创建者可改
func (s *SquadService) UpdateMetadata(actorID, squadID uint, patch SquadPatch) error {
	squad, err := s.findSquad(squadID)
	if err != nil {
		return err
	}
	if actorID != squad.CreatorID {
		return util.ErrNotSquadCreator
	}

	values := map[string]interface{}{}
	if name := strings.TrimSpace(patch.Name); name != "" && name != squad.Name {
		if _, err := s.SquadRepo.FindByName(name); err == nil {
			return util.ErrSquadNameTaken
		} else if err != gorm.ErrRecordNotFound {
			return err
		}
		values["name"] = name
	}
	if patch.Avatar != "" {
		values["avatar"] = patch.Avatar
	}
	if len(values) == 0 {
		return nil
	}
	return s.SquadRepo.Updates(squadID, values)
}

// TransferOwnership 创建者把团转让给另一名成员
func (s *SquadService) TransferOwnership(actorID, squadID, newCreatorID uint) error {
	squad, err := s.findSquad(squadID)
	if err != nil {
		return err
	}
	if actorID != squad.CreatorID {
		return util.ErrNotSquadCreator
	}

	isMember, err := s.SquadRepo.IsMember(squadID, newCreatorID)
	if err != nil {
		return err
	}
	if !isMember {
		return util.ErrNotSquadMember
	}

	return s.SquadRepo.Updates(squadID, map[string]interface{}{"creator_id": newCreatorID})
}

// Delete 仅创建者可解散
func (s *SquadService) Delete(actorID, squadID uint) error {
	squad, err := s.findSquad(squadID)
	if err != nil {
		return err
	}
	if actorID != squad.CreatorID {
		return util.ErrNotSquadCreator
	}
	return s.SquadRepo.Delete(squadID)
}

func (s *SquadService) findSquad(squadID uint) (*model.Squad, error) {
	squad, err := s.SquadRepo.FindByID(squadID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSquadNotFound
		}
		return nil, err
	}
	return squad, nil
}

// dedupeIDs 去重并排除 exclude，保持原有顺序
func dedupeIDs(ids []uint, exclude uint) []uint {
	seen := make(map[uint]bool, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == exclude || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}
