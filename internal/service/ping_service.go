package service

import (
	"mealmate_backend/internal/model"
	"mealmate_backend/internal/repository"
	"mealmate_backend/internal/util"
	"strings"
	"time"

	"gorm.io/gorm"
)

type PingService struct {
	PingRepo  *repository.PingRepository
	SquadRepo *repository.SquadRepository
	UserRepo  *repository.UserRepository
}

func NewPingService(pingRepo *repository.PingRepository, squadRepo *repository.SquadRepository,
	userRepo *repository.UserRepository) *PingService {
	return &PingService{
		PingRepo:  pingRepo,
		SquadRepo: squadRepo,
		UserRepo:  userRepo,
	}
}

// CreatePingSpec 发起约饭广播的参数
type CreatePingSpec struct {
	Message      string
	ExpiresAt    *time.Time
	RecipientIDs []uint
	SquadIDs     []uint
}

// CreatePing 发起广播：直接接收人与饭团成员并集展开、去重、排除发起人。
// 消息与有效期缺省时使用默认值（固定问候语 + 30分钟）。
func (s *PingService) CreatePing(senderID uint, spec CreatePingSpec) (*model.Ping, error) {
	if len(spec.RecipientIDs) == 0 && len(spec.SquadIDs) == 0 {
		return nil, util.ErrNoPingTargets
	}

	squadIDs := dedupeIDs(spec.SquadIDs, 0)
	candidates := append([]uint{}, spec.RecipientIDs...)
	for _, squadID := range squadIDs {
		memberIDs, err := s.squadMemberIDs(squadID)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, memberIDs...)
	}
	recipientIDs := dedupeIDs(candidates, senderID)
	if len(recipientIDs) == 0 {
		return nil, util.ErrNoPingTargets
	}

	existing, err := s.UserRepo.ExistingIDs(recipientIDs)
	if err != nil {
		return nil, err
	}
	for _, uid := range recipientIDs {
		if !existing[uid] {
			return nil, util.ErrUserNotFound
		}
	}

	message := strings.TrimSpace(spec.Message)
	if message == "" {
		message = util.DefaultPingMessage
	}
	expiresAt := time.Now().Add(util.DefaultPingTTL)
	if spec.ExpiresAt != nil {
		expiresAt = *spec.ExpiresAt
	}

	ping := &model.Ping{
		SenderID:  senderID,
		Message:   message,
		ExpiresAt: expiresAt,
		Status:    model.PingActive,
	}
	if err := s.PingRepo.CreateWithTargets(ping, recipientIDs, squadIDs); err != nil {
		return nil, err
	}
	return s.PingRepo.FindByID(ping.ID)
}

// ListActive 对我可见且未失效、未响应过的广播；过期判断在读取时完成
func (s *PingService) ListActive(userID uint) ([]model.Ping, error) {
	return s.PingRepo.ListActive(userID, time.Now())
}

// Respond 接受或拒绝，单人单次，终态
func (s *PingService) Respond(userID, pingID uint, response string) error {
	if response != model.PingAccept && response != model.PingDecline {
		return util.NewAppError(util.KindInvalidInput, "InvalidInput", "无效的响应类型")
	}
	return s.recordResponse(userID, pingID, response)
}

// Dismiss 忽略：与接受/拒绝同样计为响应，仅用于不再提示
func (s *PingService) Dismiss(userID, pingID uint) error {
	return s.recordResponse(userID, pingID, model.PingDismiss)
}

func (s *PingService) recordResponse(userID, pingID uint, response string) error {
	ping, err := s.findPing(pingID)
	if err != nil {
		return err
	}
	if ping.Expired(time.Now()) {
		return util.ErrPingExpired
	}

	visible, err := s.canSee(pingID, userID)
	if err != nil {
		return err
	}
	if !visible {
		return util.ErrNotPingRecipient
	}

	if _, err := s.PingRepo.GetResponse(pingID, userID); err == nil {
		return util.ErrAlreadyResponded
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	return s.PingRepo.CreateResponse(&model.PingResponse{
		PingID:      pingID,
		UserID:      userID,
		Response:    response,
		RespondedAt: time.Now(),
	})
}

// Cancel 仅发起人可取消，已失效的不能再取消
func (s *PingService) Cancel(senderID, pingID uint) error {
	ping, err := s.findPing(pingID)
	if err != nil {
		return err
	}
	if ping.SenderID != senderID {
		return util.ErrNotPingSender
	}
	if ping.Expired(time.Now()) {
		return util.ErrPingExpired
	}
	return s.PingRepo.UpdateStatus(pingID, model.PingCancelled)
}

func (s *PingService) findPing(pingID uint) (*model.Ping, error) {
	ping, err := s.PingRepo.FindByID(pingID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrPingNotFound
		}
		return nil, err
	}
	return ping, nil
}

func (s *PingService) canSee(pingID, userID uint) (bool, error) {
	direct, err := s.PingRepo.IsRecipient(pingID, userID)
	if err != nil {
		return false, err
	}
	if direct {
		return true, nil
	}
	return s.PingRepo.IsSquadTarget(pingID, userID)
}

func (s *PingService) squadMemberIDs(squadID uint) ([]uint, error) {
	if _, err := s.SquadRepo.FindByID(squadID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSquadNotFound
		}
		return nil, err
	}
	return s.SquadRepo.MemberIDs(squadID)
}
