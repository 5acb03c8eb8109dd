package service

import (
	"mealmate_backend/internal/model"
	"mealmate_backend/internal/repository"
	"mealmate_backend/internal/util"

	"gorm.io/gorm"
)

type FriendshipService struct {
	FriendRepo *repository.FriendshipRepository
	UserRepo   *repository.UserRepository
}

func NewFriendshipService(friendRepo *repository.FriendshipRepository, userRepo *repository.UserRepository) *FriendshipService {
	return &FriendshipService{
		FriendRepo: friendRepo,
		UserRepo:   userRepo,
	}
}

// SearchByContact 按邮箱/昵称模糊搜索用户，只返回公开投影
func (s *FriendshipService) SearchByContact(query string) ([]model.PublicUser, error) {
	users, err := s.UserRepo.SearchByContact(query)
	if err != nil {
		return nil, err
	}
	result := make([]model.PublicUser, 0, len(users))
	for i := range users {
		result = append(result, users[i].Public())
	}
	return result, nil
}

// SendRequest 发送好友申请。
// 自己加自己、重复申请、已是好友均拒绝；同一接收者下同一发送者至多一条待处理申请。
func (s *FriendshipService) SendRequest(senderID, receiverID uint, message string) error {
	if senderID == receiverID {
		return util.ErrSelfReference
	}

	if _, err := s.UserRepo.FindByID(receiverID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrUserNotFound
		}
		return err
	}

	isFriend, err := s.FriendRepo.IsFriend(senderID, receiverID)
	if err != nil {
		return err
	}
	if isFriend {
		return util.ErrAlreadyFriends
	}

	if _, err := s.FriendRepo.GetPendingRequest(senderID, receiverID); err == nil {
		return util.ErrDuplicateRequest
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	return s.FriendRepo.CreateRequest(&model.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    message,
		Status:     model.RequestPending,
	})
}

// AcceptRequest 同意申请：申请状态翻转与双向好友边写入在同一事务内完成。
// 重复同意（客户端重试）会因申请不再处于待处理态而返回 RequestNotFound。
func (s *FriendshipService) AcceptRequest(receiverID, senderID uint) error {
	req, err := s.FriendRepo.GetPendingRequest(senderID, receiverID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrRequestNotFound
		}
		return err
	}

	err = withTxRetry(func() error {
		return s.FriendRepo.AcceptRequest(req)
	})
	if err == gorm.ErrRecordNotFound {
		return util.ErrRequestNotFound
	}
	return err
}

// DeclineRequest 拒绝申请，不建立任何好友边
func (s *FriendshipService) DeclineRequest(receiverID, senderID uint) error {
	req, err := s.FriendRepo.GetPendingRequest(senderID, receiverID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrRequestNotFound
		}
		return err
	}
	return s.FriendRepo.UpdateRequestStatus(req.ID, model.RequestRejected)
}

func (s *FriendshipService) GetFriends(userID uint, query string) ([]model.PublicUser, error) {
	friends, err := s.FriendRepo.GetFriends(userID, query)
	if err != nil {
		return nil, err
	}
	result := make([]model.PublicUser, 0, len(friends))
	for i := range friends {
		result = append(result, friends[i].Public())
	}
	return result, nil
}

func (s *FriendshipService) GetPendingRequests(userID uint) ([]model.FriendRequest, error) {
	return s.FriendRepo.GetPendingRequests(userID)
}

// RemoveFriend 删除好友，双向边同一事务删除
func (s *FriendshipService) RemoveFriend(userID, friendID uint) error {
	isFriend, err := s.FriendRepo.IsFriend(userID, friendID)
	if err != nil {
		return err
	}
	if !isFriend {
		return util.ErrNotFriends
	}
	return s.FriendRepo.DeleteFriendship(userID, friendID)
}

// SetLocationVisibility 控制本人位置对某好友是否可见
func (s *FriendshipService) SetLocationVisibility(userID, friendID uint, visible bool) error {
	ok, err := s.FriendRepo.SetLocationVisibility(userID, friendID, visible)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotFriends
	}
	return nil
}
