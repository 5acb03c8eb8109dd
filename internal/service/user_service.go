package service

import (
	"context"
	"fmt"
	"mealmate_backend/internal/config"
	"mealmate_backend/internal/model"
	"mealmate_backend/internal/repository"
	"mealmate_backend/internal/util"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo   *repository.UserRepository
	FriendRepo *repository.FriendshipRepository
	Redis      *redis.Client
	Cfg        *config.Config
	ctx        context.Context
}

func NewUserService(userRepo *repository.UserRepository, friendRepo *repository.FriendshipRepository,
	rdb *redis.Client, cfg *config.Config) *UserService {
	return &UserService{
		UserRepo:   userRepo,
		FriendRepo: friendRepo,
		Redis:      rdb,
		Cfg:        cfg,
		ctx:        context.Background(),
	}
}

func (s *UserService) GetByID(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ProfilePatch 资料更新，仅白名单字段
type ProfilePatch struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

func (s *UserService) UpdateProfile(userID uint, patch ProfilePatch) error {
	values := map[string]interface{}{}
	if name := strings.TrimSpace(patch.Name); name != "" {
		values["name"] = name
	}
	if patch.Bio != "" {
		values["bio"] = patch.Bio
	}
	if len(values) == 0 {
		return nil
	}
	return s.UserRepo.Updates(userID, values)
}

func (s *UserService) UpdateAvatar(userID uint, url string) error {
	return s.UserRepo.Updates(userID, map[string]interface{}{"avatar": url})
}

func locationCacheKey(userID uint) string {
	return fmt.Sprintf("location:user:%d", userID)
}

func (s *UserService) freshness() time.Duration {
	return time.Duration(s.Cfg.Location.FreshnessMinutes) * time.Minute
}

// UpdateLocation 上报当前位置，空串表示下线。
// 同时写库与Redis，Redis键的TTL即位置有效窗口。
func (s *UserService) UpdateLocation(userID uint, location string) error {
	now := time.Now()
	err := s.UserRepo.Updates(userID, map[string]interface{}{
		"location":            location,
		"location_updated_at": now,
	})
	if err != nil {
		return err
	}

	if s.Redis != nil {
		key := locationCacheKey(userID)
		if location == model.LocationOffline {
			s.Redis.Del(s.ctx, key)
		} else {
			s.Redis.Set(s.ctx, key, location, s.freshness())
		}
	}
	return nil
}

// FriendLocation 地图视图里一个好友的位置
type FriendLocation struct {
	UserID    uint      `json:"userId"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Location  string    `json:"location"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GetFriendLocations 向我公开位置且位置仍然新鲜的好友。
// 过期在读取时判断，不做后台清扫；Redis命中则以缓存为准。
func (s *UserService) GetFriendLocations(userID uint) ([]FriendLocation, error) {
	friends, err := s.FriendRepo.VisibleFriends(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := make([]FriendLocation, 0, len(friends))
	for i := range friends {
		f := &friends[i]

		if s.Redis != nil {
			if loc, err := s.Redis.Get(s.ctx, locationCacheKey(f.ID)).Result(); err == nil && loc != "" {
				updatedAt := now
				if f.LocationUpdatedAt != nil {
					updatedAt = *f.LocationUpdatedAt
				}
				result = append(result, FriendLocation{
					UserID: f.ID, Name: f.Name, Avatar: f.Avatar,
					Location: loc, UpdatedAt: updatedAt,
				})
				continue
			}
		}

		if f.Location == model.LocationOffline || f.LocationUpdatedAt == nil {
			continue
		}
		if now.Sub(*f.LocationUpdatedAt) > s.freshness() {
			continue
		}
		result = append(result, FriendLocation{
			UserID: f.ID, Name: f.Name, Avatar: f.Avatar,
			Location: f.Location, UpdatedAt: *f.LocationUpdatedAt,
		})
	}
	return result, nil
}
