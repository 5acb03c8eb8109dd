package repository

import (
	"mealmate_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SquadRepository struct {
	DB *gorm.DB
}

func NewSquadRepository(db *gorm.DB) *SquadRepository {
	return &SquadRepository{DB: db}
}

// CreateWithMembers 建团并写入全部成员，同一事务
func (r *SquadRepository) CreateWithMembers(squad *model.Squad, memberIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(squad).Error; err != nil {
			return err
		}
		for _, uid := range memberIDs {
			if err := tx.Create(&model.SquadMember{SquadID: squad.ID, UserID: uid}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SquadRepository) FindByID(id uint) (*model.Squad, error) {
	var squad model.Squad
	err := r.DB.Preload("Members.User").First(&squad, id).Error
	if err != nil {
		return nil, err
	}
	return &squad, nil
}

func (r *SquadRepository) FindByName(name string) (*model.Squad, error) {
	var squad model.Squad
	err := r.DB.Where("name = ?", name).First(&squad).Error
	if err != nil {
		return nil, err
	}
	return &squad, nil
}

func (r *SquadRepository) IsMember(squadID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.SquadMember{}).
		Where("squad_id = ? AND user_id = ?", squadID, userID).
		Count(&count).Error
	return count > 0, err
}

// MemberIDs 饭团全部成员ID
func (r *SquadRepository) MemberIDs(squadID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.SquadMember{}).
		Where("squad_id = ?", squadID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *SquadRepository) MemberCount(squadID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.SquadMember{}).
		Where("squad_id = ?", squadID).
		Count(&count).Error
	return count, err
}

func (r *SquadRepository) AddMember(squadID, userID uint) error {
	return r.DB.Create(&model.SquadMember{SquadID: squadID, UserID: userID}).Error
}

func (r *SquadRepository) RemoveMember(squadID, userID uint) error {
	return r.DB.Where("squad_id = ? AND user_id = ?", squadID, userID).
		Delete(&model.SquadMember{}).Error
}

func (r *SquadRepository) Updates(id uint, values map[string]interface{}) error {
	return r.DB.Model(&model.Squad{}).Where("id = ?", id).Updates(values).Error
}

func (r *SquadRepository) TouchLastActive(id uint) error {
	return r.DB.Model(&model.Squad{}).Where("id = ?", id).
		Update("last_active_at", time.Now()).Error
}

// Delete 解散饭团：成员行与团记录同一事务删除。
// 硬删除，解散后团名可复用。
func (r *SquadRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("squad_id = ?", id).Delete(&model.SquadMember{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Squad{}, id).Error
	})
}

// ListByUser 我加入的所有饭团
func (r *SquadRepository) ListByUser(userID uint) ([]model.Squad, error) {
	var squads []model.Squad
	err := r.DB.Preload("Members.User").
		Joins("JOIN squad_members ON squad_members.squad_id = squads.id").
		Where("squad_members.user_id = ?", userID).
		Order("squads.last_active_at DESC").
		Find(&squads).Error
	return squads, err
}
