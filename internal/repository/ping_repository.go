package repository

import (
	"mealmate_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type PingRepository struct {
	DB *gorm.DB
}

func NewPingRepository(db *gorm.DB) *PingRepository {
	return &PingRepository{DB: db}
}

// CreateWithTargets 写入广播及其接收人、饭团引用，同一事务
func (r *PingRepository) CreateWithTargets(ping *model.Ping, recipientIDs []uint, squadIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ping).Error; err != nil {
			return err
		}
		for _, uid := range recipientIDs {
			if err := tx.Create(&model.PingRecipient{PingID: ping.ID, UserID: uid}).Error; err != nil {
				return err
			}
		}
		for _, sid := range squadIDs {
			if err := tx.Create(&model.PingSquadRef{PingID: ping.ID, SquadID: sid}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PingRepository) FindByID(id uint) (*model.Ping, error) {
	var ping model.Ping
	err := r.DB.Preload("Recipients").Preload("SquadRefs").Preload("Responses").
		First(&ping, id).Error
	if err != nil {
		return nil, err
	}
	return &ping, nil
}

// ListActive 对 userID 可见且未失效、未响应过的广播。
// 可见 = 在接收人名单中，或属于被引用饭团的现任成员。
func (r *PingRepository) ListActive(userID uint, now time.Time) ([]model.Ping, error) {
	var pings []model.Ping

	direct := r.DB.Model(&model.PingRecipient{}).
		Select("ping_id").
		Where("user_id = ?", userID)

	viaSquad := r.DB.Model(&model.PingSquadRef{}).
		Select("ping_squad_refs.ping_id").
		Joins("JOIN squad_members ON squad_members.squad_id = ping_squad_refs.squad_id").
		Where("squad_members.user_id = ?", userID)

	responded := r.DB.Model(&model.PingResponse{}).
		Select("ping_id").
		Where("user_id = ?", userID)

	err := r.DB.Preload("Sender").Preload("Responses").
		Where("status = ?", model.PingActive).
		Where("expires_at > ?", now).
		Where("id IN (?) OR id IN (?)", direct, viaSquad).
		Where("id NOT IN (?)", responded).
		Order("expires_at ASC").
		Find(&pings).Error
	return pings, err
}

func (r *PingRepository) GetResponse(pingID, userID uint) (*model.PingResponse, error) {
	var resp model.PingResponse
	err := r.DB.Where("ping_id = ? AND user_id = ?", pingID, userID).First(&resp).Error
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *PingRepository) CreateResponse(resp *model.PingResponse) error {
	return r.DB.Create(resp).Error
}

func (r *PingRepository) UpdateStatus(id uint, status string) error {
	return r.DB.Model(&model.Ping{}).Where("id = ?", id).Update("status", status).Error
}

func (r *PingRepository) IsRecipient(pingID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.PingRecipient{}).
		Where("ping_id = ? AND user_id = ?", pingID, userID).
		Count(&count).Error
	return count > 0, err
}

// IsSquadTarget 是否属于该广播引用的某个饭团
func (r *PingRepository) IsSquadTarget(pingID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.PingSquadRef{}).
		Joins("JOIN squad_members ON squad_members.squad_id = ping_squad_refs.squad_id").
		Where("ping_squad_refs.ping_id = ? AND squad_members.user_id = ?", pingID, userID).
		Count(&count).Error
	return count > 0, err
}
