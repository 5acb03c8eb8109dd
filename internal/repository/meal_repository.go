package repository

import (
	"mealmate_backend/internal/model"

	"gorm.io/gorm"
)

type MealRepository struct {
	DB *gorm.DB
}

func NewMealRepository(db *gorm.DB) *MealRepository {
	return &MealRepository{DB: db}
}

func (r *MealRepository) FindByID(id uint) (*model.Meal, error) {
	var meal model.Meal
	err := r.DB.Preload("Participants.User").Preload("SquadInvites.Squad").
		First(&meal, id).Error
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

// ConflictExists 同日同餐别下，候选参与者（含发起人）是否已有饭局。
// 既有饭局的发起人同样计入对比集合。
func (r *MealRepository) ConflictExists(db *gorm.DB, date string, mealType model.MealType, userIDs []uint) (bool, error) {
	if len(userIDs) == 0 {
		return false, nil
	}

	participantMeals := db.Session(&gorm.Session{NewDB: true}).
		Model(&model.MealParticipant{}).
		Select("meal_id").
		Where("user_id IN ?", userIDs)

	var count int64
	err := db.Model(&model.Meal{}).
		Where("date = ? AND meal_type = ?", date, mealType).
		Where("host_id IN ? OR id IN (?)", userIDs, participantMeals).
		Count(&count).Error
	return count > 0, err
}

func (r *MealRepository) Create(db *gorm.DB, meal *model.Meal) error {
	return db.Create(meal).Error
}

func (r *MealRepository) GetParticipant(mealID, userID uint) (*model.MealParticipant, error) {
	var p model.MealParticipant
	err := r.DB.Where("meal_id = ? AND user_id = ?", mealID, userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MealRepository) CreateParticipant(p *model.MealParticipant) error {
	return r.DB.Create(p).Error
}

func (r *MealRepository) UpdateParticipantStatus(mealID, userID uint, status string) error {
	return r.DB.Model(&model.MealParticipant{}).
		Where("meal_id = ? AND user_id = ?", mealID, userID).
		Update("status", status).Error
}

func (r *MealRepository) GetSquadInvite(mealID, squadID uint) (*model.MealSquadInvite, error) {
	var inv model.MealSquadInvite
	err := r.DB.Where("meal_id = ? AND squad_id = ?", mealID, squadID).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ConfirmSquadInvite 确认整团邀请并级联确认团内参与者，同一事务。
// 部分失败会整体回滚，不会出现一半确认一半未确认。
func (r *MealRepository) ConfirmSquadInvite(mealID, squadID uint, memberIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.MealSquadInvite{}).
			Where("meal_id = ? AND squad_id = ?", mealID, squadID).
			Update("status", model.StatusConfirmed).Error; err != nil {
			return err
		}
		if len(memberIDs) == 0 {
			return nil
		}
		return tx.Model(&model.MealParticipant{}).
			Where("meal_id = ? AND user_id IN ?", mealID, memberIDs).
			Update("status", model.StatusConfirmed).Error
	})
}

func (r *MealRepository) UpdateSquadInviteStatus(mealID, squadID uint, status string) error {
	return r.DB.Model(&model.MealSquadInvite{}).
		Where("meal_id = ? AND squad_id = ?", mealID, squadID).
		Update("status", status).Error
}

// FindOpenMeals 好友发起、开放加入、未参与、未来七天内的饭局，按日期升序
func (r *MealRepository) FindOpenMeals(userID uint, friendIDs []uint, fromDate, toDate string) ([]model.Meal, error) {
	var meals []model.Meal
	if len(friendIDs) == 0 {
		return meals, nil
	}

	joinedMeals := r.DB.Model(&model.MealParticipant{}).
		Select("meal_id").
		Where("user_id = ?", userID)

	err := r.DB.Preload("Participants").Preload("Host").
		Where("host_id IN ?", friendIDs).
		Where("is_open_to_join = ?", true).
		Where("date >= ? AND date <= ?", fromDate, toDate).
		Where("id NOT IN (?)", joinedMeals).
		Order("date ASC, time_slot ASC").
		Find(&meals).Error
	return meals, err
}

// ListByUser 我发起或参与的饭局（日程视图）
func (r *MealRepository) ListByUser(userID uint) ([]model.Meal, error) {
	var meals []model.Meal
	joinedMeals := r.DB.Model(&model.MealParticipant{}).
		Select("meal_id").
		Where("user_id = ?", userID)

	err := r.DB.Preload("Participants.User").Preload("SquadInvites.Squad").
		Where("host_id = ? OR id IN (?)", userID, joinedMeals).
		Order("date ASC").
		Find(&meals).Error
	return meals, err
}

// Delete 删除饭局及其参与者与整团邀请记录，同一事务
func (r *MealRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_id = ?", id).Delete(&model.MealParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("meal_id = ?", id).Delete(&model.MealSquadInvite{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Meal{}, id).Error
	})
}
