package model

import "time"

// TimeSlot 固定的用餐时段，非自由时间
type TimeSlot string

// MealType 由时段推导出的餐别，冲突检测按餐别聚合
type MealType string

const (
	SlotBreakfast   TimeSlot = "breakfast"
	SlotLunchEarly  TimeSlot = "lunch_early"
	SlotLunchLate   TimeSlot = "lunch_late"
	SlotDinnerEarly TimeSlot = "dinner_early"
	SlotDinnerLate  TimeSlot = "dinner_late"
)

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// 时段开始时间（时, 分）
var slotStart = map[TimeSlot][2]int{
	SlotBreakfast:   {8, 0},
	SlotLunchEarly:  {11, 30},
	SlotLunchLate:   {13, 0},
	SlotDinnerEarly: {18, 0},
	SlotDinnerLate:  {19, 30},
}

var slotMealType = map[TimeSlot]MealType{
	SlotBreakfast:   MealBreakfast,
	SlotLunchEarly:  MealLunch,
	SlotLunchLate:   MealLunch,
	SlotDinnerEarly: MealDinner,
	SlotDinnerLate:  MealDinner,
}

func (s TimeSlot) Valid() bool {
	_, ok := slotMealType[s]
	return ok
}

func (s TimeSlot) MealType() MealType {
	return slotMealType[s]
}

// StartTime 拼出该时段在给定日期的开始时刻，date 为 "2006-01-02"
func (s TimeSlot) StartTime(date string) time.Time {
	d, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}
	}
	hm := slotStart[s]
	return time.Date(d.Year(), d.Month(), d.Day(), hm[0], hm[1], 0, 0, time.Local)
}

// 参与者/饭团邀请状态机：invited → confirmed | declined，均为终态
const (
	StatusInvited   = "invited"
	StatusConfirmed = "confirmed"
	StatusDeclined  = "declined"
)

// Meal 一次约饭
type Meal struct {
	BaseModel
	Name         string            `gorm:"size:100;not null" json:"name"`
	HostID       uint              `gorm:"index;not null" json:"hostId"`
	Host         User              `gorm:"foreignKey:HostID;references:ID;constraint:false" json:"host,omitempty"`
	Date         string            `gorm:"size:10;index;not null" json:"date"`
	TimeSlot     TimeSlot          `gorm:"size:16;not null" json:"timeSlot"`
	MealType     MealType          `gorm:"size:16;index;not null" json:"mealType"`
	Location     string            `gorm:"size:100" json:"location"`
	IsOpenToJoin bool              `gorm:"default:false" json:"isOpenToJoin"`
	Participants []MealParticipant `gorm:"foreignKey:MealID" json:"participants,omitempty"`
	SquadInvites []MealSquadInvite `gorm:"foreignKey:MealID" json:"squadInvites,omitempty"`
}

func (Meal) TableName() string {
	return "meals"
}

// StartTime 饭局开始时刻
func (m *Meal) StartTime() time.Time {
	return m.TimeSlot.StartTime(m.Date)
}

// MealParticipant 饭局参与者，(meal, user) 唯一；发起人不入表，视为默认确认
type MealParticipant struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MealID    uint      `gorm:"uniqueIndex:idx_meal_user;not null" json:"mealId"`
	UserID    uint      `gorm:"uniqueIndex:idx_meal_user;not null" json:"userId"`
	User      User      `gorm:"foreignKey:UserID;references:ID;constraint:false" json:"user,omitempty"`
	Status    string    `gorm:"size:16;default:'invited'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (MealParticipant) TableName() string {
	return "meal_participants"
}

// MealSquadInvite 整团邀请记录，确认时级联确认团内参与者
type MealSquadInvite struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MealID    uint      `gorm:"uniqueIndex:idx_meal_squad;not null" json:"mealId"`
	SquadID   uint      `gorm:"uniqueIndex:idx_meal_squad;not null" json:"squadId"`
	Squad     Squad     `gorm:"foreignKey:SquadID;references:ID;constraint:false" json:"squad,omitempty"`
	Status    string    `gorm:"size:16;default:'invited'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (MealSquadInvite) TableName() string {
	return "meal_squad_invites"
}
