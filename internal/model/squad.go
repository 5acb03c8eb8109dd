package model

import "time"

// Squad 饭团（固定吃饭小组）
type Squad struct {
	BaseModel
	Name         string        `gorm:"size:100;unique;not null" json:"name"`
	CreatorID    uint          `gorm:"index;not null" json:"creatorId"`
	Avatar       string        `gorm:"size:255" json:"avatar"`
	LastActiveAt time.Time     `json:"lastActiveAt"`
	Members      []SquadMember `gorm:"foreignKey:SquadID" json:"members,omitempty"`
}

func (Squad) TableName() string {
	return "squads"
}

// SquadMember 饭团成员，(squad, user) 唯一，硬删除
type SquadMember struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SquadID   uint      `gorm:"uniqueIndex:idx_squad_user;not null" json:"squadId"`
	UserID    uint      `gorm:"uniqueIndex:idx_squad_user;not null" json:"userId"`
	User      User      `gorm:"foreignKey:UserID;references:ID;constraint:false" json:"user,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (SquadMember) TableName() string {
	return "squad_members"
}
