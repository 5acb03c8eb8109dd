package model

import (
	"time"
)

// 位置为空串表示离线，否则为地点标识（食堂/餐厅编号）
const LocationOffline = ""

// swagger:model User
type User struct {
	BaseModel
	Name              string     `gorm:"size:100;not null" json:"name"`
	Email             string     `gorm:"size:100;unique;not null" json:"email"`
	Password          string     `gorm:"size:100;not null" json:"-"`
	Avatar            string     `gorm:"size:255" json:"avatar"`
	Bio               string     `gorm:"size:255" json:"bio"`
	Location          string     `gorm:"size:100" json:"location"`
	LocationUpdatedAt *time.Time `json:"locationUpdatedAt"`
	LastSeen          time.Time  `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// PublicUser 对外可见的最小用户投影（好友搜索等）
type PublicUser struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}
