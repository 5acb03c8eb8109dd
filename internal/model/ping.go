package model

import "time"

const (
	PingActive    = "active"
	PingCancelled = "cancelled"
)

// 每个接收者至多响应一次，三种响应均为终态
const (
	PingAccept  = "accept"
	PingDecline = "decline"
	PingDismiss = "dismiss"
)

// Ping 临时约饭广播，到期后惰性失效（读取时判断，不做后台清扫）
type Ping struct {
	BaseModel
	SenderID   uint            `gorm:"index;not null" json:"senderId"`
	Sender     User            `gorm:"foreignKey:SenderID;references:ID;constraint:false" json:"sender,omitempty"`
	Message    string          `gorm:"size:255" json:"message"`
	ExpiresAt  time.Time       `gorm:"index;not null" json:"expiresAt"`
	Status     string          `gorm:"size:16;default:'active'" json:"status"`
	Recipients []PingRecipient `gorm:"foreignKey:PingID" json:"recipients,omitempty"`
	SquadRefs  []PingSquadRef  `gorm:"foreignKey:PingID" json:"squadRefs,omitempty"`
	Responses  []PingResponse  `gorm:"foreignKey:PingID" json:"responses,omitempty"`
}

func (Ping) TableName() string {
	return "pings"
}

// Expired 是否已失效（取消或过期）
func (p *Ping) Expired(now time.Time) bool {
	return p.Status != PingActive || !now.Before(p.ExpiresAt)
}

// PingRecipient 创建时由直接接收人与饭团成员并集展开，去重后落表
type PingRecipient struct {
	ID     uint `gorm:"primaryKey;autoIncrement" json:"id"`
	PingID uint `gorm:"uniqueIndex:idx_ping_recipient;not null" json:"pingId"`
	UserID uint `gorm:"uniqueIndex:idx_ping_recipient;not null" json:"userId"`
}

func (PingRecipient) TableName() string {
	return "ping_recipients"
}

// PingSquadRef 引用的饭团，仅作展示与可见性判断
type PingSquadRef struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	PingID  uint `gorm:"uniqueIndex:idx_ping_squad;not null" json:"pingId"`
	SquadID uint `gorm:"uniqueIndex:idx_ping_squad;not null" json:"squadId"`
}

func (PingSquadRef) TableName() string {
	return "ping_squad_refs"
}

// PingResponse (ping, user) 唯一，保证至多响应一次
type PingResponse struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PingID      uint      `gorm:"uniqueIndex:idx_ping_response;not null" json:"pingId"`
	UserID      uint      `gorm:"uniqueIndex:idx_ping_response;not null" json:"userId"`
	Response    string    `gorm:"size:16;not null" json:"response"`
	RespondedAt time.Time `json:"respondedAt"`
}

func (PingResponse) TableName() string {
	return "ping_responses"
}
