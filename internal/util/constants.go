package util

import "time"

const DateFormat = "2006-01-02"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// Ping 默认值
const (
	DefaultPingMessage = "一起吃饭吗？"
	DefaultPingTTL     = 30 * time.Minute
)

// 开放饭局的可见窗口
const OpenMealWindow = 7 * 24 * time.Hour

// 头像上传限制
const (
	MimeImage     = "image/"
	MaxAvatarSize = 5 << 20
)
