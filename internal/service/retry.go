package service

import (
	"errors"
	"mealmate_backend/internal/util"

	"gorm.io/gorm"
)

// 事务型写入的有界重试次数
const maxTxRetries = 3

// withTxRetry 对事务性写入做有界重试，吸收偶发的死锁/写冲突。
// 业务错误与记录缺失不重试，原样返回。
func withTxRetry(fn func() error) error {
	var err error
	for i := 0; i < maxTxRetries; i++ {
		err = fn()
		if err == nil {
			return nil
		}
		var appErr *util.AppError
		if errors.As(err, &appErr) || errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return err
}
