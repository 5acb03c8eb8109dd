package controller

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// 持久层调用统一超时
const persistenceTimeout = 10 * time.Second

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), persistenceTimeout)
}
