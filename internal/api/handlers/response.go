// Package handlers 提供 HTTP 處理器共用的回應工具
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"nutritrack/internal/infrastructure/config"
	"nutritrack/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ConfigKey 路由注入設定時使用的 context key
const ConfigKey = "config"

// debugEnabled 是否在錯誤回應中附上細節
func debugEnabled(c *gin.Context) bool {
	v, ok := c.Get(ConfigKey)
	if !ok {
		return false
	}
	cfg, ok := v.(*config.Config)
	return ok && cfg.App.Debug
}

// RespondError 將錯誤轉為 ErrorResponse 並記錄
func RespondError(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		err = common.ErrGatewayTimeout.Wrap(err)
	}
	status, resp := common.ToResponse(err, debugEnabled(c))

	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
	}
	if status >= http.StatusInternalServerError {
		common.LogError("Request failed", fields...)
	} else {
		common.LogDebug("Request rejected", fields...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

// BindJSON 解析請求體，格式錯誤轉為驗證錯誤
func BindJSON(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return common.NewError("REQUEST_TOO_LARGE", "request body too large", http.StatusRequestEntityTooLarge, err)
		case errors.Is(err, io.EOF):
			return common.NewValidationError("request body is required")
		default:
			return common.NewValidationError("invalid request format: " + err.Error())
		}
	}
	return nil
}
