package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPObserver 記錄 HTTP 指標
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// Metrics 指標中間件，route 為註冊的路由樣板
func Metrics(observer HTTPObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		observer.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
