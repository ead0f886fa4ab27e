package authapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"katydid-common-auth/pkg/authsvc"
)

// gin 上下文里存放会话信息的键
const (
	ctxKeyToken  = "auth_token"
	ctxKeyClaims = "auth_claims"
)

// RequireSession 会话校验中间件
//
// 从 Authorization 头解析 Bearer 令牌，校验通过后把令牌和
// 声明信息放进请求上下文，否则以 401 中断。
func RequireSession(sessions *authsvc.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Message: msgUnauthorized})
			return
		}
		claims, err := sessions.Validate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Message: msgUnauthorized})
			return
		}
		c.Set(ctxKeyToken, token)
		c.Set(ctxKeyClaims, claims)
		c.Next()
	}
}

// AccessLog 请求访问日志中间件
func AccessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client", c.ClientIP()),
		)
	}
}

// bearerToken 从 Authorization 头提取 Bearer 令牌
func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// mustClaims 取出中间件放入的会话声明，只能在 RequireSession 之后调用
func mustClaims(c *gin.Context) *authsvc.Claims {
	return c.MustGet(ctxKeyClaims).(*authsvc.Claims)
}
