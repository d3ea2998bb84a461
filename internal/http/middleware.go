package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"bloodconnect/internal/session"
)

const (
	sessionCookie = "session_token"
	cartCookie    = "cart_session"

	ctxSessionKey = "session"
	ctxCartKey    = "cart_session_id"
)

// requestLogger пишет в zap метод, путь, статус и длительность запроса
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// sessionToken достаёт токен из cookie либо из Authorization: Bearer
func sessionToken(c *gin.Context) string {
	if v, err := c.Cookie(sessionCookie); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// requireAuth пускает дальше только авторизованных; иначе 401
func (s *Server) requireAuth(c *gin.Context) {
	sess, err := s.auth.CurrentUser(c, sessionToken(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}
	c.Set(ctxSessionKey, sess)
	c.Next()
}

// requireAdmin охраняет админские маршруты. Неавторизованных и
// не-администраторов уводит редиректом на публичный корень, без тела ошибки.
func (s *Server) requireAdmin(c *gin.Context) {
	sess, err := s.auth.CurrentUser(c, sessionToken(c))
	if err != nil || !s.auth.IsAdmin(sess.Email) {
		c.Redirect(http.StatusFound, "/")
		c.Abort()
		return
	}
	c.Set(ctxSessionKey, sess)
	c.Next()
}

// cartSession гарантирует cookie с id корзины для текущего браузера
func (s *Server) cartSession(c *gin.Context) {
	id, err := c.Cookie(cartCookie)
	if err != nil || id == "" {
		id = uuid.NewString()
		c.SetCookie(cartCookie, id, 0, "/", "", false, true)
	}
	c.Set(ctxCartKey, id)
	c.Next()
}

func currentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(ctxSessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
