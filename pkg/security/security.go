package security

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// CORS permite apenas origens da lista branca, com suporte a credenciais.
// A lista é consultada a cada requisição, então recarga de configuração
// vale imediatamente.
func CORS(allowedOrigins func() []string) gin.HandlerFunc {
	allowed := func(origin string) bool {
		for _, o := range allowedOrigins() {
			if o == origin {
				return true
			}
		}
		return false
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && allowed(origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// Secure adiciona cabeçalhos de proteção padrão.
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Anti MIME sniffing
		c.Header("X-Content-Type-Options", "nosniff")
		// Anti clickjacking
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		c.Next()
	}
}

// visitor guarda o limitador e o último acesso, para limpeza periódica.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limita requisições por IP e expira entradas ociosas.
// Os limites vêm de um accessor consultado a cada requisição; quando
// mudam, os limitadores existentes são descartados e recriados.
func RateLimiter(limits func() (maxRequests int, window time.Duration)) gin.HandlerFunc {
	store := make(map[string]*visitor)
	var mu sync.Mutex
	curMax, curWindow := limits()

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			expiry := curWindow * 3
			if expiry < time.Minute {
				expiry = time.Minute
			}
			for ip, v := range store {
				if time.Since(v.lastSeen) > expiry {
					delete(store, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		key := c.ClientIP()
		maxRequests, window := limits()

		mu.Lock()
		if maxRequests != curMax || window != curWindow {
			curMax, curWindow = maxRequests, window
			store = make(map[string]*visitor)
		}
		v, exists := store[key]
		if !exists {
			v = &visitor{
				limiter: rate.NewLimiter(rate.Every(window/time.Duration(maxRequests)), maxRequests),
			}
			store[key] = v
		}
		v.lastSeen = time.Now()
		mu.Unlock()

		if !v.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
