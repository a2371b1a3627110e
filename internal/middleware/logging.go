package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoggingMiddleware logs HTTP requests and responses
func LoggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		var userID string
		if param.Keys != nil {
			if uid, exists := param.Keys["user_id"]; exists {
				if id, ok := uid.(uuid.UUID); ok {
					userID = id.String()
				}
			}
		}

		logger.Info("HTTP Request",
			zap.String("method", param.Method),
			zap.String("path", param.Path),
			zap.Int("status", param.StatusCode),
			zap.Duration("latency", param.Latency),
			zap.String("client_ip", param.ClientIP),
			zap.String("user_agent", param.Request.UserAgent()),
			zap.String("user_id", userID),
			zap.Int("body_size", param.BodySize),
			zap.String("error", param.ErrorMessage),
		)

		return ""
	})
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// SecurityHeadersMiddleware adds security headers
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS in production with HTTPS
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// RecoveryMiddleware provides panic recovery with logging
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID, _ := c.Get("request_id")
		reqID, _ := requestID.(string)

		var userID string
		if uid, exists := c.Get("user_id"); exists {
			if id, ok := uid.(uuid.UUID); ok {
				userID = id.String()
			}
		}

		logger.Error("Panic recovered",
			zap.String("request_id", reqID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_id", userID),
			zap.Any("error", recovered),
			zap.String("user_agent", c.Request.UserAgent()),
		)

		c.JSON(500, gin.H{
			"error":      "Internal server error",
			"request_id": reqID,
		})
	})
}

// RateLimitInfo stores rate limit state per client IP
type RateLimitInfo struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	maxReqs  int
	window   time.Duration
}

// NewRateLimit creates a new rate limiter
func NewRateLimit(maxRequests int, window time.Duration) *RateLimitInfo {
	return &RateLimitInfo{
		requests: make(map[string][]time.Time),
		maxReqs:  maxRequests,
		window:   window,
	}
}

// RateLimitMiddleware implements basic sliding-window rate limiting
func RateLimitMiddleware(rateLimiter *RateLimitInfo, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		now := time.Now()

		rateLimiter.mu.Lock()

		var validRequests []time.Time
		for _, reqTime := range rateLimiter.requests[clientIP] {
			if now.Sub(reqTime) < rateLimiter.window {
				validRequests = append(validRequests, reqTime)
			}
		}

		if len(validRequests) >= rateLimiter.maxReqs {
			rateLimiter.requests[clientIP] = validRequests
			rateLimiter.mu.Unlock()

			logger.Warn("Rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.Int("requests", len(validRequests)),
				zap.Int("max_requests", rateLimiter.maxReqs),
				zap.Duration("window", rateLimiter.window),
			)

			c.Header("X-RateLimit-Limit", strconv.Itoa(rateLimiter.maxReqs))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(now.Add(rateLimiter.window).Unix(), 10))

			c.JSON(429, gin.H{
				"error": "Rate limit exceeded",
				"code":  "RATE_LIMIT_EXCEEDED",
			})
			c.Abort()
			return
		}

		rateLimiter.requests[clientIP] = append(validRequests, now)
		remaining := rateLimiter.maxReqs - len(rateLimiter.requests[clientIP])
		rateLimiter.mu.Unlock()

		c.Header("X-RateLimit-Limit", strconv.Itoa(rateLimiter.maxReqs))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(now.Add(rateLimiter.window).Unix(), 10))

		c.Next()
	}
}
