package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"healthbite/backend/internal/util"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	subjectKey      = "subject"
)

// requestLogger tags each request with an id and logs its outcome.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := util.StartTimer()
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		c.Next()

		entry := logrus.WithFields(logrus.Fields{
			requestIDKey: id,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"latency_ms": timer.ElapsedMs(),
		})
		if subject := c.GetString(subjectKey); subject != "" {
			entry = entry.WithField(subjectKey, subject)
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request completed")
		case status >= http.StatusBadRequest:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}

// Authenticator validates HS256 bearer tokens and exposes the subject claim.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator requires a non-empty signing secret.
func NewAuthenticator(secret string) (*Authenticator, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret required")
	}
	return &Authenticator{secret: []byte(secret)}, nil
}

// SignToken issues a token for subject valid for ttl.
func (a *Authenticator) SignToken(subject string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("token subject required")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Subject validates a raw token and returns its subject.
func (a *Authenticator) Subject(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", errors.New("token subject missing")
	}
	return subject, nil
}

// Required rejects requests without a valid bearer token.
func (a *Authenticator) Required() gin.HandlerFunc {
	return a.middleware(true)
}

// Optional accepts anonymous requests but still rejects malformed tokens.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return a.middleware(false)
}

func (a *Authenticator) middleware(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
				return
			}
			c.Next()
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			return
		}
		subject, err := a.Subject(strings.TrimSpace(raw))
		if err != nil {
			logrus.WithError(err).WithField(requestIDKey, c.GetString(requestIDKey)).Debug("rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(subjectKey, subject)
		c.Next()
	}
}

func subjectFrom(c *gin.Context) string {
	return c.GetString(subjectKey)
}
