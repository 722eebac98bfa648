package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"lucidly/internal/models/db_models"
	"lucidly/pkg/utils"
)

const (
	accountKey = "account"
	userIDKey  = "user_id"
)

// SessionResolver turns a bearer credential into the account behind it.
type SessionResolver interface {
	Resolve(ctx context.Context, bearer string) (*db_models.Account, error)
}

// SessionAuthMiddleware rejects requests without a live session and stores
// the resolved account on the context.
func SessionAuthMiddleware(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			utils.HandleServiceError(c, utils.ErrUnauthenticated)
			c.Abort()
			return
		}

		account, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			utils.HandleServiceError(c, err)
			c.Abort()
			return
		}

		c.Set(accountKey, account)
		c.Set(userIDKey, account.ID.String())
		c.Next()
	}
}

// BearerToken extracts the credential from the Authorization header.
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) < len("Bearer ") || !strings.EqualFold(authHeader[:len("Bearer ")], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(authHeader[len("Bearer "):])
	return token, token != ""
}

func CurrentAccount(c *gin.Context) (*db_models.Account, bool) {
	v, ok := c.Get(accountKey)
	if !ok {
		return nil, false
	}
	account, ok := v.(*db_models.Account)
	return account, ok && account != nil
}
