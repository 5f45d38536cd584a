package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uutiset/internal/service"
)

// mutationCacheControl keeps mutation responses out of shared caches while
// staying compatible with the browser back/forward cache. Deliberately not
// no-store: a back navigation may legitimately reuse the previous response.
const mutationCacheControl = "private, max-age=0, must-revalidate"

const sessionTokenKey = "sid"

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// bindPermissive decodes the body on a best-effort basis: malformed JSON
// leaves dst zero-valued instead of failing the request before validation.
func bindPermissive(c *gin.Context, dst interface{}) {
	_ = c.ShouldBindJSON(dst)
}

func setMutationCacheHeaders(c *gin.Context) {
	c.Header("Cache-Control", mutationCacheControl)
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// callerFingerprint derives the pseudonymous caller identity: the salted
// FNV-1a hash of the client address, or of the supplied session token when
// no address is resolvable. Returns "" when neither exists.
func (a *API) callerFingerprint(c *gin.Context, sid string) string {
	if ip := c.ClientIP(); ip != "" {
		return service.Fingerprint(ip, a.salt)
	}
	if sid = strings.TrimSpace(sid); sid != "" {
		return service.Fingerprint(sid, a.salt)
	}
	return ""
}

// ensureSessionToken returns the caller's session token, minting one into
// the cookie session on first use. Body-supplied tokens win so that
// cookie-less clients can keep a stable identity.
func ensureSessionToken(c *gin.Context, fromBody string) string {
	if token := strings.TrimSpace(fromBody); token != "" {
		return token
	}

	session := sessions.Default(c)
	if existing, ok := session.Get(sessionTokenKey).(string); ok && existing != "" {
		return existing
	}

	token := uuid.NewString()
	session.Set(sessionTokenKey, token)
	if err := session.Save(); err != nil {
		c.Error(err) // 会话写失败不致命，请求内的临时令牌仍然可用
	}
	return token
}
