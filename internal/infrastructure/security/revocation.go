package security

import (
	"context"
	"fmt"
	"time"

	"github.com/macrotrack/api/internal/ports/outbound"
)

const revokedKeyFormat = "revoked_token:%s"

// CacheRevoker keeps revoked token ids in the shared cache so every replica
// sees a logout
type CacheRevoker struct {
	cache outbound.CacheRepository
	now   func() time.Time
}

// NewCacheRevoker builds a revoker on top of the cache
func NewCacheRevoker(cache outbound.CacheRepository) *CacheRevoker {
	return &CacheRevoker{cache: cache, now: time.Now}
}

// Revoke implements outbound.TokenRevoker
func (r *CacheRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.cache.Set(ctx, fmt.Sprintf(revokedKeyFormat, tokenID), []byte("1"), ttl)
}

// IsRevoked implements outbound.TokenRevoker
func (r *CacheRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return r.cache.Exists(ctx, fmt.Sprintf(revokedKeyFormat, tokenID))
}
