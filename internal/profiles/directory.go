// Package profiles looks up stored user profiles by uid, caching results
// so the landing screens do not hit the store on every render.
package profiles

import (
	"context"
	"fmt"
	"time"

	"github.com/kduhealth/medportal/internal/cachemanager"
	"github.com/kduhealth/medportal/internal/registration"
)

// Directory resolves uids to profiles.
type Directory struct {
	cache *cachemanager.ReadThroughCache[string, registration.StoredProfile, string]
	ttl   time.Duration
}

// NewDirectory creates a Directory over finder. A ttl of zero disables
// caching.
func NewDirectory(finder registration.DocumentFinder, ttl time.Duration) *Directory {
	load := func(ctx context.Context, uid string) (registration.StoredProfile, error) {
		return lookup(ctx, finder, uid)
	}
	cache := cachemanager.NewInMemoryCacheManager[string, registration.StoredProfile](
		"profiles", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	return &Directory{
		cache: cachemanager.NewReadThroughCache[string, registration.StoredProfile, string](cache, load, ttl <= 0),
		ttl:   ttl,
	}
}

// Lookup returns the profile for uid or a *registration.ProfileNotFoundError.
func (d *Directory) Lookup(ctx context.Context, uid string) (registration.StoredProfile, error) {
	return d.cache.GetWithRefresh(ctx, uid, uid, d.ttl)
}

// Forget drops a cached profile.
func (d *Directory) Forget(ctx context.Context, uid string) {
	_ = d.cache.Invalidate(ctx, uid)
}

func lookup(ctx context.Context, finder registration.DocumentFinder, uid string) (registration.StoredProfile, error) {
	docs, err := finder.FindByField(ctx, registration.UsersCollection, registration.KeyUID, uid)
	if err != nil {
		return registration.StoredProfile{}, fmt.Errorf("failed to find profile: %w", err)
	}
	if len(docs) == 0 {
		return registration.StoredProfile{}, &registration.ProfileNotFoundError{UID: uid}
	}

	// The oldest document wins if a uid was ever written twice.
	doc := docs[0]
	p, err := registration.ProfileFromDocument(doc.Data)
	if err != nil {
		return registration.StoredProfile{}, fmt.Errorf("failed to decode profile %s: %w", uid, err)
	}
	return registration.StoredProfile{Profile: p, Ref: doc.Ref, CreatedAt: doc.CreatedAt}, nil
}
