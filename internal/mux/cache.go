package mux

import (
	"context"
	"holdem-server/pkg/table"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// userCacheTTL limits how stale a cached user, e.g., their admin flag, can be
const userCacheTTL = time.Minute

type cachedUser struct {
	user    *table.User
	expires time.Time
}

// userCache keeps recently authenticated users so every request does not hit the store
type userCache struct {
	cache *lru.Cache
	store table.Store
}

func newUserCache(store table.Store, size int) (*userCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	return &userCache{
		cache: c,
		store: store,
	}, nil
}

// Get returns a copy of the user
func (u *userCache) Get(ctx context.Context, id int64) (*table.User, error) {
	if v, ok := u.cache.Get(id); ok {
		cu := v.(*cachedUser)
		if time.Now().Before(cu.expires) {
			c := *cu.user
			return &c, nil
		}
	}

	user, err := u.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c := *user
	u.cache.Add(id, &cachedUser{user: &c, expires: time.Now().Add(userCacheTTL)})
	return user, nil
}
