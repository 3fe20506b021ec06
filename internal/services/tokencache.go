package services

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Principal is the authenticated caller resolved from an access token.
type Principal struct {
	UserID    primitive.ObjectID
	Email     string
	Subject   string
	ExpiresAt time.Time
}

// TokenCache maps raw access tokens to principals. Entries leave the cache
// after ttl, and Get refuses any entry whose token has expired in between.
type TokenCache struct {
	lru *expirable.LRU[string, Principal]
	now func() time.Time
}

func NewTokenCache(size int, ttl time.Duration) *TokenCache {
	return &TokenCache{
		lru: expirable.NewLRU[string, Principal](size, nil, ttl),
		now: time.Now,
	}
}

func (c *TokenCache) Get(token string) (Principal, bool) {
	p, ok := c.lru.Get(token)
	if !ok {
		return Principal{}, false
	}
	if !c.now().Before(p.ExpiresAt) {
		c.lru.Remove(token)
		return Principal{}, false
	}
	return p, true
}

func (c *TokenCache) Add(token string, p Principal) {
	c.lru.Add(token, p)
}

func (c *TokenCache) Remove(token string) {
	c.lru.Remove(token)
}

func (c *TokenCache) Len() int {
	return c.lru.Len()
}
