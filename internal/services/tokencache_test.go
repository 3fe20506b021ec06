package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenCache_AddGet(t *testing.T) {
	cache := NewTokenCache(8, time.Minute)
	p := Principal{UserID: primitive.NewObjectID(), Email: "a@x.com", ExpiresAt: time.Now().Add(time.Minute)}

	cache.Add("tok", p)
	got, ok := cache.Get("tok")

	require.True(t, ok)
	assert.Equal(t, p, got)

	_, ok = cache.Get("other")
	assert.False(t, ok)
}

func TestTokenCache_RejectsExpiredPrincipal(t *testing.T) {
	cache := NewTokenCache(8, time.Hour)
	now := time.Now()
	cache.now = func() time.Time { return now }

	cache.Add("tok", Principal{Email: "a@x.com", ExpiresAt: now.Add(time.Second)})
	_, ok := cache.Get("tok")
	require.True(t, ok)

	cache.now = func() time.Time { return now.Add(2 * time.Second) }
	_, ok = cache.Get("tok")

	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestTokenCache_Bounded(t *testing.T) {
	cache := NewTokenCache(2, time.Minute)
	exp := time.Now().Add(time.Minute)

	cache.Add("a", Principal{ExpiresAt: exp})
	cache.Add("b", Principal{ExpiresAt: exp})
	cache.Add("c", Principal{ExpiresAt: exp})

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get("a")
	assert.False(t, ok)
}

func TestTokenCache_Concurrent(t *testing.T) {
	cache := NewTokenCache(64, time.Minute)
	exp := time.Now().Add(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok := string(rune('a' + i))
			cache.Add(tok, Principal{ExpiresAt: exp})
			_, ok := cache.Get(tok)
			assert.True(t, ok)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 16, cache.Len())
}
