package services

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"

	"github.com/spacebrain/backend/internal/store"
)

const (
	gsmCacheKey   = "access:gsmnumbers"
	badgeCacheKey = "access:badgenumbers"
)

// AccessService serves the allow-lists used by the gatekeeper and door
// opener hardware. Both lists are read-only through this API, so a short
// Redis cache needs no invalidation; without Redis every read hits
// Postgres.
type AccessService struct {
	store *store.Store
	redis *redis.Client
}

func NewAccessService(st *store.Store, redisClient *redis.Client) *AccessService {
	viper.SetDefault("access.cache_ttl", 60*time.Second)
	return &AccessService{
		store: st,
		redis: redisClient,
	}
}

// GsmNumbers lists the GSM numbers allowed to trigger the gate, one per
// line.
func (s *AccessService) GsmNumbers(w http.ResponseWriter, r *http.Request) {
	log.Printf("[ACCESS] Returning list of GSM numbers")
	s.serveList(w, gsmCacheKey, s.store.GsmNumbers)
}

// BadgeNumbers lists the badge numbers allowed to open the space door,
// one per line.
func (s *AccessService) BadgeNumbers(w http.ResponseWriter, r *http.Request) {
	log.Printf("[ACCESS] Returning list of badge numbers")
	s.serveList(w, badgeCacheKey, s.store.BadgeNumbers)
}

func (s *AccessService) serveList(w http.ResponseWriter, cacheKey string, fetch func() ([]string, error)) {
	if s.redis != nil {
		if cached, err := s.redis.Get(context.Background(), cacheKey).Result(); err == nil {
			writeText(w, cached)
			return
		}
	}

	numbers, err := fetch()
	if err != nil {
		log.Printf("[ACCESS] Failed to fetch allow-list %s: %v", cacheKey, err)
		http.Error(w, "Failed to fetch allow-list", http.StatusInternalServerError)
		return
	}

	body := joinLines(numbers)
	if s.redis != nil {
		ttl := viper.GetDuration("access.cache_ttl")
		if err := s.redis.Set(context.Background(), cacheKey, body, ttl).Err(); err != nil {
			log.Printf("[ACCESS] Failed to cache allow-list %s: %v", cacheKey, err)
		}
	}

	writeText(w, body)
}
