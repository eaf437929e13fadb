package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"bookings-api/config"
	"bookings-api/domain"
	"bookings-api/logging"
	"bookings-api/metrics"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/karlseguin/ccache/v3"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

// generationKey guarda en Memcached el número de generación del ranking.
// Cada calificación nueva lo incrementa y las claves viejas dejan de leerse
const generationKey = "ranking:generation"

// RankingCache es el caché de dos niveles del ranking de admin
//
// Uso:
//
//	key := cache.Key(ctx, fingerprint)
//	if listings, ok := cache.Get(ctx, key); ok { ... }
//	cache.Set(ctx, key, listings)
//
// Key se calcula una sola vez por request: si entra una calificación mientras
// se consulta la BD, el resultado queda guardado bajo la generación vieja
type RankingCache interface {
	Key(ctx context.Context, fingerprint string) string
	Get(ctx context.Context, key string) ([]domain.ListingRating, bool)
	Set(ctx context.Context, key string, listings []domain.ListingRating)
	Invalidate(ctx context.Context) error
}

// MemcacheClient es la parte de *memcache.Client que usamos
type MemcacheClient interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
	Add(item *memcache.Item) error
	Increment(key string, delta uint64) (uint64, error)
}

// rankingCache implementa RankingCache con ccache (local) y Memcached (compartido)
type rankingCache struct {
	local     *ccache.Cache[[]domain.ListingRating]
	localTTL  time.Duration
	remote    MemcacheClient
	remoteTTL time.Duration
	breaker   *gobreaker.CircuitBreaker[interface{}]

	// localGen se usa cuando Memcached no está disponible
	localGen atomic.Uint64
	log      zerolog.Logger
}

// NewRankingCache crea el caché; si MemcachedHost está vacío solo usa el nivel local
func NewRankingCache(cfg config.CacheConfig) RankingCache {
	var remote MemcacheClient
	if cfg.MemcachedHost != "" {
		remote = memcache.New(cfg.MemcachedHost)
	}
	return newRankingCache(cfg, remote)
}

func newRankingCache(cfg config.CacheConfig, remote MemcacheClient) *rankingCache {
	c := &rankingCache{
		local:     ccache.New(ccache.Configure[[]domain.ListingRating]().MaxSize(cfg.LocalMaxSize)),
		localTTL:  cfg.LocalTTL,
		remote:    remote,
		remoteTTL: cfg.RemoteTTL,
		log:       logging.WithComponent("ranking_cache"),
	}

	if remote != nil {
		c.breaker = gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
			Name:        "memcached",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// Un miss o una clave ya existente no son fallas de Memcached
			IsSuccessful: func(err error) bool {
				return err == nil ||
					errors.Is(err, memcache.ErrCacheMiss) ||
					errors.Is(err, memcache.ErrNotStored)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("Circuit breaker state changed")
			},
		})
		c.log.Info().Msg("Ranking cache initialized with Memcached")
	} else {
		c.log.Info().Msg("Ranking cache initialized (local only)")
	}

	return c
}

// Key arma la clave con la generación actual:
//   - "ranking:r<gen>:<fingerprint>" si Memcached responde
//   - "ranking:l<gen>:<fingerprint>" si no (solo nivel local)
func (c *rankingCache) Key(ctx context.Context, fingerprint string) string {
	if c.remote != nil {
		gen, err := c.remoteGeneration()
		if err == nil {
			return fmt.Sprintf("ranking:r%d:%s", gen, fingerprint)
		}
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to read ranking generation, using local cache only")
	}
	return fmt.Sprintf("ranking:l%d:%s", c.localGen.Load(), fingerprint)
}

// Get busca primero en el nivel local y después en Memcached
func (c *rankingCache) Get(ctx context.Context, key string) ([]domain.ListingRating, bool) {
	// 1. Local
	if item := c.local.Get(key); item != nil && !item.Expired() {
		metrics.RecordCacheLookup("local", true)
		return item.Value(), true
	}
	metrics.RecordCacheLookup("local", false)

	if !c.usesRemote(key) {
		return nil, false
	}

	// 2. Memcached
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.remote.Get(key)
	})
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Error getting from Memcached")
		}
		metrics.RecordCacheLookup("remote", false)
		return nil, false
	}

	var listings []domain.ListingRating
	if err := json.Unmarshal(result.(*memcache.Item).Value, &listings); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Error unmarshaling cached ranking")
		metrics.RecordCacheLookup("remote", false)
		return nil, false
	}
	metrics.RecordCacheLookup("remote", true)

	// 3. Guardar en local para las próximas consultas
	c.local.Set(key, listings, c.localTTL)
	return listings, true
}

// Set guarda en ambos niveles; una falla de Memcached solo se loguea
func (c *rankingCache) Set(ctx context.Context, key string, listings []domain.ListingRating) {
	c.local.Set(key, listings, c.localTTL)

	if !c.usesRemote(key) {
		return
	}

	data, err := json.Marshal(listings)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Error marshaling ranking for Memcached")
		return
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.remote.Set(&memcache.Item{
			Key:        key,
			Value:      data,
			Expiration: int32(c.remoteTTL.Seconds()),
		})
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Error setting ranking in Memcached")
	}
}

// Invalidate pasa a una nueva generación; las entradas viejas expiran solas
func (c *rankingCache) Invalidate(ctx context.Context) error {
	c.localGen.Add(1)
	c.local.Clear()
	metrics.RankingCacheInvalidations.Inc()

	if c.remote == nil {
		return nil
	}

	if _, err := c.bumpRemoteGeneration(); err != nil {
		return fmt.Errorf("failed to bump ranking generation: %w", err)
	}
	logging.Ctx(ctx).Debug().Msg("Ranking cache invalidated")
	return nil
}

// usesRemote indica si la clave corresponde al nivel compartido
func (c *rankingCache) usesRemote(key string) bool {
	return c.remote != nil && len(key) > len("ranking:r") && key[:len("ranking:r")] == "ranking:r"
}

// remoteGeneration lee la generación; si no existe todavía es 0
func (c *rankingCache) remoteGeneration() (uint64, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.remote.Get(generationKey)
	})
	if errors.Is(err, memcache.ErrCacheMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	gen, err := strconv.ParseUint(string(result.(*memcache.Item).Value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ranking generation %q: %w", result.(*memcache.Item).Value, err)
	}
	return gen, nil
}

// bumpRemoteGeneration incrementa la generación creándola si hace falta
func (c *rankingCache) bumpRemoteGeneration() (uint64, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		gen, err := c.remote.Increment(generationKey, 1)
		if errors.Is(err, memcache.ErrCacheMiss) {
			// Primera invalidación: crear la clave. Si otro proceso la creó antes, reintentar
			err = c.remote.Add(&memcache.Item{Key: generationKey, Value: []byte("1")})
			if errors.Is(err, memcache.ErrNotStored) {
				return c.remote.Increment(generationKey, 1)
			}
			return uint64(1), err
		}
		return gen, err
	})
	if err != nil {
		return 0, err
	}
	return result.(uint64), nil
}
