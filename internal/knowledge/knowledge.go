// Package knowledge resolves brand and product names against the
// knowledge graph. Detectors use the resolved entities to widen their
// match sets; a lookup failure degrades to the raw criteria rather than
// failing a video.
package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Entity is one resolved knowledge graph entity.
type Entity struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Types       []string `json:"types,omitempty"`
}

// EntityLookup finds entities matching the given query strings.
type EntityLookup interface {
	Entities(ctx context.Context, queries []string) (map[string]Entity, error)
}

// GraphLookup queries Neo4j for exact name matches (case-insensitive)
// and caches results in Redis.
type GraphLookup struct {
	driver   neo4j.DriverWithContext
	redis    *redis.Client
	cacheTTL time.Duration
	logger   *logrus.Logger
}

func NewGraphLookup(driver neo4j.DriverWithContext, redisClient *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) *GraphLookup {
	return &GraphLookup{
		driver:   driver,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Entities resolves each query to its knowledge graph entity. Only exact
// name matches are kept, mirroring the upstream graph contract. The
// returned map is keyed by entity ID.
func (g *GraphLookup) Entities(ctx context.Context, queries []string) (map[string]Entity, error) {
	entities := make(map[string]Entity)
	var misses []string

	for _, query := range queries {
		if cached, ok := g.cachedEntity(ctx, query); ok {
			if cached != nil {
				entities[cached.ID] = *cached
			}
			continue
		}
		misses = append(misses, query)
	}

	if len(misses) == 0 {
		return entities, nil
	}

	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	for _, query := range misses {
		result, err := session.Run(ctx, `
			MATCH (e:Entity)
			WHERE toLower(e.name) = toLower($name)
			RETURN e.id AS id, e.name AS name, e.description AS description, labels(e) AS types
			LIMIT 10`,
			map[string]interface{}{"name": query},
		)
		if err != nil {
			return nil, fmt.Errorf("knowledge graph query %q: %w", query, err)
		}

		var found *Entity
		for result.Next(ctx) {
			record := result.Record()
			entity := Entity{
				ID:   stringValue(record.Values[0]),
				Name: stringValue(record.Values[1]),
			}
			entity.Description = stringValue(record.Values[2])
			if types, ok := record.Values[3].([]interface{}); ok {
				for _, t := range types {
					entity.Types = append(entity.Types, stringValue(t))
				}
			}
			// Keep the exact match only.
			if strings.EqualFold(entity.Name, query) {
				found = &entity
				entities[entity.ID] = entity
				break
			}
		}
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("knowledge graph result %q: %w", query, err)
		}

		g.cacheEntity(ctx, query, found)
	}

	return entities, nil
}

func (g *GraphLookup) cachedEntity(ctx context.Context, query string) (*Entity, bool) {
	if g.redis == nil {
		return nil, false
	}
	data, err := g.redis.Get(ctx, cacheKey(query)).Bytes()
	if err != nil {
		return nil, false
	}
	if string(data) == "null" {
		// Negative cache entry: the graph has no such entity.
		return nil, true
	}
	var entity Entity
	if err := json.Unmarshal(data, &entity); err != nil {
		return nil, false
	}
	return &entity, true
}

func (g *GraphLookup) cacheEntity(ctx context.Context, query string, entity *Entity) {
	if g.redis == nil {
		return
	}
	data, err := json.Marshal(entity)
	if err != nil {
		return
	}
	if err := g.redis.Set(ctx, cacheKey(query), data, g.cacheTTL).Err(); err != nil {
		g.logger.WithError(err).Debug("Failed to cache knowledge graph entity")
	}
}

func cacheKey(query string) string {
	return "kg:entity:" + strings.ToLower(query)
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}
