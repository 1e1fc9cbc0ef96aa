package cache

import (
	"context"
	"errors"

	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	megabyte = 1024 * 1024
	// DefaultExerciseTTLSeconds bounds how stale a cached exercise can get
	// when another instance edits it.
	DefaultExerciseTTLSeconds = 10 * 60
)

// ExerciseCache is a read-through cache in front of an ExerciseRepository.
// Exercise lookups by id dominate analytics name resolution and session logging.
type ExerciseCache struct {
	repository.ExerciseRepository

	cache      *freecache.Cache
	ttlSeconds int
}

var _ repository.ExerciseRepository = (*ExerciseCache)(nil)

func NewExerciseCache(repo repository.ExerciseRepository, sizeMegabytes, ttlSeconds int) *ExerciseCache {
	if sizeMegabytes <= 0 {
		sizeMegabytes = 8
	}
	if ttlSeconds <= 0 {
		ttlSeconds = DefaultExerciseTTLSeconds
	}
	return &ExerciseCache{
		ExerciseRepository: repo,
		cache:              freecache.NewCache(sizeMegabytes * megabyte),
		ttlSeconds:         ttlSeconds,
	}
}

func (c *ExerciseCache) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	key := id[:]
	if raw, err := c.cache.Get(key); err == nil {
		var exercise domain.Exercise
		if err := bson.Unmarshal(raw, &exercise); err == nil {
			return &exercise, nil
		}
		log.Warnf("exercise cache: dropping undecodable entry %s", id.Hex())
		c.cache.Del(key)
	} else if !errors.Is(err, freecache.ErrNotFound) {
		log.Errorf("exercise cache get %s: %s", id.Hex(), err)
	}

	exercise, err := c.ExerciseRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(exercise)
	return exercise, nil
}

// Update evicts after the write as well, since a read racing the write can
// put the old document back.
func (c *ExerciseCache) Update(ctx context.Context, exercise *domain.Exercise) error {
	c.cache.Del(exercise.ID[:])
	err := c.ExerciseRepository.Update(ctx, exercise)
	c.cache.Del(exercise.ID[:])
	return err
}

func (c *ExerciseCache) Delete(ctx context.Context, id primitive.ObjectID) error {
	c.cache.Del(id[:])
	err := c.ExerciseRepository.Delete(ctx, id)
	c.cache.Del(id[:])
	return err
}

// Stats reports hit and miss counters of the underlying cache.
func (c *ExerciseCache) Stats() (hits, misses int64) {
	return c.cache.HitCount(), c.cache.MissCount()
}

func (c *ExerciseCache) store(exercise *domain.Exercise) {
	raw, err := bson.Marshal(exercise)
	if err != nil {
		log.Errorf("exercise cache: marshal %s: %s", exercise.ID.Hex(), err)
		return
	}
	if err := c.cache.Set(exercise.ID[:], raw, c.ttlSeconds); err != nil {
		log.Warnf("exercise cache: set %s: %s", exercise.ID.Hex(), err)
	}
}
