//go:build integration

package cache_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"carelink/internal/profile"
	"carelink/internal/profile/cache"
	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
	"carelink/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis     *containers.RedisContainer
	directory *profile.InMemoryStore
	cache     *cache.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.directory = profile.NewInMemoryStore()
	s.cache = cache.NewRedisCache(s.directory, s.redis.Client, time.Minute, logger)
}

func (s *RedisCacheSuite) seed(name string) *profile.Profile {
	p := &profile.Profile{
		ID:          id.NewProfileID(),
		Role:        profile.RoleSeeker,
		DisplayName: name,
		CareTypes:   []string{"companion"},
	}
	s.Require().NoError(s.directory.Put(context.Background(), p))
	return p
}

func (s *RedisCacheSuite) TestReadThrough() {
	ctx := context.Background()
	p := s.seed("Maria")

	got, err := s.cache.Get(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Maria", got.DisplayName)

	// A directory change is invisible until the entry expires or is
	// invalidated; the second read must come from Redis.
	p.DisplayName = "Changed"
	s.Require().NoError(s.directory.Put(ctx, p))

	cached, err := s.cache.Get(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Maria", cached.DisplayName)
}

func (s *RedisCacheSuite) TestInvalidate() {
	ctx := context.Background()
	p := s.seed("Maria")

	_, err := s.cache.Get(ctx, p.ID)
	s.Require().NoError(err)

	p.DisplayName = "Updated"
	s.Require().NoError(s.directory.Put(ctx, p))
	s.Require().NoError(s.cache.Invalidate(ctx, p.ID))

	got, err := s.cache.Get(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Updated", got.DisplayName)
}

func (s *RedisCacheSuite) TestMissPassesThrough() {
	_, err := s.cache.Get(context.Background(), id.NewProfileID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisCacheSuite) TestCorruptEntryFallsBack() {
	ctx := context.Background()
	p := s.seed("Maria")

	key := "profile:" + p.ID.String()
	s.Require().NoError(s.redis.Client.Set(ctx, key, "{not json", time.Minute).Err())

	got, err := s.cache.Get(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Maria", got.DisplayName)

	// The corrupt entry is overwritten by the fallback read.
	raw, err := s.redis.Client.Get(ctx, key).Bytes()
	s.Require().NoError(err)
	s.Contains(string(raw), "Maria")
}
