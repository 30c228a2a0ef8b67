package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/ports/outbound"
)

type RedisCacheTestSuite struct {
	suite.Suite
	mr   *miniredis.Miniredis
	repo *CacheRepository
}

func TestRedisCacheSuite(t *testing.T) {
	suite.Run(t, new(RedisCacheTestSuite))
}

func (s *RedisCacheTestSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	client := goredis.NewClient(&goredis.Options{Addr: s.mr.Addr()})
	s.repo = NewCacheRepository(client, zap.NewNop())
}

func (s *RedisCacheTestSuite) TearDownTest() {
	s.Require().NoError(s.repo.Close())
}

func (s *RedisCacheTestSuite) TestSetGetDelete() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Set(ctx, "goals:1", []byte(`{"bmi":22.86}`), time.Minute))
	s.True(s.mr.Exists("macrotrack:goals:1"))

	got, err := s.repo.Get(ctx, "goals:1")
	s.Require().NoError(err)
	s.Equal(`{"bmi":22.86}`, string(got))

	ok, err := s.repo.Exists(ctx, "goals:1")
	s.Require().NoError(err)
	s.True(ok)

	s.Require().NoError(s.repo.Delete(ctx, "goals:1"))
	_, err = s.repo.Get(ctx, "goals:1")
	s.ErrorIs(err, outbound.ErrNotFound)
}

func (s *RedisCacheTestSuite) TestExpiry() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Set(ctx, "short", []byte("x"), time.Second))

	s.mr.FastForward(2 * time.Second)

	ok, err := s.repo.Exists(ctx, "short")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisCacheTestSuite) TestUnavailable() {
	ctx := context.Background()
	s.NoError(s.repo.Ping(ctx))

	s.mr.Close()

	s.Error(s.repo.Ping(ctx))
	_, err := s.repo.Get(ctx, "k")
	s.Error(err)
	s.NotErrorIs(err, outbound.ErrNotFound)
}
