//go:build integration

package counter

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"vigil/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	ctx   context.Context
	rc    *containers.RedisContainer
	store *RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.rc = containers.NewRedisContainer(s.T())
	s.store = NewRedis(s.rc.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.rc.FlushAll(s.ctx))
}

func (s *RedisStoreSuite) TestNextStartsAtOne() {
	for want := uint64(1); want <= 3; want++ {
		got, err := s.store.Next(s.ctx, "reports")
		s.Require().NoError(err)
		s.Equal(want, got)
	}
}

func (s *RedisStoreSuite) TestCountersAreIndependent() {
	_, err := s.store.Next(s.ctx, "reports")
	s.Require().NoError(err)

	got, err := s.store.Next(s.ctx, "audits")
	s.Require().NoError(err)
	s.Equal(uint64(1), got)
}

func (s *RedisStoreSuite) TestConcurrentAllocationsAreUnique() {
	const workers = 8
	const perWorker = 25

	var (
		mu   sync.Mutex
		seen = make(map[uint64]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < perWorker; n++ {
				v, err := s.store.Next(s.ctx, "reports")
				if err != nil {
					s.T().Error(err)
					return
				}
				mu.Lock()
				seen[v] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Len(seen, workers*perWorker)
}
