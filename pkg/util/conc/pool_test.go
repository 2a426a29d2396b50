package conc

import (
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PoolSuite struct {
	suite.Suite
}

func (s *PoolSuite) TestSubmitPreservesResults() {
	pool := NewPool[int](4)
	defer pool.Release()
	s.Equal(4, pool.Cap())

	futures := make([]*Future[int], 0, 100)
	for i := 0; i < 100; i++ {
		i := i
		futures = append(futures, pool.Submit(func() (int, error) {
			return i * i, nil
		}))
	}
	s.Require().NoError(AwaitAll(futures...))
	for i, f := range futures {
		s.True(f.Done())
		s.Equal(i*i, f.Value())
	}
}

func (s *PoolSuite) TestSubmitError() {
	pool := NewDefaultPool[string]()
	defer pool.Release()

	boom := errors.New("boom")
	ok := pool.Submit(func() (string, error) { return "ok", nil })
	bad := pool.Submit(func() (string, error) { return "", boom })

	v, err := ok.Await()
	s.NoError(err)
	s.Equal("ok", v)
	s.ErrorIs(bad.Err(), boom)
	s.ErrorIs(AwaitAll(ok, bad), boom)
}

func (s *PoolSuite) TestPreHandlerAndPanic() {
	var calls atomic.Int32
	pool := NewPool[int](1, WithPreHandler(func() { calls.Add(1) }), WithConcealPanic(true))
	defer pool.Release()

	f := pool.Submit(func() (int, error) { panic("bad task") })
	s.Error(f.Err())
	s.Contains(f.Err().Error(), "bad task")

	s.NoError(pool.Submit(func() (int, error) { return 1, nil }).Err())
	s.EqualValues(2, calls.Load())
}

func (s *PoolSuite) TestPreAlloc() {
	pool := NewPool[int](3, WithPreAlloc(true))
	defer pool.Release()

	s.Equal(3, pool.Cap())
	s.Equal(3, pool.Free())
	v, err := pool.Submit(func() (int, error) { return 7, nil }).Await()
	s.NoError(err)
	s.Equal(7, v)
}

func (s *PoolSuite) TestSubmitAfterRelease() {
	pool := NewPool[int](1)
	pool.Release()

	s.Error(pool.Submit(func() (int, error) { return 1, nil }).Err())
}

func TestPool(t *testing.T) {
	suite.Run(t, new(PoolSuite))
}

func TestGo(t *testing.T) {
	f := Go(func() (string, error) { return "done", nil })
	<-f.Inner()
	v, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, "done", v)
}
