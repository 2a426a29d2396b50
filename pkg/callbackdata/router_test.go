package callbackdata

import (
	"context"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/gramiojs/callback-data/pkg/compact"
	"github.com/gramiojs/callback-data/pkg/log"
	"github.com/gramiojs/callback-data/pkg/metrics"
	"github.com/gramiojs/callback-data/pkg/schema"
	"github.com/gramiojs/callback-data/pkg/util/merr"
)

type RouterSuite struct {
	suite.Suite

	ctx     context.Context
	menu    *CallbackData
	profile *CallbackData
}

func (s *RouterSuite) SetupSuite() {
	s.menu = MustNew("menu", schema.NewBuilder().
		Enum("action", []string{"open", "close"}).
		Number("page", schema.Default(1)).
		MustBuild())
	s.profile = MustNew("profile", schema.NewBuilder().UUID("user").MustBuild())
}

func (s *RouterSuite) SetupTest() {
	lg, _, err := log.InitTestLogger(s.T(), &log.Config{Level: "debug"})
	s.Require().NoError(err)
	s.ctx = context.WithValue(context.Background(), log.CtxLogKey, &log.MLogger{Logger: lg})
}

func (s *RouterSuite) TestDispatch() {
	r := NewRouter()

	var (
		mu   sync.Mutex
		seen = make(map[string][]compact.Values)
	)
	record := func(_ context.Context, cd *CallbackData, values compact.Values) error {
		mu.Lock()
		defer mu.Unlock()
		seen[cd.Name()] = append(seen[cd.Name()], values)
		return nil
	}
	s.Require().NoError(r.Register(s.menu, record))
	s.Require().NoError(r.Register(s.profile, record))

	menuPayload, err := s.menu.Pack(compact.Values{"action": "close"})
	s.Require().NoError(err)
	profilePayload, err := s.profile.Pack(compact.Values{"user": "b06dacf6-5027-402e-9533-087a4761c4fa"})
	s.Require().NoError(err)
	s.Equal("XUWgCbsG2s9lAnQC6VMwh6R2HE-g", profilePayload)

	before := testutil.ToFloat64(metrics.DispatchTotal.WithLabelValues(metrics.SuccessLabel))
	ctx := s.ctx
	s.Require().NoError(r.Handle(ctx, menuPayload))
	s.Require().NoError(r.Handle(ctx, profilePayload))
	s.Require().NoError(r.Handle(ctx, `8d6ab8|{"action":"open","page":3}`))
	s.Equal(before+3, testutil.ToFloat64(metrics.DispatchTotal.WithLabelValues(metrics.SuccessLabel)))

	s.Equal([]compact.Values{
		{"action": "close", "page": float64(1)},
		{"action": "open", "page": float64(3)},
	}, seen["menu"])
	s.Equal([]compact.Values{{"user": "b06dacf6-5027-402e-9533-087a4761c4fa"}}, seen["profile"])

	cd, ok := r.Lookup(profilePayload)
	s.True(ok)
	s.Same(s.profile, cd)
	_, ok = r.Lookup("nothing")
	s.False(ok)
}

func (s *RouterSuite) TestRegisterValidation() {
	r := NewRouter()
	noop := func(context.Context, *CallbackData, compact.Values) error { return nil }

	s.Error(r.Register(nil, noop))
	s.Error(r.Register(s.menu, nil))
	s.Require().NoError(r.Register(s.menu, noop))

	dup := MustNew("menu", schema.NewBuilder().String("other").MustBuild())
	err := r.Register(dup, noop)
	s.ErrorIs(err, merr.ErrRouteDuplicated)
	s.Equal(merr.SystemError, merr.GetErrorType(err))
}

func (s *RouterSuite) TestHandleErrors() {
	r := NewRouter()
	boom := errors.New("boom")
	s.Require().NoError(r.Register(s.menu, func(context.Context, *CallbackData, compact.Values) error {
		return boom
	}))

	before := testutil.ToFloat64(metrics.DispatchTotal.WithLabelValues(metrics.NotFoundLabel))
	err := r.Handle(s.ctx, "unknown")
	s.ErrorIs(err, merr.ErrRouteNotFound)
	s.Equal(before+1, testutil.ToFloat64(metrics.DispatchTotal.WithLabelValues(metrics.NotFoundLabel)))

	err = r.Handle(s.ctx, s.menu.ID()+"9;0")
	s.ErrorIs(err, merr.ErrInvalidEnumIndex)

	payload, err := s.menu.Pack(compact.Values{"action": "open", "page": 2})
	s.Require().NoError(err)
	err = r.Handle(s.ctx, payload)
	s.ErrorIs(err, boom)
	s.Contains(err.Error(), `"menu"`)
}

func (s *RouterSuite) TestConcurrentHandle() {
	r := NewRouter()
	var (
		mu    sync.Mutex
		count int
	)
	s.Require().NoError(r.Register(s.menu, func(context.Context, *CallbackData, compact.Values) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}))
	payload, err := s.menu.Pack(compact.Values{"action": "open"})
	s.Require().NoError(err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = r.Handle(s.ctx, payload)
			}
		}()
	}
	wg.Wait()
	s.Equal(400, count)
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}
