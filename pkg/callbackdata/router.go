package callbackdata

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/gramiojs/callback-data/pkg/compact"
	"github.com/gramiojs/callback-data/pkg/log"
	"github.com/gramiojs/callback-data/pkg/metrics"
	"github.com/gramiojs/callback-data/pkg/util/merr"
	"github.com/gramiojs/callback-data/pkg/util/typeutil"
)

// Handler 是业务层处理一条已解析 payload 的函数签名。
//
// cd 为命中的 CallbackData，values 为解码结果（已填充默认值）。
type Handler func(ctx context.Context, cd *CallbackData, values compact.Values) error

// Router 维护 CallbackData 到 Handler 的映射，负责从原始 payload 到业务 Handler 的完整调度流程：
//  1. 按注册顺序找到第一个 Matches 为 true 的 CallbackData；
//  2. 调用 Unpack 解码；
//  3. 调用业务 Handler。
type Router interface {
	// Register 注册一条路由。同一标识符不允许重复注册。
	Register(cd *CallbackData, handler Handler) error

	// Handle 分发一条 payload。没有匹配的路由时返回 ErrRouteNotFound。
	Handle(ctx context.Context, payload string) error

	// Lookup 返回 payload 匹配的 CallbackData，不解码。
	Lookup(payload string) (*CallbackData, bool)
}

type route struct {
	cd      *CallbackData
	handler Handler
}

// defaultRouter 是 Router 接口的基础实现。
//
// 注册通常在启动阶段完成，Handle 可被多个 goroutine 并发调用。
type defaultRouter struct {
	log.Binder

	mu     sync.RWMutex
	routes []route
	ids    typeutil.Set[string]
}

// 编译期断言：确保 defaultRouter 实现了 Router 接口。
var _ Router = (*defaultRouter)(nil)

// NewRouter 创建一个空的 Router。
func NewRouter() Router {
	r := &defaultRouter{
		ids: typeutil.NewSet[string](),
	}
	r.SetLogger(log.With(log.FieldComponent("callbackdata-router")))
	return r
}

// Register 实现 Router.Register。
func (r *defaultRouter) Register(cd *CallbackData, handler Handler) error {
	if cd == nil {
		return errors.New("router: CallbackData is nil")
	}
	if handler == nil {
		return errors.Newf("router: Handler is nil for %q", cd.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ids.TryInsert(cd.ID()) {
		return merr.WrapErrRouteDuplicated(cd.ID(), cd.Name())
	}
	r.routes = append(r.routes, route{cd: cd, handler: handler})
	r.Logger().Debug("route registered",
		log.FieldSchema(cd.Name()),
		zap.String("id", cd.ID()),
		zap.String("legacyID", cd.LegacyID()))
	return nil
}

// Lookup 实现 Router.Lookup。
func (r *defaultRouter) Lookup(payload string) (*CallbackData, bool) {
	rt, ok := r.match(payload)
	return rt.cd, ok
}

func (r *defaultRouter) match(payload string) (route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rt := range r.routes {
		if rt.cd.Matches(payload) {
			return rt, true
		}
	}
	return route{}, false
}

// Handle 实现 Router.Handle。
func (r *defaultRouter) Handle(ctx context.Context, payload string) error {
	rt, ok := r.match(payload)
	if !ok {
		metrics.DispatchTotal.WithLabelValues(metrics.NotFoundLabel).Inc()
		log.Ctx(ctx).Debug("no route for payload", log.FieldPayload(payload))
		return merr.WrapErrRouteNotFound(payload)
	}

	ctx = log.WithFields(ctx, log.FieldSchema(rt.cd.Name()))
	values, err := rt.cd.Unpack(payload)
	if err != nil {
		metrics.DispatchTotal.WithLabelValues(metrics.FailLabel).Inc()
		log.Ctx(ctx).Warn("unpack payload failed", log.FieldPayload(payload), zap.Error(err))
		return err
	}

	if err := rt.handler(ctx, rt.cd, values); err != nil {
		metrics.DispatchTotal.WithLabelValues(metrics.HandlerErrLabel).Inc()
		return errors.Wrapf(err, "router: handler failed for %q", rt.cd.Name())
	}
	metrics.DispatchTotal.WithLabelValues(metrics.SuccessLabel).Inc()
	return nil
}
