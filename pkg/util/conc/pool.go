// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package conc

import (
	"runtime"

	"github.com/cockroachdb/errors"
	ants "github.com/panjf2000/ants/v2"
)

// Pool 是基于 ants 的协程池，每个任务的结果通过 Future 返回。
type Pool[T any] struct {
	inner *ants.Pool
	opt   *poolOption
}

// NewPool 创建容量为 cap 的协程池，创建失败时 panic。
func NewPool[T any](cap int, opts ...PoolOption) *Pool[T] {
	opt := &poolOption{}
	for _, o := range opts {
		o(opt)
	}

	pool, err := ants.NewPool(cap, opt.antsOptions()...)
	if err != nil {
		panic(err)
	}

	return &Pool[T]{
		inner: pool,
		opt:   opt,
	}
}

// NewDefaultPool 创建容量为 GOMAXPROCS 的协程池。
func NewDefaultPool[T any]() *Pool[T] {
	return NewPool[T](runtime.GOMAXPROCS(0), WithPreAlloc(true))
}

// Submit 提交一个任务，返回对应的 Future。
// 协程池已关闭时，Future 立即携带错误完成。
func (pool *Pool[T]) Submit(method func() (T, error)) *Future[T] {
	future := newFuture[T]()
	err := pool.inner.Submit(func() {
		defer close(future.ch)
		defer func() {
			if x := recover(); x != nil {
				future.err = errors.Newf("conc: task panicked: %v", x)
				panic(x) // 交由 ants 的 panic handler 处理
			}
		}()
		// 执行预处理函数
		if pool.opt.preHandler != nil {
			pool.opt.preHandler()
		}
		res, err := method()
		if err != nil {
			future.err = err
		} else {
			future.value = res
		}
	})
	if err != nil {
		future.err = errors.Wrap(err, "conc: submit task")
		close(future.ch)
	}

	return future
}

// Cap 返回协程池容量。
func (pool *Pool[T]) Cap() int {
	return pool.inner.Cap()
}

// Running 返回当前正在运行的 worker 数量。
func (pool *Pool[T]) Running() int {
	return pool.inner.Running()
}

// Free 返回空闲 worker 数量。
func (pool *Pool[T]) Free() int {
	return pool.inner.Free()
}

// Release 关闭协程池，已提交的任务会继续执行完毕。
func (pool *Pool[T]) Release() {
	pool.inner.Release()
}
