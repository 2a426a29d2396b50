package main

import (
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/gramiojs/callback-data/pkg/log"
)

func main() {
	// 容器环境下按 cgroup 配额设置 GOMAXPROCS，decode 的协程池容量依赖该值。
	if _, err := maxprocs.Set(maxprocs.Logger(log.S().Debugf)); err != nil {
		log.S().Warnf("set GOMAXPROCS: %v", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
