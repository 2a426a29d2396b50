package log

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func replaceWithObserver(t *testing.T) *observer.ObservedLogs {
	oldL, oldP := L(), _globalP.Load().(*ZapProperties)
	t.Cleanup(func() { ReplaceGlobals(oldL, oldP) })

	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	core, logs := observer.New(level)
	ReplaceGlobals(zap.New(core), &ZapProperties{Core: core, Level: level})
	return logs
}

func TestCtxFields(t *testing.T) {
	logs := replaceWithObserver(t)

	ctx := WithModule(context.Background(), "router")
	ctx = WithFields(ctx, FieldSchema("orders"))
	Ctx(ctx).Info("dispatched", FieldPayload("abc"))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "router", fields[FieldNameModule])
	assert.Equal(t, "orders", fields[FieldNameSchema])
	assert.Equal(t, "abc", fields[FieldNamePayload])

	Ctx(nil).Debug("no context")
	assert.Equal(t, 2, logs.Len())
}

func TestSetLevel(t *testing.T) {
	logs := replaceWithObserver(t)

	SetLevel(zapcore.WarnLevel)
	assert.Equal(t, zapcore.WarnLevel, GetLevel())
	Ctx(context.Background()).Info("dropped")
	Ctx(context.Background()).Warn("kept")
	assert.Equal(t, 1, logs.FilterMessage("kept").Len())
	assert.Equal(t, 0, logs.FilterMessage("dropped").Len())
}

func TestBinder(t *testing.T) {
	logs := replaceWithObserver(t)

	var b Binder
	b.Logger().Info("global")
	b.SetLogger(With(FieldComponent("binder")))
	b.Logger().Info("bound")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "binder", logs.FilterMessage("bound").All()[0].ContextMap()[FieldNameComponent])
}

func TestInitLoggerFile(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{
		Level:  "debug",
		Format: "json",
		File:   FileLogConfig{RootPath: dir, Filename: "callbackdata.log"},
	}
	lg, props, err := InitLogger(cfg)
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, props.Level.Level())

	lg.Info("written to file", zap.String("k", "v"))
	require.NoError(t, lg.Sync())

	data, err := os.ReadFile(filepath.Join(dir, "callbackdata.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"written to file"`)
	assert.Contains(t, string(data), `"k":"v"`)

	_, _, err = InitLogger(&Config{File: FileLogConfig{RootPath: dir, Filename: ""}, Level: "loud"})
	assert.Error(t, err)

	_, _, err = InitLogger(&Config{File: FileLogConfig{RootPath: filepath.Dir(dir), Filename: filepath.Base(dir)}})
	assert.Error(t, err)
}

func TestInitTestLogger(t *testing.T) {
	lg, props, err := InitTestLogger(t, &Config{Level: "info"})
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, props.Level.Level())
	lg.Info("visible in test output")
}
