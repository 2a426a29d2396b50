// Package config 加载命令行工具使用的配置文件：
//
//	log:
//	  level: info
//	  format: console
//	schemas:
//	  - name: orders
//	    fields:
//	      - {key: id, type: number}
//	      - {key: status, type: enum, values: [new, paid], default: new}
//
// 日志相关的 key 可以通过 CALLBACKDATA_ 前缀的环境变量覆盖，例如 CALLBACKDATA_LOG_LEVEL。
package config

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/gramiojs/callback-data/pkg/callbackdata"
	"github.com/gramiojs/callback-data/pkg/log"
	"github.com/gramiojs/callback-data/pkg/schema"
	"github.com/gramiojs/callback-data/pkg/util/merr"
	"github.com/gramiojs/callback-data/pkg/util/typeutil"
	"github.com/gramiojs/callback-data/pkg/util/viper"
)

const EnvPrefix = "CALLBACKDATA"

type Config struct {
	Log     log.Config          `mapstructure:"log"`
	Schemas []schema.Definition `mapstructure:"schemas"`
}

// Default 返回未加载配置文件时使用的配置。
func Default() *Config {
	return &Config{
		Log: log.Config{Level: "info", Format: "console", Stdout: true},
	}
}

func newViper() *viper.Config {
	v := viper.New(EnvPrefix)
	def := Default()
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.stdout", def.Log.Stdout)
	v.SetDefault("log.file.rootpath", "")
	v.SetDefault("log.file.filename", "")
	return v
}

// Load 读取 path 指定的配置文件；path 为空时只应用默认值与环境变量。
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		if err := v.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	return cfg, nil
}

// Definition 按名称查找 schema 定义。
func (c *Config) Definition(name string) (schema.Definition, error) {
	def, ok := lo.Find(c.Schemas, func(d schema.Definition) bool {
		return d.Name == name
	})
	if !ok {
		return schema.Definition{}, merr.WrapErrSchemaNotFound(name)
	}
	return def, nil
}

// CallbackData 按名称构造单个 CallbackData。
func (c *Config) CallbackData(name string) (*callbackdata.CallbackData, error) {
	def, err := c.Definition(name)
	if err != nil {
		return nil, err
	}
	return buildCallbackData(def)
}

// BuildAll 按配置顺序构造全部 CallbackData，收集所有错误后一并返回。
func (c *Config) BuildAll() ([]*callbackdata.CallbackData, error) {
	names := typeutil.NewSet[string]()
	var errs []error
	out := make([]*callbackdata.CallbackData, 0, len(c.Schemas))
	for _, def := range c.Schemas {
		if !names.TryInsert(def.Name) {
			errs = append(errs, merr.WrapErrSchemaInvalid("duplicate schema name "+def.Name))
			continue
		}
		cd, err := buildCallbackData(def)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, cd)
	}
	if err := merr.Combine(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

func buildCallbackData(def schema.Definition) (*callbackdata.CallbackData, error) {
	s, err := def.Build()
	if err != nil {
		return nil, err
	}
	return callbackdata.New(def.Name, s)
}
