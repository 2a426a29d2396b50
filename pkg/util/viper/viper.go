package viper

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	spfviper "github.com/spf13/viper"
)

// Config 封装 spf13/viper 实例，对外提供精简的 YAML/JSON 配置加载接口。
type Config struct {
	v *spfviper.Viper
}

// New 创建一个空的 Config。
//
// envPrefix 非空时开启环境变量覆盖：key 中的 '.' 与 '-' 替换为 '_' 后加上前缀，
// 例如 envPrefix=CALLBACKDATA 时 log.level 对应 CALLBACKDATA_LOG_LEVEL。
// 只有通过 SetDefault 或配置文件声明过的 key 才会在 Unmarshal 时读取环境变量。
func New(envPrefix string) *Config {
	v := spfviper.New()
	if envPrefix != "" {
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		v.AutomaticEnv()
	}
	return &Config{v: v}
}

// SetDefault 设置 key 的默认值。
func (c *Config) SetDefault(key string, value any) {
	c.v.SetDefault(key, value)
}

// LoadFile 将 YAML 或 JSON 配置文件加载到 Config 中。
// 文件类型通过扩展名（.yaml/.yml/.json）推断。
func (c *Config) LoadFile(path string) error {
	c.v.SetConfigFile(path)

	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		c.v.SetConfigType("yaml")
	case ".json":
		c.v.SetConfigType("json")
	default:
		return errors.Newf("unsupported config file extension %q", ext)
	}

	if err := c.v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	return nil
}

// Get 返回 key 对应的原始值。
func (c *Config) Get(key string) any {
	return c.v.Get(key)
}

// Unmarshal 将完整配置反序列化到 dst。
// dst 应为结构体或 map 的指针。
func (c *Config) Unmarshal(dst any) error {
	return c.v.Unmarshal(dst)
}

// UnmarshalKey 将指定 key 对应的子配置反序列化到 dst。
// dst 应为结构体或 map 的指针。
func (c *Config) UnmarshalKey(key string, dst any) error {
	return c.v.UnmarshalKey(key, dst)
}
