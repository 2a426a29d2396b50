// Package callbackdata 在紧凑编码之上提供带标识符的 payload：
//
//	<id><compact body>          当前格式，id 为定长 6 字符
//	<legacy id>|<json dump>     旧格式，仅用于解析仍在流通的历史 payload
//
// 多个 CallbackData 可以通过 Matches 判断 payload 归属，Router 按注册顺序完成分发。
package callbackdata

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/gramiojs/callback-data/internal/serializer"
	"github.com/gramiojs/callback-data/pkg/compact"
	"github.com/gramiojs/callback-data/pkg/metrics"
	"github.com/gramiojs/callback-data/pkg/schema"
	"github.com/gramiojs/callback-data/pkg/util/merr"
)

// CallbackData 将具名 schema 与其标识符绑定。构造完成后只读，可并发使用。
type CallbackData struct {
	name     string
	schema   *schema.Schema
	id       string
	legacyID string
	ser      serializer.Serializer
	pattern  *regexp.Regexp
}

// Option 用于配置 CallbackData。
type Option func(cd *CallbackData)

// WithSerializer 替换旧格式 dump 使用的序列化实现，默认为 JSON。
func WithSerializer(ser serializer.Serializer) Option {
	return func(cd *CallbackData) {
		cd.ser = ser
	}
}

// New 创建名为 name 的 CallbackData。
func New(name string, s *schema.Schema, opts ...Option) (*CallbackData, error) {
	if name == "" {
		return nil, errors.New("callbackdata: name must not be empty")
	}
	if s == nil {
		return nil, errors.Newf("callbackdata: schema is nil for %q", name)
	}

	cd := &CallbackData{
		name:     name,
		schema:   s,
		id:       computeID(name),
		legacyID: computeLegacyID(name),
		ser:      serializer.JSONSerializer{},
	}
	for _, opt := range opts {
		opt(cd)
	}
	if cd.ser == nil {
		return nil, errors.Newf("callbackdata: serializer is nil for %q", name)
	}
	cd.pattern = regexp.MustCompile(`^(?:` + regexp.QuoteMeta(cd.id) + `|` +
		regexp.QuoteMeta(cd.legacyID+string(LegacySeparator)) + `)(?s:(.*))$`)
	return cd, nil
}

// MustNew 与 New 相同，出错时 panic。
func MustNew(name string, s *schema.Schema, opts ...Option) *CallbackData {
	cd, err := New(name, s, opts...)
	if err != nil {
		panic(err)
	}
	return cd
}

func (cd *CallbackData) Name() string {
	return cd.name
}

func (cd *CallbackData) Schema() *schema.Schema {
	return cd.schema
}

// ID 返回当前格式的标识符。
func (cd *CallbackData) ID() string {
	return cd.id
}

// LegacyID 返回旧格式的标识符。
func (cd *CallbackData) LegacyID() string {
	return cd.legacyID
}

// Pack 返回 ID() 与紧凑编码拼接后的 payload。
func (cd *CallbackData) Pack(values compact.Values) (string, error) {
	body, err := compact.Encode(cd.schema, values)
	if err != nil {
		metrics.PackTotal.WithLabelValues(cd.name, metrics.FailLabel).Inc()
		return "", err
	}
	payload := cd.id + body
	metrics.PackTotal.WithLabelValues(cd.name, metrics.SuccessLabel).Inc()
	metrics.PayloadBytes.WithLabelValues(cd.name).Observe(float64(len(payload)))
	return payload, nil
}

// Matches 判断 payload 是否属于当前 CallbackData，只做前缀比较，不尝试解码。
func (cd *CallbackData) Matches(payload string) bool {
	return strings.HasPrefix(payload, cd.id) || cd.isLegacy(payload)
}

// Regexp 返回与 Matches 等价的正则表达式，第一个分组为标识符之后的内容。
func (cd *CallbackData) Regexp() *regexp.Regexp {
	return cd.pattern
}

func (cd *CallbackData) isLegacy(payload string) bool {
	return len(payload) > IDLen && payload[IDLen] == LegacySeparator && payload[:IDLen] == cd.legacyID
}

// Unpack 解析 payload。旧格式优先，其次为当前格式；两者都不匹配时返回 ErrCallbackDataMismatch。
func (cd *CallbackData) Unpack(payload string) (compact.Values, error) {
	format := metrics.CompactFormatLabel
	var (
		values compact.Values
		err    error
	)
	switch {
	case cd.isLegacy(payload):
		format = metrics.LegacyFormatLabel
		values, err = cd.unpackLegacy(payload[IDLen+1:])
	case strings.HasPrefix(payload, cd.id):
		values, err = compact.Decode(cd.schema, payload[IDLen:])
	default:
		err = merr.WrapErrCallbackDataMismatch(cd.name, payload)
	}

	if err != nil {
		metrics.UnpackTotal.WithLabelValues(cd.name, format, metrics.FailLabel).Inc()
		return nil, err
	}
	metrics.UnpackTotal.WithLabelValues(cd.name, format, metrics.SuccessLabel).Inc()
	return values, nil
}
