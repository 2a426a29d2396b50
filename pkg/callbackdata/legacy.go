package callbackdata

import (
	"github.com/cockroachdb/errors"

	"github.com/gramiojs/callback-data/pkg/compact"
	"github.com/gramiojs/callback-data/pkg/schema"
	"github.com/gramiojs/callback-data/pkg/util/merr"
)

// PackLegacy 生成旧格式 payload：<legacy id>|<dump>。
//
// 只输出 schema 中声明的字段，值按字段类型规范化；未提供的可选字段不输出。
func (cd *CallbackData) PackLegacy(values compact.Values) (string, error) {
	dump := make(map[string]any, cd.schema.Len())
	for _, f := range cd.schema.Required() {
		v, ok := values[f.Key]
		if !ok || v == nil {
			return "", merr.WrapErrMissingRequiredField(f.Key)
		}
		coerced, err := f.Coerce(v)
		if err != nil {
			return "", err
		}
		dump[f.Key] = coerced
	}
	for _, f := range cd.schema.Optional() {
		v, ok := values[f.Key]
		if !ok || v == nil {
			continue
		}
		coerced, err := f.Coerce(v)
		if err != nil {
			return "", err
		}
		dump[f.Key] = coerced
	}

	data, err := cd.ser.Marshal(dump)
	if err != nil {
		return "", errors.Wrapf(err, "marshal legacy payload for %q", cd.name)
	}
	return cd.legacyID + string(LegacySeparator) + string(data), nil
}

// unpackLegacy 解析旧格式 dump，并按当前 schema 校验与补全：
// 必填字段缺失报错，可选字段缺失时填充默认值，schema 之外的 key 被丢弃。
func (cd *CallbackData) unpackLegacy(dump string) (compact.Values, error) {
	raw := make(map[string]any)
	if err := cd.ser.Unmarshal([]byte(dump), &raw); err != nil {
		return nil, merr.WrapErrMalformedPayloadMsg("legacy payload for %s: %s", cd.name, err.Error())
	}

	out := make(compact.Values, cd.schema.Len())
	fill := func(f schema.Field, v any) error {
		coerced, err := f.Coerce(v)
		if err != nil {
			return err
		}
		out[f.Key] = coerced
		return nil
	}

	for _, f := range cd.schema.Required() {
		v, ok := raw[f.Key]
		if !ok || v == nil {
			return nil, merr.WrapErrMissingRequiredField(f.Key, "legacy payload")
		}
		if err := fill(f, v); err != nil {
			return nil, err
		}
	}
	for _, f := range cd.schema.Optional() {
		v, ok := raw[f.Key]
		switch {
		case ok && v != nil:
			if err := fill(f, v); err != nil {
				return nil, err
			}
		case f.HasDefault():
			out[f.Key] = f.Default
		}
	}
	return out, nil
}
