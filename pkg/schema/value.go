package schema

import (
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/gramiojs/callback-data/pkg/util/merr"
)

// MaxSafeInteger 与 JavaScript Number.MAX_SAFE_INTEGER 一致，超出该范围的整数无法无损转换为 float64。
const MaxSafeInteger = 1<<53 - 1

// AsNumber 将 Go 数值类型统一转换为 float64。
//
// 绝对值超过 MaxSafeInteger 的整数类型输入会被拒绝，避免静默丢失精度。
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return safeInt(int64(n))
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return safeInt(n)
	case uint:
		return safeUint(uint64(n))
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return safeUint(n)
	default:
		return 0, false
	}
}

func safeInt(n int64) (float64, bool) {
	if n > MaxSafeInteger || n < -MaxSafeInteger {
		return 0, false
	}
	return float64(n), true
}

func safeUint(n uint64) (float64, bool) {
	if n > MaxSafeInteger {
		return 0, false
	}
	return float64(n), true
}

// AsUUID 接受 uuid.UUID、[16]byte 或 UUID 文本。
func AsUUID(v any) (uuid.UUID, bool) {
	switch u := v.(type) {
	case uuid.UUID:
		return u, true
	case [16]byte:
		return uuid.UUID(u), true
	case string:
		parsed, err := uuid.Parse(u)
		if err != nil {
			return uuid.Nil, false
		}
		return parsed, true
	default:
		return uuid.Nil, false
	}
}

// EnumIndex 返回 value 在 EnumValues 中的下标，不存在时返回 -1。
func (f Field) EnumIndex(value string) int {
	return lo.IndexOf(f.EnumValues, value)
}

// Coerce 校验 v 是否为字段声明类型的合法值，并返回规范化后的值：
// number -> float64，boolean -> bool，string/enum -> string，uuid -> 小写标准格式 string。
//
// 空字符串在这里是合法的（可以作为默认值），编码时另行拒绝。
func (f Field) Coerce(v any) (any, error) {
	switch f.Type {
	case TypeNumber:
		n, ok := AsNumber(v)
		if !ok {
			return nil, merr.WrapErrInvalidFieldValue(f.Key, "number", v)
		}
		return n, nil
	case TypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, merr.WrapErrInvalidFieldValue(f.Key, "boolean", v)
		}
		return b, nil
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, merr.WrapErrInvalidFieldValue(f.Key, "string", v)
		}
		return s, nil
	case TypeEnum:
		s, ok := v.(string)
		if !ok {
			return nil, merr.WrapErrInvalidFieldValue(f.Key, "enum", v)
		}
		if f.EnumIndex(s) < 0 {
			return nil, merr.WrapErrInvalidEnumValue(f.Key, s, f.EnumValues)
		}
		return s, nil
	case TypeUUID:
		u, ok := AsUUID(v)
		if !ok {
			return nil, merr.WrapErrInvalidFieldValue(f.Key, "uuid", v)
		}
		return u.String(), nil
	default:
		return nil, merr.WrapErrUnsupportedType(f.Key, f.Type)
	}
}
