package compact

import (
	"github.com/google/uuid"

	"github.com/gramiojs/callback-data/pkg/schema"
)

// Values 为字段 key 到字段值的映射。
//
// 编码时可传入任意 Go 数值类型（number）、string 或 uuid.UUID（uuid）；
// 解码结果中 number 为 float64，uuid 为小写标准格式的 string，enum 为成员字符串。
type Values map[string]any

// Has 判断 key 是否存在。
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

func (v Values) String(key string) (string, bool) {
	s, ok := v[key].(string)
	return s, ok
}

func (v Values) Number(key string) (float64, bool) {
	return schema.AsNumber(v[key])
}

// Int 返回整数值，非整数或超出安全整数范围时返回 false。
func (v Values) Int(key string) (int64, bool) {
	n, ok := v.Number(key)
	if !ok || !IsSafeInteger(n) {
		return 0, false
	}
	return int64(n), true
}

func (v Values) Bool(key string) (bool, bool) {
	b, ok := v[key].(bool)
	return b, ok
}

func (v Values) UUID(key string) (uuid.UUID, bool) {
	if _, ok := v[key]; !ok {
		return uuid.Nil, false
	}
	return schema.AsUUID(v[key])
}
