// Package schema 定义紧凑编码使用的字段模型。
//
// Schema 由两组有序字段组成：必填字段与可选字段。字段顺序即编码中的位置约定，
// 已经发出的 payload 依赖这个顺序，因此 Schema 只允许在列表末尾追加新的可选字段。
// Schema 构造完成后只读，可被任意数量的 goroutine 并发使用。
package schema

import (
	"slices"
)

// FieldType 为字段的类型标签。
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeEnum    FieldType = "enum"
	TypeUUID    FieldType = "uuid"
)

// MaxOptionalFields 为可选字段数量上限，受 uint64 存在位图宽度限制。
const MaxOptionalFields = 64

// Valid 判断类型标签是否受支持。
func (t FieldType) Valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeEnum, TypeUUID:
		return true
	default:
		return false
	}
}

func (t FieldType) String() string {
	return string(t)
}

// Field 描述单个字段。
type Field struct {
	Key  string
	Type FieldType
	// EnumValues 仅在 Type 为 TypeEnum 时存在且非空。
	EnumValues []string
	// Default 为 nil 表示没有默认值；默认值只在解码时填充，从不写入 payload。
	Default any
}

// HasDefault 判断字段是否声明了默认值。
func (f Field) HasDefault() bool {
	return f.Default != nil
}

// Schema 为不可变的有序字段集合。
type Schema struct {
	required []Field
	optional []Field
	index    map[string]int
}

// New 使用给定的必填与可选字段构造 Schema。
// 入参切片会被复制，默认值会被规范化（number 统一为 float64，uuid 统一为小写标准格式）。
func New(required, optional []Field) (*Schema, error) {
	s := &Schema{
		required: cloneFields(required),
		optional: cloneFields(optional),
	}
	if err := s.validate(); err != nil {
		return nil, err
	}

	s.index = make(map[string]int, s.Len())
	for i, f := range s.required {
		s.index[f.Key] = i
	}
	for i, f := range s.optional {
		s.index[f.Key] = len(s.required) + i
	}
	return s, nil
}

func cloneFields(fields []Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		f.EnumValues = slices.Clone(f.EnumValues)
		out[i] = f
	}
	return out
}

// Required 返回必填字段。返回的切片为只读视图，调用方不得修改。
func (s *Schema) Required() []Field {
	return s.required
}

// Optional 返回可选字段。返回的切片为只读视图，调用方不得修改。
func (s *Schema) Optional() []Field {
	return s.optional
}

// Len 返回字段总数。
func (s *Schema) Len() int {
	return len(s.required) + len(s.optional)
}

// Field 按 key 查找字段，第二个返回值表示字段是否为可选字段。
func (s *Schema) Field(key string) (field Field, optional bool, ok bool) {
	i, ok := s.index[key]
	if !ok {
		return Field{}, false, false
	}
	if i < len(s.required) {
		return s.required[i], false, true
	}
	return s.optional[i-len(s.required)], true, true
}

// Keys 按编码顺序返回所有字段的 key。
func (s *Schema) Keys() []string {
	keys := make([]string, 0, s.Len())
	for _, f := range s.required {
		keys = append(keys, f.Key)
	}
	for _, f := range s.optional {
		keys = append(keys, f.Key)
	}
	return keys
}
