package schema

import (
	"github.com/cockroachdb/errors"
)

type fieldOptions struct {
	optional bool
	def      any
}

// FieldOption 用于配置 Builder 添加的字段。
type FieldOption func(opt *fieldOptions)

// Optional 将字段放入可选字段列表。
func Optional() FieldOption {
	return func(opt *fieldOptions) {
		opt.optional = true
	}
}

// Default 为字段声明默认值，同时隐含 Optional。
// 默认值只在解码时填充，修改默认值不会影响已经发出的 payload。
func Default(v any) FieldOption {
	return func(opt *fieldOptions) {
		opt.optional = true
		opt.def = v
	}
}

// Builder 以链式调用构造 Schema。
//
//	s, err := schema.NewBuilder().
//		Number("id").
//		Enum("role", []string{"user", "admin"}).
//		String("name", schema.Optional()).
//		Build()
//
// 字段按添加顺序分别追加到必填或可选列表末尾。
type Builder struct {
	required []Field
	optional []Field
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) String(key string, opts ...FieldOption) *Builder {
	return b.add(Field{Key: key, Type: TypeString}, opts)
}

func (b *Builder) Number(key string, opts ...FieldOption) *Builder {
	return b.add(Field{Key: key, Type: TypeNumber}, opts)
}

func (b *Builder) Boolean(key string, opts ...FieldOption) *Builder {
	return b.add(Field{Key: key, Type: TypeBoolean}, opts)
}

func (b *Builder) UUID(key string, opts ...FieldOption) *Builder {
	return b.add(Field{Key: key, Type: TypeUUID}, opts)
}

func (b *Builder) Enum(key string, values []string, opts ...FieldOption) *Builder {
	return b.add(Field{Key: key, Type: TypeEnum, EnumValues: values}, opts)
}

// Field 添加一个已经描述好的字段，通常用于从配置文件加载 schema。
func (b *Builder) Field(f Field, opts ...FieldOption) *Builder {
	return b.add(f, opts)
}

func (b *Builder) add(f Field, opts []FieldOption) *Builder {
	o := &fieldOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.def != nil {
		f.Default = o.def
	}
	if o.optional || f.HasDefault() {
		b.optional = append(b.optional, f)
	} else {
		b.required = append(b.required, f)
	}
	return b
}

// Build 校验并生成不可变的 Schema。
func (b *Builder) Build() (*Schema, error) {
	s, err := New(b.required, b.optional)
	if err != nil {
		return nil, errors.Wrap(err, "build schema")
	}
	return s, nil
}

// MustBuild 与 Build 相同，但在 schema 非法时 panic，适用于包级变量初始化。
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
