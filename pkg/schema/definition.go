package schema

import (
	"github.com/cockroachdb/errors"
)

// FieldDefinition 为配置文件中的字段描述（yaml/json）。
type FieldDefinition struct {
	Key      string    `mapstructure:"key" yaml:"key" json:"key"`
	Type     FieldType `mapstructure:"type" yaml:"type" json:"type"`
	Values   []string  `mapstructure:"values" yaml:"values,omitempty" json:"values,omitempty"`
	Optional bool      `mapstructure:"optional" yaml:"optional,omitempty" json:"optional,omitempty"`
	Default  any       `mapstructure:"default" yaml:"default,omitempty" json:"default,omitempty"`
}

// Definition 为配置文件中的具名 schema 描述。
//
//	schemas:
//	  - name: orders
//	    fields:
//	      - {key: id, type: number}
//	      - {key: status, type: enum, values: [new, paid], default: new}
type Definition struct {
	Name   string            `mapstructure:"name" yaml:"name" json:"name"`
	Fields []FieldDefinition `mapstructure:"fields" yaml:"fields" json:"fields"`
}

// Build 按字段声明顺序构造 Schema。
func (d Definition) Build() (*Schema, error) {
	b := NewBuilder()
	for _, fd := range d.Fields {
		var opts []FieldOption
		if fd.Optional {
			opts = append(opts, Optional())
		}
		if fd.Default != nil {
			opts = append(opts, Default(fd.Default))
		}
		b.Field(Field{Key: fd.Key, Type: fd.Type, EnumValues: fd.Values}, opts...)
	}
	s, err := b.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "schema %q", d.Name)
	}
	return s, nil
}
