package schema

import (
	"fmt"

	"github.com/gramiojs/callback-data/pkg/util/merr"
	"github.com/gramiojs/callback-data/pkg/util/typeutil"
)

// validate 检查 Schema 的全部约束，并规范化字段默认值。
// 所有问题会被合并为一个错误返回，方便一次性修正 schema 定义。
func (s *Schema) validate() error {
	var errs []error

	if len(s.optional) > MaxOptionalFields {
		errs = append(errs, merr.WrapErrSchemaInvalid(
			fmt.Sprintf("too many optional fields: %d > %d", len(s.optional), MaxOptionalFields)))
	}

	keys := typeutil.NewSet[string]()
	check := func(fields []Field) {
		for i := range fields {
			f := &fields[i]
			if f.Key == "" {
				errs = append(errs, merr.WrapErrSchemaInvalid("field key must not be empty"))
				continue
			}
			if !keys.TryInsert(f.Key) {
				errs = append(errs, merr.WrapErrSchemaInvalidField(f.Key, "duplicate field key"))
			}
			if err := validateField(f); err != nil {
				errs = append(errs, err)
			}
		}
	}
	check(s.required)
	check(s.optional)

	for _, f := range s.required {
		if f.HasDefault() {
			errs = append(errs, merr.WrapErrSchemaInvalidField(f.Key, "required field must not declare a default"))
		}
	}

	return merr.Combine(errs...)
}

func validateField(f *Field) error {
	if !f.Type.Valid() {
		return merr.WrapErrUnsupportedType(f.Key, f.Type)
	}

	if f.Type == TypeEnum {
		if len(f.EnumValues) == 0 {
			return merr.WrapErrSchemaInvalidField(f.Key, "enum field requires at least one value")
		}
		members := typeutil.NewSet[string]()
		for _, v := range f.EnumValues {
			if !members.TryInsert(v) {
				return merr.WrapErrSchemaInvalidField(f.Key, fmt.Sprintf("duplicate enum value %q", v))
			}
		}
	} else if len(f.EnumValues) > 0 {
		return merr.WrapErrSchemaInvalidField(f.Key, "enum values declared on non-enum field")
	}

	if f.HasDefault() {
		normalized, err := f.Coerce(f.Default)
		if err != nil {
			return merr.Combine(merr.WrapErrSchemaInvalidField(f.Key, "invalid default value"), err)
		}
		f.Default = normalized
	}
	return nil
}
