package log

import (
	"go.uber.org/zap"
)

const (
	FieldNameModule    = "module"
	FieldNameComponent = "component"
	FieldNameSchema    = "schema"
	FieldNamePayload   = "payload"
)

// FieldModule 返回一个包含模块名的 zap 字段。
func FieldModule(module string) zap.Field {
	return zap.String(FieldNameModule, module)
}

// FieldComponent 返回一个包含组件名的 zap 字段。
func FieldComponent(component string) zap.Field {
	return zap.String(FieldNameComponent, component)
}

// FieldSchema 返回一个包含 schema 名称的 zap 字段。
func FieldSchema(name string) zap.Field {
	return zap.String(FieldNameSchema, name)
}

// FieldPayload 返回一个包含 payload 原文的 zap 字段。
func FieldPayload(payload string) zap.Field {
	return zap.String(FieldNamePayload, payload)
}
