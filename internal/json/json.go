// Package json 是 bytedance/sonic 的薄封装，统一项目内的 JSON 编解码入口。
package json

import (
	"github.com/bytedance/sonic"
)

// api 与 encoding/json 行为保持一致（map key 排序、HTML 转义），保证输出稳定。
var api = sonic.ConfigStd

func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}
