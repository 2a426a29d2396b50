package serializer

// Serializer 抽象了“对象 <-> 字节流”的序列化能力。
//
// 旧格式 payload（<legacy id>|<dump>）的 dump 部分通过该接口编解码，
// 调用方可以注入其它实现以兼容不同的历史生产者。
type Serializer interface {
	// Marshal 将任意对象编码为字节序列。
	Marshal(v any) ([]byte, error)

	// Unmarshal 将字节序列解码到目标对象。
	//
	// v 通常为指针类型，用于接收解码结果。
	Unmarshal(data []byte, v any) error
}
