package callbackdata

import (
	"crypto/md5" // #nosec G501 旧格式标识符，仅用于兼容
	"crypto/sha1" // #nosec G505
	"encoding/base64"
	"encoding/hex"
)

// IDLen 为标识符长度，当前格式与旧格式相同。
const IDLen = 6

// LegacySeparator 分隔旧格式 payload 的标识符与结构化 dump。
const LegacySeparator = '|'

// computeID 返回 base64url(SHA-1(name)) 的前 IDLen 个字符。
func computeID(name string) string {
	sum := sha1.Sum([]byte(name)) // #nosec G401
	return base64.RawURLEncoding.EncodeToString(sum[:])[:IDLen]
}

// computeLegacyID 返回 hex(MD5(name)) 的前 IDLen 个字符。
func computeLegacyID(name string) string {
	sum := md5.Sum([]byte(name)) // #nosec G401
	return hex.EncodeToString(sum[:])[:IDLen]
}
