package service

import (
	"fmt"
	"hash/fnv"
)

// Fingerprint 用 FNV-1a 把调用方网络地址与服务端盐拼接后哈希，
// 得到不可逆的匿名指纹。原始地址在请求结束后即被丢弃。
func Fingerprint(addr, salt string) string {
	if addr == "" {
		return ""
	}
	h := fnv.New64a()
	h.Write([]byte(addr))
	h.Write([]byte(salt))
	return fmt.Sprintf("%016x", h.Sum64())
}
