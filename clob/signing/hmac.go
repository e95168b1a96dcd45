package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// BuildHmacSignature 构建 CLOB L2 HMAC 签名
// 消息 = timestamp + METHOD + path (+ body)；查询串永远不参与签名。
// 任何一个字节变化都会改变签名，上游据此校验请求完整性
func BuildHmacSignature(
	secret string,
	timestamp int64,
	method string,
	requestPath string,
	body *string,
) (string, error) {
	message := strconv.FormatInt(timestamp, 10) + strings.ToUpper(method) + requestPath
	if body != nil {
		message += *body
	}

	keyData, err := decodeSecret(secret)
	if err != nil {
		return "", errors.Wrap(err, "解码 secret 失败")
	}

	mac := hmac.New(sha256.New, keyData)
	mac.Write([]byte(message))
	signature := mac.Sum(nil)

	sigBase64 := base64.StdEncoding.EncodeToString(signature)

	// 转换为 URL 安全的 base64（保留 = 后缀）
	sigURLSafe := strings.ReplaceAll(sigBase64, "+", "-")
	sigURLSafe = strings.ReplaceAll(sigURLSafe, "/", "_")

	return sigURLSafe, nil
}

// decodeSecret 解码 base64 密钥
// 上游下发的 secret 可能是 base64url 形式，先归一化再解码
func decodeSecret(secret string) ([]byte, error) {
	sanitized := strings.ReplaceAll(secret, "-", "+")
	sanitized = strings.ReplaceAll(sanitized, "_", "/")

	// 移除非 base64 字符
	sanitized = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') ||
			(r >= '0' && r <= '9') || r == '+' || r == '/' || r == '=' {
			return r
		}
		return -1
	}, sanitized)

	return base64.StdEncoding.DecodeString(sanitized)
}
