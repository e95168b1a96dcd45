package signing

import (
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/betbot/relaygate/clob/types"
)

// CreateL1Headers 构建 L1 认证头
// 签名由 UI 层的钱包产生，网关只负责按上游要求的头名透传
func CreateL1Headers(address, signature string, timestamp, nonce int64) *types.L1PolyHeader {
	return &types.L1PolyHeader{
		PolyAddress:   address,
		PolySignature: signature,
		PolyTimestamp: strconv.FormatInt(timestamp, 10),
		PolyNonce:     strconv.FormatInt(nonce, 10),
	}
}

// CreateL2Headers 构建 L2 认证头（API 密钥 + HMAC 签名）
// timestamp 为 nil 时取当前 Unix 秒；重试必须重新取时间戳，
// 上游强制时钟偏差窗口，过期签名直接拒绝
func CreateL2Headers(
	address string,
	creds *types.ApiKeyCreds,
	args *types.L2HeaderArgs,
	timestamp *int64,
) (*types.L2PolyHeader, error) {
	ts := time.Now().Unix()
	if timestamp != nil {
		ts = *timestamp
	}

	sig, err := BuildHmacSignature(
		creds.Secret,
		ts,
		args.Method,
		args.RequestPath,
		args.Body,
	)
	if err != nil {
		return nil, errors.Wrap(err, "构建 HMAC 签名失败")
	}

	return &types.L2PolyHeader{
		PolyAddress:    address,
		PolySignature:  sig,
		PolyTimestamp:  strconv.FormatInt(ts, 10),
		PolyAPIKey:     creds.Key,
		PolyPassphrase: creds.Passphrase,
	}, nil
}
