package client

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/betbot/relaygate/clob/types"
	"github.com/betbot/relaygate/pkg/logger"
)

// CreateOrDeriveAPIKey 创建或推导 API 密钥（L1 方法）
// 先尝试创建；该钱包已有密钥时创建会被拒绝，转为用同一份签名推导现有密钥。
// 两条路都被上游拒绝时返回 AuthDerivationError，原文放在 Upstream 字段
func (c *Client) CreateOrDeriveAPIKey(ctx context.Context, l1 *types.L1PolyHeader) (*types.ApiKeyCreds, error) {
	headerMap := l1.Map()

	// 先尝试创建新的 API 密钥
	var createMsg string
	resp, err := c.httpClient.post(EndpointCreateAPIKey, headerMap, nil, map[string]interface{}{})
	if err != nil {
		// 网络错误，直接尝试推导
		createMsg = err.Error()
	} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return parseAPIKeyResponse(resp)
	} else {
		createMsg = readErrorBody(resp)
		logger.Debugf("[auth] create 被拒绝 (HTTP %d): %s", resp.StatusCode, createMsg)
	}

	// 创建失败（通常是密钥已存在），用同一份签名推导现有密钥
	resp, err = c.httpClient.get(EndpointDeriveAPIKey, headerMap, nil)
	if err != nil {
		return nil, &types.AuthDerivationError{Upstream: joinUpstream(createMsg, err.Error())}
	}
	if resp.StatusCode != http.StatusOK {
		deriveMsg := readErrorBody(resp)
		return nil, &types.AuthDerivationError{Upstream: joinUpstream(createMsg, deriveMsg)}
	}

	return parseAPIKeyResponse(resp)
}

func parseAPIKeyResponse(resp *http.Response) (*types.ApiKeyCreds, error) {
	var raw types.ApiKeyRaw
	if err := parseResponse(resp, &raw); err != nil {
		return nil, errors.Wrap(err, "解析 API 密钥响应失败")
	}
	return &types.ApiKeyCreds{
		Key:        raw.ApiKey,
		Secret:     raw.Secret,
		Passphrase: raw.Passphrase,
	}, nil
}

func joinUpstream(createMsg, deriveMsg string) string {
	if createMsg == "" {
		return deriveMsg
	}
	if deriveMsg == "" {
		return createMsg
	}
	return "create: " + createMsg + "; derive: " + deriveMsg
}
