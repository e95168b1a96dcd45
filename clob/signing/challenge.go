package signing

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"
)

const (
	// ClobDomainName EIP712 域名名称
	ClobDomainName = "ClobAuthDomain"

	// ClobVersion EIP712 版本
	ClobVersion = "1"

	// MsgToSign 签名消息
	MsgToSign = "This message attests that I control the given wallet"

	// PolygonChainID 主网链 ID
	PolygonChainID = 137
)

// ChallengeDigest 计算 ClobAuth challenge 的 EIP712 摘要
// 与上游约定的 typed data 结构逐字段一致，任何偏差都会导致恢复出错误地址
func ChallengeDigest(address string, timestamp, nonce int64) ([]byte, error) {
	chainID := math.NewHexOrDecimal256(PolygonChainID)
	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
			},
			"ClobAuth": []apitypes.Type{
				{Name: "address", Type: "address"},
				{Name: "timestamp", Type: "string"},
				{Name: "nonce", Type: "uint256"},
				{Name: "message", Type: "string"},
			},
		},
		PrimaryType: "ClobAuth",
		Domain: apitypes.TypedDataDomain{
			Name:    ClobDomainName,
			Version: ClobVersion,
			ChainId: chainID,
		},
		Message: map[string]interface{}{
			"address":   common.HexToAddress(address).Hex(),
			"timestamp": strconv.FormatInt(timestamp, 10),
			"nonce":     math.NewHexOrDecimal256(nonce),
			"message":   MsgToSign,
		},
	}

	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return nil, errors.Wrap(err, "计算 domain separator 失败")
	}
	typedDataHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, errors.Wrap(err, "计算 message hash 失败")
	}

	rawData := []byte(fmt.Sprintf("\x19\x01%s%s", string(domainSeparator), string(typedDataHash)))
	hash := crypto.Keccak256Hash(rawData)
	return hash.Bytes(), nil
}

// VerifyChallengeSignature 本地校验 challenge 签名
// 从签名恢复出签名者地址，与调用方声明的地址比对；
// 不一致时直接拒绝，避免拿错误签名去打上游
func VerifyChallengeSignature(address, signature string, timestamp, nonce int64) error {
	sigHex := strings.TrimPrefix(signature, "0x")
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return errors.Wrap(err, "签名不是合法的 hex")
	}
	if len(sig) != 65 {
		return fmt.Errorf("签名长度必须是 65 字节，实际 %d", len(sig))
	}

	// 恢复用的 v 需要回到 {0,1}
	sigCopy := make([]byte, 65)
	copy(sigCopy, sig)
	if sigCopy[64] >= 27 {
		sigCopy[64] -= 27
	}

	digest, err := ChallengeDigest(address, timestamp, nonce)
	if err != nil {
		return err
	}

	pubKey, err := crypto.SigToPub(digest, sigCopy)
	if err != nil {
		return errors.Wrap(err, "从签名恢复公钥失败")
	}

	recovered := crypto.PubkeyToAddress(*pubKey)
	if !strings.EqualFold(recovered.Hex(), common.HexToAddress(address).Hex()) {
		return fmt.Errorf("签名者 %s 与声明地址 %s 不一致", recovered.Hex(), address)
	}
	return nil
}
