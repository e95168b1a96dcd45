package signing

import (
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func signChallenge(t *testing.T, keyHex string, address string, ts, nonce int64) string {
	t.Helper()
	key, err := crypto.HexToECDSA(keyHex)
	require.NoError(t, err)

	digest, err := ChallengeDigest(address, ts, nonce)
	require.NoError(t, err)

	sig, err := crypto.Sign(digest, key)
	require.NoError(t, err)
	// 钱包侧输出的 v 是 27/28
	sig[64] += 27
	return "0x" + hex.EncodeToString(sig)
}

func TestVerifyChallengeSignature_RoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()
	keyHex := hex.EncodeToString(crypto.FromECDSA(key))

	sig := signChallenge(t, keyHex, address, 1700000000, 0)
	require.NoError(t, VerifyChallengeSignature(address, sig, 1700000000, 0))
}

// 声明地址与签名人不一致时必须拒绝
func TestVerifyChallengeSignature_WrongAddress(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()
	keyHex := hex.EncodeToString(crypto.FromECDSA(key))

	sig := signChallenge(t, keyHex, address, 1700000000, 0)
	other := "0x0000000000000000000000000000000000000001"
	require.Error(t, VerifyChallengeSignature(other, sig, 1700000000, 0))
}

// challenge 内容（时间戳 / nonce）变化后旧签名失效
func TestVerifyChallengeSignature_StaleChallenge(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()
	keyHex := hex.EncodeToString(crypto.FromECDSA(key))

	sig := signChallenge(t, keyHex, address, 1700000000, 0)
	require.Error(t, VerifyChallengeSignature(address, sig, 1700000001, 0))
	require.Error(t, VerifyChallengeSignature(address, sig, 1700000000, 1))
}

func TestVerifyChallengeSignature_MalformedInput(t *testing.T) {
	require.Error(t, VerifyChallengeSignature("0xabc", "0xzz", 1700000000, 0))
	require.Error(t, VerifyChallengeSignature("0xabc", "0x0102", 1700000000, 0))
}
