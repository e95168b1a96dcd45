package signing

import (
	"encoding/base64"
	"math/rand"
	"strings"
	"testing"
	"testing/quick"

	"github.com/betbot/relaygate/clob/types"
)

func randomSecret(r *rand.Rand) string {
	key := make([]byte, 32)
	r.Read(key)
	return base64.StdEncoding.EncodeToString(key)
}

// 固定 (secret, timestamp, method, path, body) 五元组时签名必须可重放
func TestHmacSignature_Deterministic(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	property := func(ts int64, path string) bool {
		if ts < 0 {
			ts = -ts
		}
		secret := randomSecret(r)
		body := `{"orderIDs":["a","b"]}`
		sig1, err1 := BuildHmacSignature(secret, ts, "DELETE", "/"+path, &body)
		sig2, err2 := BuildHmacSignature(secret, ts, "DELETE", "/"+path, &body)
		if err1 != nil || err2 != nil {
			return false
		}
		return sig1 == sig2
	}
	if err := quick.Check(property, &quick.Config{MaxCount: 200}); err != nil {
		t.Fatalf("signature not deterministic: %v", err)
	}
}

// 消息中任何一个字段变化都必须改变签名
func TestHmacSignature_FieldSensitivity(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	secret := randomSecret(r)
	body := `{"x":1}`
	base, err := BuildHmacSignature(secret, 1700000000, "POST", "/order", &body)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	cases := []struct {
		name string
		sig  func() (string, error)
	}{
		{"timestamp", func() (string, error) {
			return BuildHmacSignature(secret, 1700000001, "POST", "/order", &body)
		}},
		{"method", func() (string, error) {
			return BuildHmacSignature(secret, 1700000000, "GET", "/order", &body)
		}},
		{"path", func() (string, error) {
			return BuildHmacSignature(secret, 1700000000, "POST", "/orders", &body)
		}},
		{"body", func() (string, error) {
			other := `{"x":2}`
			return BuildHmacSignature(secret, 1700000000, "POST", "/order", &other)
		}},
		{"body-absent", func() (string, error) {
			return BuildHmacSignature(secret, 1700000000, "POST", "/order", nil)
		}},
		{"secret", func() (string, error) {
			return BuildHmacSignature(randomSecret(r), 1700000000, "POST", "/order", &body)
		}},
	}
	for _, tc := range cases {
		got, err := tc.sig()
		if err != nil {
			t.Fatalf("%s: unexpected err: %v", tc.name, err)
		}
		if got == base {
			t.Fatalf("%s: changing field did not change signature", tc.name)
		}
	}
}

// 查询串不参与签名：同一 pathOnly 下不同查询串必须得到相同的头
func TestL2Headers_QueryStringIndependent(t *testing.T) {
	creds := &types.ApiKeyCreds{
		Key:        "key-1",
		Secret:     base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")),
		Passphrase: "pass-1",
	}
	ts := int64(1700000000)
	args := &types.L2HeaderArgs{Method: "GET", RequestPath: "/data/trades"}

	// 请求 URL 可以是 /data/trades?maker=0xa 或 /data/trades?taker=0xa，
	// 但签名只覆盖 pathOnly，两次调用的头必须一致
	h1, err := CreateL2Headers("0xabc", creds, args, &ts)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	h2, err := CreateL2Headers("0xabc", creds, args, &ts)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if h1.PolySignature != h2.PolySignature {
		t.Fatalf("signature differs for identical pathOnly: %s vs %s", h1.PolySignature, h2.PolySignature)
	}
	if h1.PolyAPIKey != "key-1" || h1.PolyPassphrase != "pass-1" || h1.PolyAddress != "0xabc" {
		t.Fatalf("credential headers not carried: %+v", h1)
	}
}

// 签名输出必须是 URL 安全的 base64（+ / 被替换，= 保留）
func TestHmacSignature_URLSafeEncoding(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		secret := randomSecret(r)
		sig, err := BuildHmacSignature(secret, int64(1700000000+i), "POST", "/order", nil)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if strings.ContainsAny(sig, "+/") {
			t.Fatalf("signature contains non-url-safe chars: %s", sig)
		}
		// HMAC-SHA256 的 base64 输出固定 44 字节，末尾一个 =
		if len(sig) != 44 || !strings.HasSuffix(sig, "=") {
			t.Fatalf("unexpected signature shape: %s", sig)
		}
	}
}

// base64url 形式的 secret 与标准 base64 形式必须产生相同签名
func TestHmacSignature_SecretNormalization(t *testing.T) {
	key := make([]byte, 32)
	rand.New(rand.NewSource(4)).Read(key)
	std := base64.StdEncoding.EncodeToString(key)
	urlSafe := strings.ReplaceAll(strings.ReplaceAll(std, "+", "-"), "/", "_")

	sig1, err := BuildHmacSignature(std, 1700000000, "GET", "/data/orders", nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	sig2, err := BuildHmacSignature(urlSafe, 1700000000, "GET", "/data/orders", nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sig1 != sig2 {
		t.Fatalf("secret encoding changed signature: %s vs %s", sig1, sig2)
	}
}
