package gateway

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/betbot/relaygate/clob/dataapi"
	"github.com/betbot/relaygate/internal/credstore"
	"github.com/betbot/relaygate/pkg/config"
)

// newTestServer 组装一个不触网的网关：上游是计数用的 httptest 服务，
// 命中即说明请求泄漏到了网络层
func newTestServer(t *testing.T) (*Server, *int64) {
	t.Helper()

	var upstreamHits int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&upstreamHits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(upstream.Close)

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Clob.Host = upstream.URL
	cfg.Clob.DataAPIHost = upstream.URL

	creds, err := credstore.Open(credstore.OpenOptions{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = creds.Close() })

	s := New(Deps{
		Config:  cfg,
		Creds:   creds,
		DataAPI: dataapi.NewClient(upstream.URL),
	})
	return s, &upstreamHits
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// 校验失败必须在发起任何网络请求之前短路
func TestPlaceOrder_ValidationShortCircuit(t *testing.T) {
	s, hits := newTestServer(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"价格越界", map[string]any{
			"address": "0xabc", "tokenId": "123", "side": "BUY",
			"size": 10.0, "price": 1.5,
			"order": map[string]any{"signature": "0x00"},
		}},
		{"数量为零", map[string]any{
			"address": "0xabc", "tokenId": "123", "side": "SELL",
			"size": 0.0, "price": 0.5,
			"order": map[string]any{"signature": "0x00"},
		}},
		{"tokenId 为空", map[string]any{
			"address": "0xabc", "tokenId": "", "side": "BUY",
			"size": 10.0, "price": 0.5,
			"order": map[string]any{"signature": "0x00"},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, s, http.MethodPost, "/api/orders", tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			env := decodeEnvelope(t, w)
			require.Equal(t, false, env["success"])
			require.Equal(t, CodeValidation, env["code"])
		})
	}

	require.Zero(t, atomic.LoadInt64(hits), "校验短路时上游不应收到任何请求")
}

// 数字 0/1 编码的方向在边界处归一化，不应被当作非法输入
func TestPlaceOrder_NumericSideAccepted(t *testing.T) {
	s, _ := newTestServer(t)

	// side=0(BUY) 合法，但该地址未绑定凭证，应得到 NOT_LINKED 而不是 VALIDATION
	w := doJSON(t, s, http.MethodPost, "/api/orders", map[string]any{
		"address": "0xabc", "tokenId": "123", "side": 0,
		"size": 10.0, "price": 0.5,
		"order": map[string]any{"signature": "0x00"},
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	env := decodeEnvelope(t, w)
	require.Equal(t, CodeNotLinked, env["code"])
}

func TestCancelOrders_EmptyIDsRejected(t *testing.T) {
	s, hits := newTestServer(t)

	w := doJSON(t, s, http.MethodDelete, "/api/orders", map[string]any{
		"address":  "0xabc",
		"orderIds": []string{},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, false, decodeEnvelope(t, w)["success"])
	require.Zero(t, atomic.LoadInt64(hits))
}

func TestCORS_PreflightAnswered(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
