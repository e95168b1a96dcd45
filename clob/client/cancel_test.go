package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/betbot/relaygate/clob/types"
)

func testCreds() *types.ApiKeyCreds {
	return &types.ApiKeyCreds{
		Key:        "test-api-key",
		Secret:     base64.URLEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")),
		Passphrase: "test-pass",
	}
}

func newTestClient(t *testing.T, handler http.Handler, convention types.CancelConvention) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "0xAbCd", testCreds(), &Options{CancelConvention: convention})
}

// path-only 约定下部分失败：成功与失败并列返回，整体不报错
func TestCancelOrders_PartialFailure(t *testing.T) {
	cl := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/order", r.URL.Path)

		if r.URL.Query().Get("orderID") == "Y" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "order not found"})
			return
		}
		w.WriteHeader(http.StatusOK)
	}), types.CancelPathOnly)

	result, err := cl.CancelOrders(context.Background(), []string{"X", "Y", "Z"})
	require.NoError(t, err)
	require.Equal(t, []string{"X", "Z"}, result.Cancelled)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "Y: ")
	require.Contains(t, result.Errors[0], "order not found")
	require.False(t, result.AllFailed())
}

// 全部失败时整体失败，第一条错误作为原因
func TestCancelOrders_AllFailed(t *testing.T) {
	cl := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid signature"})
	}), types.CancelPathOnly)

	result, err := cl.CancelOrders(context.Background(), []string{"X", "Y"})
	require.NoError(t, err)
	require.True(t, result.AllFailed())
	require.Empty(t, result.Cancelled)
	require.Len(t, result.Errors, 2)
}

// bulk-body 约定：单次 DELETE 携带 id 列表，签名覆盖 path+body
func TestCancelOrders_BulkBody(t *testing.T) {
	var gotBody types.CancelBody
	cl := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("POLY_SIGNATURE"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"canceled":     []string{"A"},
			"not_canceled": map[string]string{"B": "order already filled"},
		})
	}), types.CancelBulkBody)

	result, err := cl.CancelOrders(context.Background(), []string{"A", "B"})
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, gotBody.OrderIDs)
	require.Equal(t, []string{"A"}, result.Cancelled)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "B: order already filled")
}

func TestCancelOrders_EmptyList(t *testing.T) {
	cl := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("空 id 列表不应发起任何请求")
	}), types.CancelPathOnly)

	_, err := cl.CancelOrders(context.Background(), nil)
	var ve *types.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestCancelOrders_NotLinked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("未绑定凭证时不应发起任何请求")
	}))
	t.Cleanup(server.Close)

	cl := NewClient(server.URL, "0xAbCd", nil, nil)
	_, err := cl.CancelOrders(context.Background(), []string{"X"})
	var nle *types.NotLinkedError
	require.ErrorAs(t, err, &nle)
}
