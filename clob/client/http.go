package client

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/betbot/relaygate/pkg/logger"
)

// HTTPClient HTTP 客户端接口
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// httpClient HTTP 客户端封装
type httpClient struct {
	client *http.Client
	host   string
}

// newHTTPClient 创建新的 HTTP 客户端
func newHTTPClient(host string, timeout time.Duration) *httpClient {
	transport := &http.Transport{
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &httpClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		host: strings.TrimSuffix(host, "/"),
	}
}

// get 执行 GET 请求
func (h *httpClient) get(endpoint string, headers map[string]string, params map[string]string) (*http.Response, error) {
	reqURL, err := h.buildURL(endpoint, params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	h.setDefaultHeaders(req)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return h.client.Do(req)
}

// post 执行 POST 请求
// rawBody 非空时直接使用（必须与参与签名的字节完全一致），否则序列化 body
func (h *httpClient) post(endpoint string, headers map[string]string, rawBody []byte, body interface{}) (*http.Response, error) {
	reqURL := h.host + endpoint

	var bodyReader io.Reader
	if rawBody != nil {
		bodyReader = bytes.NewReader(rawBody)
	} else if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("序列化请求体失败: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(http.MethodPost, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	h.setDefaultHeaders(req)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	startTime := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		logger.Debugf("[clob] POST %s 请求失败 (耗时 %v): %v", endpoint, time.Since(startTime), err)
		return nil, err
	}
	logger.Debugf("[clob] POST %s 状态码 %d (耗时 %v)", endpoint, resp.StatusCode, time.Since(startTime))
	return resp, nil
}

// delete 执行 DELETE 请求
// rawBody 用于 bulk-body 撤单约定；签名覆盖的字节必须与这里发送的一致
func (h *httpClient) delete(endpoint string, headers map[string]string, params map[string]string, rawBody []byte) (*http.Response, error) {
	reqURL, err := h.buildURL(endpoint, params)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if rawBody != nil {
		bodyReader = bytes.NewReader(rawBody)
	}

	req, err := http.NewRequest(http.MethodDelete, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	h.setDefaultHeaders(req)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return h.client.Do(req)
}

// buildURL 拼接查询参数
func (h *httpClient) buildURL(endpoint string, params map[string]string) (string, error) {
	reqURL := h.host + endpoint
	if len(params) == 0 {
		return reqURL, nil
	}
	u, err := url.Parse(reqURL)
	if err != nil {
		return "", fmt.Errorf("解析 URL 失败: %w", err)
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// setDefaultHeaders 设置默认请求头
func (h *httpClient) setDefaultHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "relaygate-clob")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Content-Type", "application/json")

	if req.Method == http.MethodGet {
		req.Header.Set("Accept-Encoding", "gzip")
	}
}

// parseResponse 解析响应
func parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	// 处理 gzip 压缩的响应
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return fmt.Errorf("创建 gzip 读取器失败: %w", err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(reader)
		return fmt.Errorf("HTTP 错误 %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		bodyBytes, err := io.ReadAll(reader)
		if err != nil {
			return fmt.Errorf("读取响应体失败: %w", err)
		}
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			return fmt.Errorf("解析响应失败: %w, 响应体: %s", err, string(bodyBytes))
		}
	}

	return nil
}

// readErrorBody 读取错误响应体，优先取 JSON 里的 error 字段
func readErrorBody(resp *http.Response) string {
	defer resp.Body.Close()
	bodyBytes, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(bodyBytes, &errResp) == nil && errResp.Error != "" {
		return errResp.Error
	}
	return strings.TrimSpace(string(bodyBytes))
}
