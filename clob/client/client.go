package client

import (
	"strings"
	"time"

	"github.com/betbot/relaygate/clob/types"
	"github.com/betbot/relaygate/pkg/ratelimit"
)

// Client CLOB 客户端
// 每个请求按调用方声明的钱包地址单独构建，凭证从服务端存储读取后注入，
// 客户端本身无共享可变状态，可被并发请求安全复用
type Client struct {
	host             string
	address          string
	creds            *types.ApiKeyCreds
	cancelConvention types.CancelConvention
	httpClient       *httpClient
	rateLimiter      *ratelimit.Manager
}

// Options 客户端可选配置
type Options struct {
	// CancelConvention 撤单签名约定，按部署配置（见 types.CancelConvention）
	CancelConvention types.CancelConvention
	// Timeout HTTP 超时
	Timeout time.Duration
	// RateLimiter 可共享的限流器；nil 时使用默认配置
	RateLimiter *ratelimit.Manager
}

// NewClient 创建新的 CLOB 客户端
// creds 可以为 nil（仅用于 L1 凭证派生等不需要 L2 认证的调用）
func NewClient(host, address string, creds *types.ApiKeyCreds, opts *Options) *Client {
	if opts == nil {
		opts = &Options{}
	}
	convention := opts.CancelConvention
	if convention == "" {
		convention = types.CancelPathOnly
	}
	limiter := opts.RateLimiter
	if limiter == nil {
		limiter = ratelimit.NewManager()
	}

	return &Client{
		host:             strings.TrimSuffix(host, "/"),
		address:          strings.ToLower(address),
		creds:            creds,
		cancelConvention: convention,
		httpClient:       newHTTPClient(host, opts.Timeout),
		rateLimiter:      limiter,
	}
}

// GetHost 获取主机地址
func (c *Client) GetHost() string {
	return c.host
}

// Address 获取绑定的钱包地址（小写归一化）
func (c *Client) Address() string {
	return c.address
}

// CanL2Auth 检查是否具备 L2 认证条件
func (c *Client) CanL2Auth() error {
	if c.creds == nil || c.creds.Key == "" || c.creds.Secret == "" {
		return &types.NotLinkedError{Address: c.address}
	}
	return nil
}
