// Package gateway 对外 HTTP 面：凭证绑定、下单撤单、组合查询、大额交易读取。
// 调用方只在绑定流程里提交签名，之后所有请求按声明的地址从服务端读取凭证。
package gateway

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/betbot/relaygate/clob/client"
	"github.com/betbot/relaygate/clob/dataapi"
	"github.com/betbot/relaygate/clob/types"
	"github.com/betbot/relaygate/internal/builder"
	"github.com/betbot/relaygate/internal/credstore"
	"github.com/betbot/relaygate/internal/whalefeed"
	"github.com/betbot/relaygate/internal/whalestore"
	"github.com/betbot/relaygate/pkg/cache"
	"github.com/betbot/relaygate/pkg/config"
	"github.com/betbot/relaygate/pkg/ratelimit"
)

// Deps 服务依赖，全部由 cmd 入口构建后注入
type Deps struct {
	Config   *config.Config
	Creds    *credstore.Store
	Whales   *whalestore.Store
	DataAPI  *dataapi.Client
	Builder  *builder.Client // builder.enabled 为 false 时为 nil
	Pipeline *whalefeed.Pipeline
}

// Server 网关服务
type Server struct {
	cfg      *config.Config
	creds    *credstore.Store
	whales   *whalestore.Store
	dataAPI  *dataapi.Client
	builder  *builder.Client
	pipeline *whalefeed.Pipeline
	limiter  *ratelimit.Manager

	// positionsCache 短 TTL，只为挡住 UI 轮询，不承诺强一致
	positionsCache *cache.TTLCache[string, []types.Position]

	// syncMu 同一时间只允许一轮聚合在跑
	syncMu sync.Mutex
}

// New 创建网关服务
func New(deps Deps) *Server {
	return &Server{
		cfg:            deps.Config,
		creds:          deps.Creds,
		whales:         deps.Whales,
		dataAPI:        deps.DataAPI,
		builder:        deps.Builder,
		pipeline:       deps.Pipeline,
		limiter:        ratelimit.NewManager(),
		positionsCache: cache.New[string, []types.Position](10*time.Second, 1024),
	}
}

// Router 构建路由
func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/link", s.handleAuthLink)

	orders := api.Group("/orders")
	orders.POST("", s.handlePlaceOrder)
	orders.DELETE("", s.handleCancelOrders)

	portfolio := api.Group("/portfolio")
	portfolio.GET("/:address", s.handlePortfolio)
	portfolio.GET("/:address/orders", s.handleOpenOrders)
	portfolio.GET("/:address/trades", s.handleTrades)

	whales := api.Group("/whales")
	whales.GET("", s.handleWhalesList)
	whales.GET("/stats", s.handleWhalesStats)
	whales.POST("/sync", s.handleWhalesSync)

	return r
}

// clobClient 按调用方声明的地址构建单次请求的 CLOB 客户端。
// 凭证从服务端存储读取；未绑定时 creds 为 nil，只有不需要 L2 认证的调用可用
func (s *Server) clobClient(address string) (*client.Client, error) {
	var creds *types.ApiKeyCreds
	rec, found, err := s.creds.Get(address)
	if err != nil {
		return nil, err
	}
	if found {
		creds = rec.Creds()
	}
	return client.NewClient(s.cfg.Clob.Host, address, creds, &client.Options{
		CancelConvention: s.cfg.CancelConvention(),
		Timeout:          s.cfg.ClobTimeout(),
		RateLimiter:      s.limiter,
	}), nil
}
