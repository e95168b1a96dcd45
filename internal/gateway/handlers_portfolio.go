package gateway

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/betbot/relaygate/clob/types"
)

// handleOpenOrders 开放订单（带端点形态回退）
func (s *Server) handleOpenOrders(c *gin.Context) {
	cl, err := s.clobClient(c.Param("address"))
	if err != nil {
		respondWithErr(c, err)
		return
	}

	orders, err := cl.GetOpenOrders(c.Request.Context(), c.Query("market"))
	if err != nil {
		respondWithErr(c, err)
		return
	}
	if orders == nil {
		orders = []types.OpenOrder{}
	}
	respondOK(c, orders)
}

// handleTrades 成交对账视图：maker/taker 两次查询合并去重，时间降序
func (s *Server) handleTrades(c *gin.Context) {
	cl, err := s.clobClient(c.Param("address"))
	if err != nil {
		respondWithErr(c, err)
		return
	}

	var after int64
	if v := c.Query("after"); v != "" {
		after, _ = strconv.ParseInt(v, 10, 64)
	}

	trades, err := cl.GetUserTrades(c.Request.Context(), after)
	if err != nil {
		respondWithErr(c, err)
		return
	}
	if trades == nil {
		trades = []types.Trade{}
	}
	respondOK(c, trades)
}

// handlePortfolio 组合视图：持仓与开放订单并发拉取，双方都落定后拼装。
// 持仓走公开 data-api，未绑定凭证也能加载；单侧失败保留另一侧结果
func (s *Server) handlePortfolio(c *gin.Context) {
	address := strings.ToLower(c.Param("address"))
	ctx := c.Request.Context()

	out := portfolioResponse{Address: address}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		if cached, ok := s.positionsCache.Get(address); ok {
			out.Positions = cached
			return
		}
		positions, err := s.dataAPI.GetPositions(ctx, address)
		if err != nil {
			out.PositionsErr = err.Error()
			return
		}
		s.positionsCache.Set(address, positions, 10*time.Second)
		out.Positions = positions
	}()

	go func() {
		defer wg.Done()
		cl, err := s.clobClient(address)
		if err != nil {
			out.OrdersErr = err.Error()
			return
		}
		// 未绑定凭证时跳过订单侧，持仓照常返回
		if err := cl.CanL2Auth(); err != nil {
			out.OrdersErr = err.Error()
			return
		}
		orders, err := cl.GetOpenOrders(ctx, "")
		if err != nil {
			out.OrdersErr = err.Error()
			return
		}
		out.OpenOrders = orders
	}()

	wg.Wait()

	if out.Positions == nil {
		out.Positions = []types.Position{}
	}
	if out.OpenOrders == nil {
		out.OpenOrders = []types.OpenOrder{}
	}
	respondOK(c, out)
}
