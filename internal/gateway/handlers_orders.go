package gateway

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/betbot/relaygate/clob/client"
	"github.com/betbot/relaygate/clob/types"
	"github.com/betbot/relaygate/pkg/logger"
)

// handlePlaceOrder 下单：校验短路 → 按钱包类型选 direct / proxied 路径
func (s *Server) handlePlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "请求体格式错误", err.Error())
		return
	}

	side, err := types.ParseSide(req.Side)
	if err != nil {
		respondWithErr(c, &types.ValidationError{Field: "side", Reason: err.Error()})
		return
	}

	orderType := types.OrderType(strings.ToUpper(req.OrderType))
	if req.OrderType == "" {
		orderType = types.OrderTypeGTC
	}

	// 校验不通过时不发起任何网络请求
	if err := client.ValidateOrderArgs(req.TokenID, side, req.Size, req.Price, orderType); err != nil {
		respondWithErr(c, err)
		return
	}

	// 数字编码的方向在此归一化，之后的链路只见两值枚举
	req.Order.Side = side

	cl, err := s.clobClient(req.Address)
	if err != nil {
		respondWithErr(c, err)
		return
	}

	var resp *types.OrderResponse
	switch types.WalletType(req.WalletType) {
	case types.WalletTypeSafe:
		if s.builder == nil {
			respondError(c, http.StatusBadRequest, CodeValidation, "该部署未启用 Builder 协签服务", "")
			return
		}
		resp, err = cl.PostOrderProxied(c.Request.Context(), s.builder, &req.Order, orderType)
	default:
		resp, err = cl.PostOrder(c.Request.Context(), &req.Order, orderType)
	}
	if err != nil {
		respondWithErr(c, err)
		return
	}

	// 上游也可能在 200 里带业务失败
	if !resp.Success && resp.ErrorMsg != "" {
		respondWithErr(c, &types.UpstreamRejected{StatusCode: http.StatusOK, Message: resp.ErrorMsg})
		return
	}

	logger.Infof("[gateway] 下单成功: address=%s orderID=%s", cl.Address(), resp.OrderID)
	respondOK(c, resp)
}

// handleCancelOrders 撤单：部分失败仍算成功，成功与失败并列返回；
// 全部失败时整体失败，reason 取第一条错误
func (s *Server) handleCancelOrders(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "请求体格式错误", err.Error())
		return
	}

	cl, err := s.clobClient(req.Address)
	if err != nil {
		respondWithErr(c, err)
		return
	}

	result, err := cl.CancelOrders(c.Request.Context(), req.OrderIDs)
	if err != nil {
		respondWithErr(c, err)
		return
	}

	if result.AllFailed() {
		respondError(c, http.StatusBadGateway, CodeUpstreamRejected,
			result.Errors[0], strings.Join(result.Errors, "; "))
		return
	}
	respondOK(c, result)
}
