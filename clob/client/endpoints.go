package client

// API 端点常量
const (
	// Server Time
	EndpointTime = "/time"

	// API Key endpoints
	EndpointCreateAPIKey = "/auth/api-key"
	EndpointDeriveAPIKey = "/auth/derive-api-key"

	// Order endpoints
	EndpointPostOrder    = "/order"
	EndpointCancelOrder  = "/order"
	EndpointCancelOrders = "/orders"

	// Open orders：部分部署把 /data/orders 别名成 /orders，
	// 主路径失败（401/404/405）时按声明好的顺序换备用路径重试一次
	EndpointGetOpenOrders    = "/data/orders"
	EndpointGetOpenOrdersAlt = "/orders"

	EndpointGetTrades = "/data/trades"
)
