package client

// API 端点常量
const (
	// Server Time
	EndpointTime = "/time"

	// API Key endpoints
	EndpointCreateAPIKey = "/auth/api-key"
	EndpointDeriveAPIKey = "/auth/derive-api-key"

	// Markets
	EndpointGetOrderBook = "/book"
	EndpointGetMidpoint  = "/midpoint"
	EndpointGetPrice     = "/price"
	EndpointGetTickSize  = "/tick-size"
	EndpointGetNegRisk   = "/neg-risk"

	// Order endpoints
	EndpointPostOrder     = "/order"
	EndpointCancelOrder   = "/order"
	EndpointCancelAll     = "/cancel-all"
	EndpointGetOpenOrders = "/data/orders"
	EndpointGetOrder      = "/data/order/"

	// Balance
	EndpointGetBalanceAllowance = "/balance-allowance"
)
