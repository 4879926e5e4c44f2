package types

import "encoding/json"

// MidpointResponse /midpoint 响应（mid = (best bid + best ask) / 2）
type MidpointResponse struct {
	Mid string `json:"mid"`
}

// TickSizeResponse /tick-size 响应
// venue 偶尔以数字而非字符串返回，统一用 json.Number 接住
type TickSizeResponse struct {
	MinimumTickSize json.Number `json:"minimum_tick_size"`
}

// PriceResponse /price 响应（指定方向的最优报价）
type PriceResponse struct {
	Price string `json:"price"`
}

// NegRiskResponse /neg-risk 响应
type NegRiskResponse struct {
	NegRisk bool `json:"neg_risk"`
}

// OrderSummary 订单簿单档（venue 以字符串返回价格与数量）
type OrderSummary struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// OrderBookSummary 订单簿摘要
type OrderBookSummary struct {
	Market       string         `json:"market"`
	AssetID      string         `json:"asset_id"`
	Timestamp    string         `json:"timestamp"`
	Bids         []OrderSummary `json:"bids"`
	Asks         []OrderSummary `json:"asks"`
	MinOrderSize string         `json:"min_order_size"`
	TickSize     string         `json:"tick_size"`
	NegRisk      bool           `json:"neg_risk"`
	Hash         string         `json:"hash"`
}

// BalanceAllowanceParams 余额和授权查询参数
type BalanceAllowanceParams struct {
	AssetType     AssetType
	TokenID       *string
	SignatureType *SignatureType
}

// BalanceAllowanceResponse 余额和授权响应
type BalanceAllowanceResponse struct {
	Balance   string `json:"balance"`
	Allowance string `json:"allowance"`
}
