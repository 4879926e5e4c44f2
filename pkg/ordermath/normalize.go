package ordermath

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/betbot/tradegate/clob/types"
)

var (
	// slippageOffset 未给限价时在中间价上让出的固定滑点，偏向成交
	slippageOffset = decimal.NewFromFloat(0.02)
	// priceFloor / priceCeil 把派生价格钳在 venue 接受的开区间内
	priceFloor = decimal.NewFromFloat(0.01)
	priceCeil  = decimal.NewFromFloat(0.99)

	one = decimal.NewFromInt(1)
)

// TradeIntent 客户端的交易意图
type TradeIntent struct {
	TokenID    string
	Side       types.Side
	AmountUsd  *decimal.Decimal // 要花费（BUY）或卖出名义（SELL）的 USDC 金额
	LimitPrice *decimal.Decimal // 可选限价，缺省时从中间价派生
}

// MarketMetadata 市场元数据（由 marketdata 适配层提供）
type MarketMetadata struct {
	Midpoint decimal.Decimal
	TickSize decimal.Decimal
	NegRisk  bool
}

// NormalizedOrder 规整后的订单参数
type NormalizedOrder struct {
	Price   decimal.Decimal // tick 的整数倍，(0, 1) 开区间内
	Size    decimal.Decimal // 最多 2 位小数，向下取整
	Side    types.Side
	NegRisk bool
}

// ParseSide 解析方向字符串（大小写不敏感）
func ParseSide(raw string) (types.Side, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(types.SideBuy):
		return types.SideBuy, true
	case string(types.SideSell):
		return types.SideSell, true
	default:
		return "", false
	}
}

// Normalize 把交易意图和市场元数据规整成 venue 可用的订单参数。
// 纯函数，无副作用，调用方可以任意并发。
func Normalize(intent TradeIntent, market MarketMetadata) (*NormalizedOrder, error) {
	// 必填校验，按 tokenId、side、amount 的顺序报第一个缺失项
	if strings.TrimSpace(intent.TokenID) == "" {
		return nil, &MissingFieldError{Field: "tokenId"}
	}
	if intent.Side != types.SideBuy && intent.Side != types.SideSell {
		return nil, &MissingFieldError{Field: "side"}
	}
	if intent.AmountUsd == nil {
		return nil, &MissingFieldError{Field: "amount"}
	}

	// 工作价格：限价直接用，否则从中间价让出固定滑点并钳在 [0.01, 0.99]
	var workingPrice decimal.Decimal
	if intent.LimitPrice != nil {
		workingPrice = *intent.LimitPrice
	} else if intent.Side == types.SideBuy {
		workingPrice = decimal.Min(market.Midpoint.Add(slippageOffset), priceCeil)
	} else {
		workingPrice = decimal.Max(market.Midpoint.Sub(slippageOffset), priceFloor)
	}

	if workingPrice.Sign() <= 0 {
		return nil, &InvalidOrderParamsError{
			Price:  workingPrice,
			Reason: "working price is not positive",
		}
	}

	// 股数从未取整的工作价格算出，价格取整和数量取整互不影响
	rawSize := intent.AmountUsd.Div(workingPrice)

	// 价格对齐到 tick 的整数倍，round-half-away-from-zero
	if market.TickSize.Sign() <= 0 {
		return nil, &InvalidOrderParamsError{
			Price:  workingPrice,
			Reason: "tick size is not positive",
		}
	}
	price := workingPrice.Div(market.TickSize).Round(0).Mul(market.TickSize)

	// 数量向下取整到 2 位小数
	size := rawSize.RoundFloor(2)

	if size.Sign() <= 0 {
		return nil, &InvalidOrderParamsError{
			Size:   size,
			Price:  price,
			Reason: "size rounds down to zero",
		}
	}
	if price.Sign() <= 0 || !price.LessThan(one) {
		return nil, &InvalidOrderParamsError{
			Size:   size,
			Price:  price,
			Reason: "price outside (0, 1)",
		}
	}

	return &NormalizedOrder{
		Price:   price,
		Size:    size,
		Side:    intent.Side,
		NegRisk: market.NegRisk,
	}, nil
}
