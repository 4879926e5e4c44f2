package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/betbot/tradegate/clob/types"
)

// GetOrderBook 获取订单簿
func (c *Client) GetOrderBook(ctx context.Context, tokenID string) (*types.OrderBookSummary, error) {
	if err := c.rateLimiter.Wait(ctx, "clob:book:get"); err != nil {
		return nil, fmt.Errorf("速率限制等待失败: %w", err)
	}

	var book types.OrderBookSummary
	err := c.httpClient.do(ctx, http.MethodGet, EndpointGetOrderBook, &requestOptions{
		params: map[string]string{"token_id": tokenID},
	}, &book)
	if err != nil {
		return nil, fmt.Errorf("获取订单簿失败: %w", err)
	}
	return &book, nil
}

// GetMidpoint 获取中间价（(best bid + best ask) / 2）
func (c *Client) GetMidpoint(ctx context.Context, tokenID string) (*types.MidpointResponse, error) {
	if err := c.rateLimiter.Wait(ctx, "clob:price:get"); err != nil {
		return nil, fmt.Errorf("速率限制等待失败: %w", err)
	}

	var mid types.MidpointResponse
	err := c.httpClient.do(ctx, http.MethodGet, EndpointGetMidpoint, &requestOptions{
		params: map[string]string{"token_id": tokenID},
	}, &mid)
	if err != nil {
		return nil, fmt.Errorf("获取中间价失败: %w", err)
	}
	return &mid, nil
}

// GetPrice 获取指定方向的最优报价（BUY 取 best ask，SELL 取 best bid）
func (c *Client) GetPrice(ctx context.Context, tokenID string, side types.Side) (*types.PriceResponse, error) {
	if err := c.rateLimiter.Wait(ctx, "clob:price:get"); err != nil {
		return nil, fmt.Errorf("速率限制等待失败: %w", err)
	}

	var price types.PriceResponse
	err := c.httpClient.do(ctx, http.MethodGet, EndpointGetPrice, &requestOptions{
		params: map[string]string{"token_id": tokenID, "side": string(side)},
	}, &price)
	if err != nil {
		return nil, fmt.Errorf("获取报价失败: %w", err)
	}
	return &price, nil
}

// GetTickSize 获取市场价格精度（带缓存）
func (c *Client) GetTickSize(ctx context.Context, tokenID string) (types.TickSize, error) {
	if cached, ok := c.tickSizes.Get(tokenID); ok {
		return cached, nil
	}

	if err := c.rateLimiter.Wait(ctx, "clob:price:get"); err != nil {
		return "", fmt.Errorf("速率限制等待失败: %w", err)
	}

	var resp types.TickSizeResponse
	err := c.httpClient.do(ctx, http.MethodGet, EndpointGetTickSize, &requestOptions{
		params: map[string]string{"token_id": tokenID},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("获取 tick size 失败: %w", err)
	}

	tick := types.TickSize(resp.MinimumTickSize.String())
	c.tickSizes.Set(tokenID, tick, 0)
	return tick, nil
}

// GetNegRisk 查询市场是否为负风险（neg-risk）市场（带缓存）
func (c *Client) GetNegRisk(ctx context.Context, tokenID string) (bool, error) {
	if cached, ok := c.negRisk.Get(tokenID); ok {
		return cached, nil
	}

	if err := c.rateLimiter.Wait(ctx, "clob:price:get"); err != nil {
		return false, fmt.Errorf("速率限制等待失败: %w", err)
	}

	var resp types.NegRiskResponse
	err := c.httpClient.do(ctx, http.MethodGet, EndpointGetNegRisk, &requestOptions{
		params: map[string]string{"token_id": tokenID},
	}, &resp)
	if err != nil {
		return false, fmt.Errorf("获取 neg-risk 失败: %w", err)
	}

	c.negRisk.Set(tokenID, resp.NegRisk, 0)
	return resp.NegRisk, nil
}

// GetBalanceAllowance 获取余额和授权（L2 认证）
func (c *Client) GetBalanceAllowance(ctx context.Context, params *types.BalanceAllowanceParams) (*types.BalanceAllowanceResponse, error) {
	if err := c.CanL2Auth(); err != nil {
		return nil, err
	}
	if err := c.rateLimiter.Wait(ctx, "data:general"); err != nil {
		return nil, fmt.Errorf("速率限制等待失败: %w", err)
	}

	queryParams := map[string]string{
		"asset_type": string(params.AssetType),
	}
	if params.TokenID != nil {
		queryParams["token_id"] = *params.TokenID
	}
	if params.SignatureType != nil {
		queryParams["signature_type"] = fmt.Sprintf("%d", int(*params.SignatureType))
	}

	headers, err := c.l2Headers(http.MethodGet, EndpointGetBalanceAllowance, nil)
	if err != nil {
		return nil, err
	}

	var balance types.BalanceAllowanceResponse
	err = c.httpClient.do(ctx, http.MethodGet, EndpointGetBalanceAllowance, &requestOptions{
		headers: headers,
		params:  queryParams,
	}, &balance)
	if err != nil {
		return nil, fmt.Errorf("获取余额和授权失败: %w", err)
	}
	return &balance, nil
}

// GetServerTime 获取 venue 服务器时间（Unix 秒，响应体为裸数字）
func (c *Client) GetServerTime(ctx context.Context) (int64, error) {
	var ts json.Number
	err := c.httpClient.do(ctx, http.MethodGet, EndpointTime, nil, &ts)
	if err != nil {
		return 0, fmt.Errorf("获取服务器时间失败: %w", err)
	}
	return ts.Int64()
}
