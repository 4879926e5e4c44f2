package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/betbot/tradegate/clob/types"
)

// PostOrder 提交已签名的订单
func (c *Client) PostOrder(ctx context.Context, order *types.SignedOrder, orderType types.OrderType) (*types.OrderResponse, error) {
	if err := c.CanL2Auth(); err != nil {
		return nil, err
	}
	if err := c.rateLimiter.Wait(ctx, "clob:order:post"); err != nil {
		return nil, fmt.Errorf("速率限制等待失败: %w", err)
	}

	payload := types.NewOrder{
		Order:     *order,
		Owner:     c.authConfig.Creds.Key,
		OrderType: orderType,
	}

	// HMAC 签名要覆盖请求体，这里序列化一次后同时用于签名和发送
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("序列化订单载荷失败: %w", err)
	}
	bodyStr := string(bodyBytes)

	headers, err := c.l2Headers(http.MethodPost, EndpointPostOrder, &bodyStr)
	if err != nil {
		return nil, err
	}

	var orderResp types.OrderResponse
	err = c.httpClient.do(ctx, http.MethodPost, EndpointPostOrder, &requestOptions{
		headers: headers,
		body:    json.RawMessage(bodyBytes),
	}, &orderResp)
	if err != nil {
		return nil, fmt.Errorf("提交订单失败: %w", err)
	}
	return &orderResp, nil
}

// CancelOrder 取消单个订单
func (c *Client) CancelOrder(ctx context.Context, orderID string) (*types.CancelAllResponse, error) {
	if err := c.CanL2Auth(); err != nil {
		return nil, err
	}
	if err := c.rateLimiter.Wait(ctx, "clob:order:delete"); err != nil {
		return nil, fmt.Errorf("速率限制等待失败: %w", err)
	}

	bodyBytes, err := json.Marshal(map[string]string{"orderID": orderID})
	if err != nil {
		return nil, fmt.Errorf("序列化撤单载荷失败: %w", err)
	}
	bodyStr := string(bodyBytes)

	headers, err := c.l2Headers(http.MethodDelete, EndpointCancelOrder, &bodyStr)
	if err != nil {
		return nil, err
	}

	var cancelResp types.CancelAllResponse
	err = c.httpClient.do(ctx, http.MethodDelete, EndpointCancelOrder, &requestOptions{
		headers: headers,
		body:    json.RawMessage(bodyBytes),
	}, &cancelResp)
	if err != nil {
		return nil, fmt.Errorf("取消订单失败: %w", err)
	}
	return &cancelResp, nil
}

// CancelAll 取消账户下所有订单
func (c *Client) CancelAll(ctx context.Context) (*types.CancelAllResponse, error) {
	if err := c.CanL2Auth(); err != nil {
		return nil, err
	}
	if err := c.rateLimiter.Wait(ctx, "clob:order:delete"); err != nil {
		return nil, fmt.Errorf("速率限制等待失败: %w", err)
	}

	headers, err := c.l2Headers(http.MethodDelete, EndpointCancelAll, nil)
	if err != nil {
		return nil, err
	}

	var cancelResp types.CancelAllResponse
	err = c.httpClient.do(ctx, http.MethodDelete, EndpointCancelAll, &requestOptions{
		headers: headers,
	}, &cancelResp)
	if err != nil {
		return nil, fmt.Errorf("批量撤单失败: %w", err)
	}
	return &cancelResp, nil
}

// GetOpenOrders 查询账户的开放订单
func (c *Client) GetOpenOrders(ctx context.Context, params *types.OpenOrderParams) ([]types.OpenOrder, error) {
	if err := c.CanL2Auth(); err != nil {
		return nil, err
	}
	if err := c.rateLimiter.Wait(ctx, "clob:orders:get"); err != nil {
		return nil, fmt.Errorf("速率限制等待失败: %w", err)
	}

	queryParams := make(map[string]string)
	if params != nil {
		if params.ID != nil {
			queryParams["id"] = *params.ID
		}
		if params.Market != nil {
			queryParams["market"] = *params.Market
		}
		if params.AssetID != nil {
			queryParams["asset_id"] = *params.AssetID
		}
	}

	headers, err := c.l2Headers(http.MethodGet, EndpointGetOpenOrders, nil)
	if err != nil {
		return nil, err
	}

	// venue 既可能返回裸数组也可能返回分页对象，先解析成 RawMessage 再判断
	var raw json.RawMessage
	err = c.httpClient.do(ctx, http.MethodGet, EndpointGetOpenOrders, &requestOptions{
		headers: headers,
		params:  queryParams,
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("查询开放订单失败: %w", err)
	}

	var orders []types.OpenOrder
	if err := json.Unmarshal(raw, &orders); err == nil {
		return orders, nil
	}

	var paged types.OpenOrdersAPIResponse
	if err := json.Unmarshal(raw, &paged); err != nil {
		return nil, fmt.Errorf("解析开放订单响应失败: %w", err)
	}
	return paged.Data, nil
}

// GetOrder 查询单个订单详情
func (c *Client) GetOrder(ctx context.Context, orderID string) (*types.OpenOrder, error) {
	if err := c.CanL2Auth(); err != nil {
		return nil, err
	}
	if err := c.rateLimiter.Wait(ctx, "clob:orders:get"); err != nil {
		return nil, fmt.Errorf("速率限制等待失败: %w", err)
	}

	requestPath := EndpointGetOrder + orderID
	headers, err := c.l2Headers(http.MethodGet, requestPath, nil)
	if err != nil {
		return nil, err
	}

	var order types.OpenOrder
	err = c.httpClient.do(ctx, http.MethodGet, requestPath, &requestOptions{
		headers: headers,
	}, &order)
	if err != nil {
		return nil, fmt.Errorf("查询订单失败: %w", err)
	}
	return &order, nil
}
