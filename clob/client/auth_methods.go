package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/betbot/tradegate/clob/signing"
	"github.com/betbot/tradegate/clob/types"
)

// CreateOrDeriveAPIKey 创建或推导 API 密钥（L1 方法）。
// 先尝试推导已有密钥，venue 返回 400 说明账户还没有密钥，改为创建。
func (c *Client) CreateOrDeriveAPIKey(ctx context.Context, nonce int64) (*types.ApiKeyCreds, error) {
	if err := c.CanL1Auth(); err != nil {
		return nil, err
	}

	headers, err := signing.CreateL1Headers(c.authConfig.PrivateKey, c.authConfig.ChainID, nonce)
	if err != nil {
		return nil, fmt.Errorf("创建 L1 认证头失败: %w", err)
	}
	headerMap := headers.ToMap()

	var raw types.ApiKeyRaw
	err = c.httpClient.do(ctx, http.MethodGet, EndpointDeriveAPIKey, &requestOptions{
		headers: headerMap,
	}, &raw)
	if err == nil {
		return credsFromRaw(&raw), nil
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusBadRequest {
		return nil, fmt.Errorf("推导 API 密钥失败: %w", err)
	}

	// 400: 还没有密钥，创建新的
	raw = types.ApiKeyRaw{}
	err = c.httpClient.do(ctx, http.MethodPost, EndpointCreateAPIKey, &requestOptions{
		headers: headerMap,
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("创建 API 密钥失败: %w", err)
	}
	return credsFromRaw(&raw), nil
}

// DeriveAPIKey 推导现有 API 密钥
func (c *Client) DeriveAPIKey(ctx context.Context, nonce int64) (*types.ApiKeyCreds, error) {
	if err := c.CanL1Auth(); err != nil {
		return nil, err
	}

	headers, err := signing.CreateL1Headers(c.authConfig.PrivateKey, c.authConfig.ChainID, nonce)
	if err != nil {
		return nil, fmt.Errorf("创建 L1 认证头失败: %w", err)
	}

	var raw types.ApiKeyRaw
	err = c.httpClient.do(ctx, http.MethodGet, EndpointDeriveAPIKey, &requestOptions{
		headers: headers.ToMap(),
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("推导 API 密钥失败: %w", err)
	}
	return credsFromRaw(&raw), nil
}

func credsFromRaw(raw *types.ApiKeyRaw) *types.ApiKeyCreds {
	return &types.ApiKeyCreds{
		Key:        raw.ApiKey,
		Secret:     raw.Secret,
		Passphrase: raw.Passphrase,
	}
}
