package client

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/betbot/tradegate/clob/signing"
	"github.com/betbot/tradegate/clob/types"
)

// AuthConfig 认证配置
type AuthConfig struct {
	PrivateKey *ecdsa.PrivateKey
	ChainID    types.Chain
	Creds      *types.ApiKeyCreds
}

// CanL1Auth 检查是否可以进行 L1 认证
func (c *Client) CanL1Auth() error {
	if c.authConfig == nil || c.authConfig.PrivateKey == nil {
		return fmt.Errorf("L1 认证不可用: 私钥未配置")
	}
	return nil
}

// CanL2Auth 检查是否可以进行 L2 认证
func (c *Client) CanL2Auth() error {
	if c.authConfig == nil || c.authConfig.Creds == nil {
		return fmt.Errorf("L2 认证不可用: API 凭证未配置")
	}
	return nil
}

// GetAddress 获取账号地址（从私钥计算）
func (c *Client) GetAddress() (common.Address, error) {
	if err := c.CanL1Auth(); err != nil {
		return common.Address{}, err
	}
	return signing.GetAddressFromPrivateKey(c.authConfig.PrivateKey), nil
}

// SetApiCreds 设置 API 凭证（推导成功后启用 L2 认证）
func (c *Client) SetApiCreds(creds *types.ApiKeyCreds) {
	c.authConfig.Creds = creds
}

// l2Headers 为请求构建 L2 认证头 map
func (c *Client) l2Headers(method, requestPath string, body *string) (map[string]string, error) {
	headers, err := signing.CreateL2Headers(
		c.authConfig.PrivateKey,
		c.authConfig.Creds,
		&types.L2HeaderArgs{
			Method:      method,
			RequestPath: requestPath,
			Body:        body,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("创建 L2 认证头失败: %w", err)
	}
	return headers.ToMap(), nil
}
