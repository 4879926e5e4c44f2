package client

import (
	"crypto/ecdsa"
	"strings"
	"time"

	"github.com/betbot/tradegate/clob/types"
	"github.com/betbot/tradegate/pkg/cache"
	"github.com/betbot/tradegate/pkg/ratelimit"
)

// Client CLOB 客户端
type Client struct {
	host        string
	chainID     types.Chain
	authConfig  *AuthConfig
	httpClient  *httpClient
	rateLimiter *ratelimit.RateLimitManager

	// tick size 和 neg-risk 是市场的准静态属性，短期缓存避免重复请求
	tickSizes *cache.InMemoryCache[string, types.TickSize]
	negRisk   *cache.InMemoryCache[string, bool]
}

// NewClient 创建新的 CLOB 客户端。
// creds 可以为 nil，稍后通过 CreateOrDeriveAPIKey + SetApiCreds 补齐。
func NewClient(
	host string,
	chainID types.Chain,
	privateKey *ecdsa.PrivateKey,
	creds *types.ApiKeyCreds,
) *Client {
	authConfig := &AuthConfig{
		PrivateKey: privateKey,
		ChainID:    chainID,
		Creds:      creds,
	}

	return &Client{
		host:        strings.TrimSuffix(host, "/"),
		chainID:     chainID,
		authConfig:  authConfig,
		httpClient:  newHTTPClient(host),
		rateLimiter: ratelimit.NewRateLimitManager(),
		tickSizes:   cache.NewInMemoryCache[string, types.TickSize](10 * time.Minute),
		negRisk:     cache.NewInMemoryCache[string, bool](time.Hour),
	}
}

// GetHost 获取主机地址
func (c *Client) GetHost() string {
	return c.host
}

// GetChainID 获取链 ID
func (c *Client) GetChainID() types.Chain {
	return c.chainID
}
