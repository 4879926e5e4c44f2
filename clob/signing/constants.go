package signing

const (
	// ClobAuthDomainName L1 认证的 EIP712 域名
	ClobAuthDomainName = "ClobAuthDomain"

	// ClobAuthVersion L1 认证的 EIP712 版本
	ClobAuthVersion = "1"

	// ClobAuthMessage 签名声明内容（venue 固定文案，不可改动）
	ClobAuthMessage = "This message attests that I control the given wallet"

	// ExchangeDomainName 订单签名的 EIP712 域名
	ExchangeDomainName = "Polymarket CTF Exchange"

	// ExchangeDomainVersion 订单签名的 EIP712 版本
	ExchangeDomainVersion = "1"
)
