package client

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"

	"github.com/betbot/tradegate/clob/signing"
	"github.com/betbot/tradegate/clob/types"
)

// zeroAddress 公开订单的 taker 占位地址
const zeroAddress = "0x0000000000000000000000000000000000000000"

// OrderArgs 下单参数。
// Price 和 Size 须是已按市场精度规整过的值（价格对齐 tick，数量 2 位小数）。
type OrderArgs struct {
	TokenID    string
	Price      decimal.Decimal
	Size       decimal.Decimal
	Side       types.Side
	NegRisk    bool
	FeeRateBps int64
	Nonce      int64
	Expiration int64 // Unix 秒，0 表示不过期（GTC）
}

// OrderBuilder 订单构建器
type OrderBuilder struct {
	client        *Client
	signatureType types.SignatureType
	funderAddress string // 资金地址（代理钱包场景），为空时用签名者地址
}

// NewOrderBuilder 创建新的订单构建器
func NewOrderBuilder(client *Client, signatureType types.SignatureType, funderAddress string) *OrderBuilder {
	return &OrderBuilder{
		client:        client,
		signatureType: signatureType,
		funderAddress: funderAddress,
	}
}

// BuildOrder 构建并签名订单
func (ob *OrderBuilder) BuildOrder(ctx context.Context, args *OrderArgs) (*types.SignedOrder, error) {
	if err := ob.client.CanL1Auth(); err != nil {
		return nil, err
	}

	contractConfig, err := GetContractConfig(ob.client.GetChainID())
	if err != nil {
		return nil, fmt.Errorf("获取合约配置失败: %w", err)
	}

	signerAddress := crypto.PubkeyToAddress(ob.client.authConfig.PrivateKey.PublicKey)
	maker := signerAddress.Hex()
	if ob.funderAddress != "" {
		maker = ob.funderAddress
	}

	makerAmount, takerAmount := orderAmounts(args.Side, args.Price, args.Size)

	tokenID, ok := new(big.Int).SetString(args.TokenID, 10)
	if !ok {
		return nil, fmt.Errorf("无效的 tokenID: %s", args.TokenID)
	}

	salt := time.Now().UnixNano()

	orderData := &signing.OrderData{
		Salt:          salt,
		Maker:         maker,
		Signer:        signerAddress.Hex(),
		Taker:         zeroAddress,
		TokenID:       tokenID,
		MakerAmount:   makerAmount,
		TakerAmount:   takerAmount,
		Expiration:    big.NewInt(args.Expiration),
		Nonce:         big.NewInt(args.Nonce),
		FeeRateBps:    big.NewInt(args.FeeRateBps),
		Side:          args.Side,
		SignatureType: ob.signatureType,
	}

	signature, err := signing.BuildOrderSignature(
		ob.client.authConfig.PrivateKey,
		ob.client.GetChainID(),
		contractConfig.ExchangeFor(args.NegRisk),
		orderData,
	)
	if err != nil {
		return nil, fmt.Errorf("签名订单失败: %w", err)
	}

	return &types.SignedOrder{
		Salt:          salt,
		Maker:         maker,
		Signer:        signerAddress.Hex(),
		Taker:         zeroAddress,
		TokenID:       args.TokenID,
		MakerAmount:   makerAmount.String(),
		TakerAmount:   takerAmount.String(),
		Expiration:    big.NewInt(args.Expiration).String(),
		Nonce:         big.NewInt(args.Nonce).String(),
		FeeRateBps:    big.NewInt(args.FeeRateBps).String(),
		Side:          args.Side,
		SignatureType: int(ob.signatureType),
		Signature:     signature,
	}, nil
}

// orderAmounts 计算链上 maker/taker 金额（6 位精度的整数单位）。
// BUY：maker 付 USDC（price*size），taker 收代币（size）；SELL 相反。
func orderAmounts(side types.Side, price, size decimal.Decimal) (*big.Int, *big.Int) {
	collateral := toTokenUnits(price.Mul(size))
	conditional := toTokenUnits(size)

	if side == types.SideBuy {
		return collateral, conditional
	}
	return conditional, collateral
}

// toTokenUnits 十进制数量转 6 位精度整数单位
func toTokenUnits(d decimal.Decimal) *big.Int {
	return d.Shift(CollateralTokenDecimals).Round(0).BigInt()
}
