package signing

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/betbot/tradegate/clob/types"
)

// BuildClobAuthSignature 构建 L1 认证用的 ClobAuth EIP712 签名。
// venue 用它验证请求方确实控制该钱包（用于 API 密钥创建/推导）。
func BuildClobAuthSignature(
	privateKey *ecdsa.PrivateKey,
	chainID types.Chain,
	timestamp int64,
	nonce int64,
) (string, error) {
	address := crypto.PubkeyToAddress(privateKey.PublicKey)

	domain := apitypes.TypedDataDomain{
		Name:    ClobAuthDomainName,
		Version: ClobAuthVersion,
		ChainId: math.NewHexOrDecimal256(int64(chainID)),
	}

	typeDefs := apitypes.Types{
		"EIP712Domain": {
			{Name: "name", Type: "string"},
			{Name: "version", Type: "string"},
			{Name: "chainId", Type: "uint256"},
		},
		"ClobAuth": {
			{Name: "address", Type: "address"},
			{Name: "timestamp", Type: "string"},
			{Name: "nonce", Type: "uint256"},
			{Name: "message", Type: "string"},
		},
	}

	message := map[string]interface{}{
		"address":   address.Hex(),
		"timestamp": fmt.Sprintf("%d", timestamp),
		"nonce":     big.NewInt(nonce),
		"message":   ClobAuthMessage,
	}

	typedData := apitypes.TypedData{
		Types:       typeDefs,
		PrimaryType: "ClobAuth",
		Domain:      domain,
		Message:     message,
	}

	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return "", fmt.Errorf("计算 EIP712 哈希失败: %w", err)
	}

	// crypto.Sign 返回 65 字节 r(32)+s(32)+v(1)
	signature, err := crypto.Sign(hash, privateKey)
	if err != nil {
		return "", fmt.Errorf("签名失败: %w", err)
	}

	return "0x" + common.Bytes2Hex(signature), nil
}

// GetAddressFromPrivateKey 从私钥获取地址
func GetAddressFromPrivateKey(privateKey *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(privateKey.PublicKey)
}

// PrivateKeyFromHex 从十六进制字符串解析私钥
func PrivateKeyFromHex(hexKey string) (*ecdsa.PrivateKey, error) {
	return crypto.HexToECDSA(hexKey)
}
