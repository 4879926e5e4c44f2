package signing

import (
	"math/big"
	"strings"
	"testing"

	"github.com/betbot/tradegate/clob/types"
)

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad big int literal: " + s)
	}
	return v
}

// 已知私钥 0x...01 对应地址 0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf
const testKeyHex = "0000000000000000000000000000000000000000000000000000000000000001"

func TestGetAddressFromPrivateKey(t *testing.T) {
	pk, err := PrivateKeyFromHex(testKeyHex)
	if err != nil {
		t.Fatalf("parse key: %v", err)
	}
	addr := GetAddressFromPrivateKey(pk)
	if got := strings.ToLower(addr.Hex()); got != "0x7e5f4552091a69125d5dfcb7b8c2659029395bdf" {
		t.Fatalf("unexpected address: %s", got)
	}
}

func TestBuildClobAuthSignature_Deterministic(t *testing.T) {
	pk, _ := PrivateKeyFromHex(testKeyHex)

	sig1, err := BuildClobAuthSignature(pk, types.ChainPolygon, 1700000000, 0)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sig2, err := BuildClobAuthSignature(pk, types.ChainPolygon, 1700000000, 0)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	// 65 字节签名 => 0x + 130 hex
	if !strings.HasPrefix(sig1, "0x") || len(sig1) != 132 {
		t.Fatalf("bad signature format: %q (len=%d)", sig1, len(sig1))
	}
	if sig1 != sig2 {
		t.Fatalf("signature not deterministic: %s vs %s", sig1, sig2)
	}

	// 不同 timestamp 应产生不同签名
	sig3, _ := BuildClobAuthSignature(pk, types.ChainPolygon, 1700000001, 0)
	if sig3 == sig1 {
		t.Fatal("different timestamps produced identical signatures")
	}
}

func TestBuildHmacSignature(t *testing.T) {
	// base64url 编码的 32 字节密钥
	secret := "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

	body := `{"orderID":"0x1"}`
	sig1, err := BuildHmacSignature(secret, 1700000000, "POST", "/order", &body)
	if err != nil {
		t.Fatalf("hmac: %v", err)
	}
	sig2, err := BuildHmacSignature(secret, 1700000000, "POST", "/order", &body)
	if err != nil {
		t.Fatalf("hmac: %v", err)
	}
	if sig1 != sig2 {
		t.Fatal("hmac not deterministic")
	}
	// 输出必须是 URL 安全的 base64
	if strings.ContainsAny(sig1, "+/") {
		t.Fatalf("signature not base64url: %q", sig1)
	}

	// body 参与签名
	sigNoBody, err := BuildHmacSignature(secret, 1700000000, "POST", "/order", nil)
	if err != nil {
		t.Fatalf("hmac: %v", err)
	}
	if sigNoBody == sig1 {
		t.Fatal("body change did not change signature")
	}
}

func TestBuildOrderSignature(t *testing.T) {
	pk, _ := PrivateKeyFromHex(testKeyHex)

	order := &OrderData{
		Salt:          1000,
		Maker:         "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf",
		Signer:        "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf",
		Taker:         "0x0000000000000000000000000000000000000000",
		TokenID:       mustBig("123456"),
		MakerAmount:   mustBig("4998500"),
		TakerAmount:   mustBig("7690000"),
		Expiration:    mustBig("0"),
		Nonce:         mustBig("0"),
		FeeRateBps:    mustBig("0"),
		Side:          types.SideBuy,
		SignatureType: types.SignatureTypeEOA,
	}

	exchange := "0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E"
	sig, err := BuildOrderSignature(pk, types.ChainPolygon, exchange, order)
	if err != nil {
		t.Fatalf("sign order: %v", err)
	}
	if !strings.HasPrefix(sig, "0x") || len(sig) != 132 {
		t.Fatalf("bad signature format: %q", sig)
	}

	// neg-risk 市场换验签合约，签名必须不同
	negRiskSig, err := BuildOrderSignature(pk, types.ChainPolygon, "0xC5d563A36AE78145C45a50134d48A1215220f80a", order)
	if err != nil {
		t.Fatalf("sign order: %v", err)
	}
	if negRiskSig == sig {
		t.Fatal("different verifying contracts produced identical signatures")
	}
}
