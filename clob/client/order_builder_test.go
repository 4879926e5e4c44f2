package client

import (
	"context"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"

	"github.com/betbot/tradegate/clob/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOrderAmounts_Buy(t *testing.T) {
	// BUY 0.65 * 7.69：maker 付 4.9985 USDC，taker 收 7.69 份代币
	maker, taker := orderAmounts(types.SideBuy, dec("0.65"), dec("7.69"))
	if maker.String() != "4998500" {
		t.Fatalf("maker got=%s want=4998500", maker)
	}
	if taker.String() != "7690000" {
		t.Fatalf("taker got=%s want=7690000", taker)
	}
}

func TestOrderAmounts_Sell(t *testing.T) {
	// SELL 时方向互换
	maker, taker := orderAmounts(types.SideSell, dec("0.65"), dec("7.69"))
	if maker.String() != "7690000" {
		t.Fatalf("maker got=%s want=7690000", maker)
	}
	if taker.String() != "4998500" {
		t.Fatalf("taker got=%s want=4998500", taker)
	}
}

func TestBuildOrder(t *testing.T) {
	pk, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	c := NewClient("https://clob.example.com", types.ChainPolygon, pk, nil)
	ob := NewOrderBuilder(c, types.SignatureTypeEOA, "")

	signed, err := ob.BuildOrder(context.Background(), &OrderArgs{
		TokenID: "123456",
		Price:   dec("0.52"),
		Size:    dec("19.23"),
		Side:    types.SideBuy,
	})
	if err != nil {
		t.Fatalf("build order: %v", err)
	}

	if signed.MakerAmount != "9999600" { // 0.52 * 19.23 = 9.9996
		t.Fatalf("makerAmount got=%s", signed.MakerAmount)
	}
	if signed.TakerAmount != "19230000" {
		t.Fatalf("takerAmount got=%s", signed.TakerAmount)
	}
	if signed.Side != types.SideBuy {
		t.Fatalf("side got=%s", signed.Side)
	}
	if signed.Salt <= 0 {
		t.Fatal("salt not set")
	}
	if !strings.HasPrefix(signed.Signature, "0x") || len(signed.Signature) != 132 {
		t.Fatalf("bad signature: %q", signed.Signature)
	}

	addr := crypto.PubkeyToAddress(pk.PublicKey).Hex()
	if signed.Maker != addr || signed.Signer != addr {
		t.Fatalf("maker/signer mismatch: %s / %s", signed.Maker, signed.Signer)
	}
}

func TestBuildOrder_FunderAddress(t *testing.T) {
	pk, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	funder := "0x1111111111111111111111111111111111111111"
	c := NewClient("https://clob.example.com", types.ChainPolygon, pk, nil)
	ob := NewOrderBuilder(c, types.SignatureTypeGnosisSafe, funder)

	signed, err := ob.BuildOrder(context.Background(), &OrderArgs{
		TokenID: "1",
		Price:   dec("0.5"),
		Size:    dec("2"),
		Side:    types.SideSell,
	})
	if err != nil {
		t.Fatalf("build order: %v", err)
	}

	if signed.Maker != funder {
		t.Fatalf("maker should be funder, got %s", signed.Maker)
	}
	if signed.Signer == funder {
		t.Fatal("signer should stay the EOA")
	}
	if signed.SignatureType != int(types.SignatureTypeGnosisSafe) {
		t.Fatalf("signatureType got=%d", signed.SignatureType)
	}
}
