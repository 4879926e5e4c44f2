package config

import (
	"fmt"
	"strings"

	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
)

// ResolvePrivateKey 返回钱包私钥（hex，不带 0x 前缀）。
// 直接配置的私钥优先；否则从助记词按派生路径推导。
func (w *WalletConfig) ResolvePrivateKey() (string, error) {
	if pk := strings.TrimSpace(w.PrivateKey); pk != "" {
		return strings.TrimPrefix(pk, "0x"), nil
	}

	mnemonic := strings.TrimSpace(w.Mnemonic)
	if mnemonic == "" {
		return "", fmt.Errorf("钱包未配置私钥或助记词")
	}

	wallet, err := hdwallet.NewFromMnemonic(mnemonic)
	if err != nil {
		return "", fmt.Errorf("无效的助记词: %w", err)
	}

	path, err := hdwallet.ParseDerivationPath(w.DerivationPath)
	if err != nil {
		return "", fmt.Errorf("无效的派生路径 %s: %w", w.DerivationPath, err)
	}

	account, err := wallet.Derive(path, false)
	if err != nil {
		return "", fmt.Errorf("派生账户失败: %w", err)
	}

	return wallet.PrivateKeyHex(account)
}
