package whalefeed

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// TradeHash 计算稳定内容摘要，作为存储层的唯一键
// 覆盖 (platform, market, side, 两位小数的 amount, 两位小数的 price, timestamp)；
// 金额用 decimal 归一化，避免浮点尾差让同一笔交易产生两个哈希
func TradeHash(platform, market, side string, amount, price float64, timestamp int64) string {
	amountStr := decimal.NewFromFloat(amount).Round(2).StringFixed(2)
	priceStr := decimal.NewFromFloat(price).Round(2).StringFixed(2)

	payload := platform + "|" + market + "|" + side + "|" + amountStr + "|" + priceStr + "|" + strconv.FormatInt(timestamp, 10)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// RedactWallet 钱包地址打码用于展示（保留前 6 后 4）
func RedactWallet(wallet string) string {
	if len(wallet) <= 10 {
		return wallet
	}
	return fmt.Sprintf("%s…%s", wallet[:6], wallet[len(wallet)-4:])
}
