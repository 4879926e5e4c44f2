package ordermath

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MissingFieldError 必填字段缺失
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// InvalidOrderParamsError 规整后的订单参数在 venue 不可用。
// 错误中带上具体数值，方便排查（比如 tick 太粗把价格归零，
// 或金额太小向下取整后买不到一股）。
type InvalidOrderParamsError struct {
	Size   decimal.Decimal
	Price  decimal.Decimal
	Reason string
}

func (e *InvalidOrderParamsError) Error() string {
	return fmt.Sprintf("invalid order params: %s (size=%s price=%s)", e.Reason, e.Size, e.Price)
}
