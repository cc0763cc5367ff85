package settle

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"server-luck-app/internal/model"
	"server-luck-app/internal/pkg/eth"
)

// TicketCount 每 0.001 ETH 一张, 向下取整。
func TicketCount(amount decimal.Decimal) int64 {
	return amount.Div(eth.MinStake).IntPart()
}

func newLuckNumbers(owner, txRef string, amount decimal.Decimal) []model.LuckNumber {
	n := TicketCount(amount)
	ns := make([]model.LuckNumber, 0, n)
	for i := int64(0); i < n; i++ {
		ns = append(ns, model.LuckNumber{
			UserAddress:     owner,
			LuckNumber:      uuid.NewString(),
			TransactionHash: txRef,
		})
	}
	return ns
}
