package eth

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// 1 ETH = 10^18 wei
const WeiDigits = 18

var (
	ErrPrecision    = errors.New("amount has a fractional wei component")
	ErrBelowMinimum = errors.New("amount must be at least 0.001 ETH")
)

// MinStake 系统最低投注额
var MinStake = decimal.RequireFromString("0.001")

// ToWei converts a decimal ETH amount to integer wei. Amounts with more
// than 18 fractional digits cannot be represented and are rejected.
func ToWei(amount decimal.Decimal) (*big.Int, error) {
	shifted := amount.Shift(WeiDigits)
	if !shifted.IsInteger() {
		return nil, errors.Wrapf(ErrPrecision, "amount %s", amount)
	}
	return shifted.BigInt(), nil
}

// FromWei converts integer wei back to a decimal ETH amount. Exact.
func FromWei(wei *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(wei, -WeiDigits)
}

// ValidateStake enforces the system-wide minimum stake on an ETH amount.
func ValidateStake(amount decimal.Decimal) error {
	if amount.Cmp(MinStake) < 0 {
		return errors.Wrapf(ErrBelowMinimum, "amount %s", amount)
	}
	return nil
}

// ValidateStakeWei is ValidateStake for amounts already in wei.
func ValidateStakeWei(wei *big.Int) error {
	return ValidateStake(FromWei(wei))
}
