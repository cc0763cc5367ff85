package eth

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

func TestToWei(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1", "1000000000000000000"},
		{"0.001", "1000000000000000"},
		{"1.5", "1500000000000000000"},
		{"0.000000000000000001", "1"},
		{"123.456789012345678901", ""}, // 19 fractional digits
	}
	for _, c := range cases {
		wei, err := ToWei(decimal.RequireFromString(c.in))
		if c.want == "" {
			if !errors.Is(err, ErrPrecision) {
				t.Errorf("ToWei(%s) err = %v, want ErrPrecision", c.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ToWei(%s) unexpected err: %v", c.in, err)
			continue
		}
		if wei.String() != c.want {
			t.Errorf("ToWei(%s) = %s, want %s", c.in, wei, c.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"0.001", "1", "2.5", "0.123456789012345678", "1000000"} {
		in := decimal.RequireFromString(s)
		wei, err := ToWei(in)
		if err != nil {
			t.Fatalf("ToWei(%s): %v", s, err)
		}
		out := FromWei(wei)
		if !out.Equal(in) {
			t.Errorf("round trip %s -> %s -> %s", in, wei, out)
		}
	}
}

func TestFromWei(t *testing.T) {
	wei, _ := new(big.Int).SetString("1234500000000000000", 10)
	got := FromWei(wei)
	if !got.Equal(decimal.RequireFromString("1.2345")) {
		t.Errorf("FromWei = %s, want 1.2345", got)
	}
}

func TestValidateStake(t *testing.T) {
	if err := ValidateStake(decimal.RequireFromString("0.0005")); !errors.Is(err, ErrBelowMinimum) {
		t.Errorf("0.0005 ETH: err = %v, want ErrBelowMinimum", err)
	}
	if err := ValidateStake(decimal.RequireFromString("0.001")); err != nil {
		t.Errorf("0.001 ETH: unexpected err %v", err)
	}
	wei, _ := ToWei(decimal.RequireFromString("0.0009"))
	if err := ValidateStakeWei(wei); !errors.Is(err, ErrBelowMinimum) {
		t.Errorf("0.0009 ETH in wei: err = %v, want ErrBelowMinimum", err)
	}
}
