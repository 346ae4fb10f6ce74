package number

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBig(t *testing.T, s string) Amount128 {
	t.Helper()
	b, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok)
	a, err := FromBig(b)
	require.NoError(t, err)
	return a
}

func TestCheckedCeilDiv(t *testing.T) {
	tests := []struct {
		name    string
		n, d    uint64
		want    uint64
		wantErr error
	}{
		{name: "rounds up remainder", n: 7, d: 3, want: 3},
		{name: "exact quotient", n: 9, d: 3, want: 3},
		{name: "divide by one", n: 123456789, d: 1, want: 123456789},
		{name: "zero numerator", n: 0, d: 5, want: 0},
		{name: "small quotient rounds up", n: 1, d: 10000, want: 1},
		{name: "max numerator", n: math.MaxUint64, d: 2, want: math.MaxUint64/2 + 1},
		{name: "zero divisor", n: 10, d: 0, wantErr: ErrDivideByZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromUint64(tt.n).CheckedCeilDiv(FromUint64(tt.d))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			v, err := got.AsUint64()
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestCheckedCeilDivNoOverflowNearMax(t *testing.T) {
	// n + d - 1 would overflow here, quotient+1 must not
	got, err := MaxAmount().CheckedCeilDiv(mustBig(t, "340282366920938463463374607431768211454"))
	require.NoError(t, err)
	assert.Equal(t, "2", got.String())
}

func TestCheckedAdd(t *testing.T) {
	sum, err := FromUint64(math.MaxUint64).CheckedAdd(FromUint64(1))
	require.NoError(t, err)
	assert.Equal(t, "18446744073709551616", sum.String())

	_, err = MaxAmount().CheckedAdd(FromUint64(1))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestCheckedSub(t *testing.T) {
	diff, err := FromUint64(10).CheckedSub(FromUint64(10))
	require.NoError(t, err)
	assert.True(t, diff.IsZero())

	_, err = FromUint64(9).CheckedSub(FromUint64(10))
	assert.ErrorIs(t, err, ErrUnderflow)
}

func TestCheckedMul(t *testing.T) {
	prod, err := FromUint64(math.MaxUint64).CheckedMul(FromUint64(math.MaxUint64))
	require.NoError(t, err)
	expected := new(big.Int).Mul(new(big.Int).SetUint64(math.MaxUint64), new(big.Int).SetUint64(math.MaxUint64))
	assert.Equal(t, expected.String(), prod.String())

	zero, err := Zero().CheckedMul(MaxAmount())
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = MaxAmount().CheckedMul(FromUint64(2))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestCheckedDiv(t *testing.T) {
	q, err := FromUint64(10).CheckedDiv(FromUint64(3))
	require.NoError(t, err)
	assert.Equal(t, "3", q.String())

	_, err = FromUint64(10).CheckedDiv(Zero())
	assert.ErrorIs(t, err, ErrDivideByZero)
}

func TestAsUint64(t *testing.T) {
	v, err := FromUint64(math.MaxUint64).AsUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), v)

	over, err := MaxUint64.CheckedAdd(FromUint64(1))
	require.NoError(t, err)
	_, err = over.AsUint64()
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestFromBig(t *testing.T) {
	_, err := FromBig(big.NewInt(-1))
	assert.ErrorIs(t, err, ErrUnderflow)

	tooBig := new(big.Int).Lsh(big.NewInt(1), 128)
	_, err = FromBig(tooBig)
	assert.ErrorIs(t, err, ErrOverflow)

	a := mustBig(t, "340282366920938463463374607431768211455")
	assert.True(t, a.Equals(MaxAmount()))
}

func TestMulDiv(t *testing.T) {
	ceil, err := MulDivCeil(FromUint64(1000), FromUint64(100), FromUint64(10000))
	require.NoError(t, err)
	assert.Equal(t, "10", ceil.String())

	ceil, err = MulDivCeil(FromUint64(990), FromUint64(1), FromUint64(100))
	require.NoError(t, err)
	assert.Equal(t, "10", ceil.String())

	floor, err := MulDivFloor(FromUint64(1000000), FromUint64(990), FromUint64(1000990))
	require.NoError(t, err)
	assert.Equal(t, "989", floor.String())

	assert.Equal(t, "3", Min(FromUint64(3), FromUint64(4)).String())
}
