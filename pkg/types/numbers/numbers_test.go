package numbers

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Numbers(t *testing.T) {
	t.Run("Should parse whole token amounts into base units", func(t *testing.T) {
		v, err := ParseEther("100")
		assert.Nil(t, err)
		assert.Equal(t, "100000000000000000000", v.String())
	})
	t.Run("Should parse fractional token amounts", func(t *testing.T) {
		v, err := ParseUnits("2.5", 6)
		assert.Nil(t, err)
		assert.Equal(t, "2500000", v.String())
	})
	t.Run("Should reject amounts with too many decimals", func(t *testing.T) {
		_, err := ParseUnits("0.0000001", 6)
		assert.NotNil(t, err)
	})
	t.Run("Should reject malformed amounts", func(t *testing.T) {
		_, err := ParseEther("ten")
		assert.NotNil(t, err)
	})
	t.Run("Should format base units back into tokens", func(t *testing.T) {
		v, _ := new(big.Int).SetString("2219178082191780821", 10)
		assert.Equal(t, "2.219178082191780821", FormatUnits(v, TokenDecimals))
		assert.Equal(t, "0", FormatUnits(nil, TokenDecimals))
	})
	t.Run("Should parse stored integers", func(t *testing.T) {
		v, err := NewBigFromString("")
		assert.Nil(t, err)
		assert.Equal(t, int64(0), v.Int64())

		v, err = NewBigFromString("12345678901234567890123")
		assert.Nil(t, err)
		assert.Equal(t, "12345678901234567890123", v.String())

		_, err = NewBigFromString("1.5")
		assert.NotNil(t, err)
	})
	t.Run("Should only treat strictly positive values as positive", func(t *testing.T) {
		assert.False(t, IsPositive(nil))
		assert.False(t, IsPositive(big.NewInt(0)))
		assert.False(t, IsPositive(big.NewInt(-1)))
		assert.True(t, IsPositive(big.NewInt(1)))
	})
}
