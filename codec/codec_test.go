package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/islishude/bitcoin-txbuilder/txerr"
)

func TestIntToLittleEndianHex(t *testing.T) {
	tests := []struct {
		n     uint64
		width int
		want  string
	}{
		{1, 4, "01000000"},
		{256, 2, "0001"},
		{1234, 2, "d203"},
		{0, 1, "00"},
		{0xffffffff, 4, "ffffffff"},
		{50000, 8, "50c3000000000000"},
		{^uint64(0), 8, "ffffffffffffffff"},
	}
	for _, tt := range tests {
		got, err := IntToLittleEndianHex(tt.n, tt.width)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "n=%d width=%d", tt.n, tt.width)
	}
}

func TestIntToLittleEndianHexOverflow(t *testing.T) {
	for _, tt := range []struct {
		n     uint64
		width int
	}{
		{256, 1},
		{0x10000, 2},
		{0x100000000, 4},
		{1, 0},
		{1, 9},
	} {
		_, err := IntToLittleEndianHex(tt.n, tt.width)
		require.Error(t, err)
		assert.ErrorIs(t, err, txerr.EncodingError)
	}
}

func TestVarIntToHex(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{0, "00"},
		{252, "fc"},
		{253, "fdfd00"},
		{255, "fdff00"},
		{0xffff, "fdffff"},
		{0x10000, "fe00000100"},
		{0xffffffff, "feffffffff"},
		{0x100000000, "ff0000000001000000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VarIntToHex(tt.n), "n=%d", tt.n)
	}
}

func TestReverseHex(t *testing.T) {
	got, err := ReverseHex("1234")
	require.NoError(t, err)
	assert.Equal(t, "3412", got)

	got, err = ReverseHex("")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	for _, h := range []string{
		"00",
		"abcdef",
		"0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20",
	} {
		once, err := ReverseHex(h)
		require.NoError(t, err)
		twice, err := ReverseHex(once)
		require.NoError(t, err)
		assert.Equal(t, h, twice)
	}
}

func TestReverseHexInvalid(t *testing.T) {
	for _, h := range []string{"123", "zz"} {
		_, err := ReverseHex(h)
		assert.ErrorIs(t, err, txerr.EncodingError, h)
	}
}
