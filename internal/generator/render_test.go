package generator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexRows(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []string
	}{
		{
			name: "empty",
			data: nil,
			want: []string{},
		},
		{
			name: "single byte has no comma",
			data: []byte{0x0a},
			want: []string{"0x0a"},
		},
		{
			name: "lowercase two digits",
			data: []byte{0x00, 0xAB, 0x7f},
			want: []string{"0x00, 0xab, 0x7f"},
		},
		{
			name: "comma carried across row boundary",
			data: bytes.Repeat([]byte{0xff}, 13),
			want: []string{
				strings.Repeat("0xff, ", 11) + "0xff,",
				"0xff",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HexRows(tt.data))
		})
	}
}

func TestRender_PrefixNamesBothSymbols(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "spirv_triangle_vert", []byte{0x03, 0x02, 0x23, 0x07}))

	out := buf.String()
	assert.Contains(t, out, "extern const std::size_t spirv_triangle_vert_size = 4;\n")
	assert.Contains(t, out, "extern const std::uint8_t spirv_triangle_vert[] = {\n    0x03, 0x02, 0x23, 0x07\n};\n")
	assert.True(t, strings.HasPrefix(out, "#include <cstdint>\n#include <cstddef>\n\n"))
}

func TestNewDeclaration(t *testing.T) {
	decl := NewDeclaration("x", make([]byte, 24))
	assert.Equal(t, "x", decl.Prefix)
	assert.Equal(t, 24, decl.Size)
	assert.Len(t, decl.Rows, 2)
}
