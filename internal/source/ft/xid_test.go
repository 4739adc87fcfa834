package ft_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pricesource/internal/source/ft"
)

func TestExtractXID_AcceptedEncodings(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"single quoted", `var data = { xid: '123456', name: "Apple" };`, "123456"},
		{"double quoted equals", `<div data-mod-config='xid="654321"'></div>`, "654321"},
		{"entity escaped", `{&quot;xid&quot;:&quot;987654&quot;,&quot;other&quot;:1}`, "987654"},
		{"bare numeric", `config = {xid: 111222}`, "111222"},
		{"upper case key", `XID="42"`, "42"},
		{"first match wins", `xid: '1' ... xid: '2'`, "1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ft.ExtractXID(tc.content)
			require.True(t, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestExtractXID_NoMatch(t *testing.T) {
	t.Parallel()

	for _, content := range []string{
		"",
		"<html><body>not the page you wanted</body></html>",
		`xid: 'abc'`, // non-numeric value
	} {
		_, ok := ft.ExtractXID(content)
		require.False(t, ok, "content %q", content)
	}
}
