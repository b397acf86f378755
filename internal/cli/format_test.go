package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	pySource := writeSource(t, "f.py", "def f(x):\n    return x\n")
	tabSource := writeSource(t, "t.py", "def f(x):\n\treturn x\n")
	jsSource := writeSource(t, "f.js", "function f(x) {\n  return x;\n}\n")

	tests := []struct {
		name   string
		params FormatParams
		stdin  string
		want   string
	}{
		{
			name:   "python source",
			params: FormatParams{SourcePath: pySource},
			stdin:  "Identity.\nReturns x.\n",
			want:   "    '''Identity.\n    Returns x.\n    '''\n",
		},
		{
			name:   "no source",
			params: FormatParams{Lang: "javascript"},
			stdin:  "Identity.\n",
			want:   "/**Identity.\n*/\n",
		},
		{
			name:   "tabs",
			params: FormatParams{SourcePath: tabSource, Tabs: true},
			stdin:  "Identity.",
			want:   "\t'''Identity.\n\t'''\n",
		},
		{
			name:   "tab size override",
			params: FormatParams{SourcePath: jsSource, TabSize: 2},
			stdin:  "Identity.\n\nMore.",
			want:   "  /**Identity.\n\n  More.\n  */\n",
		},
		{
			name:   "explicit language wins",
			params: FormatParams{SourcePath: pySource, Lang: "javascript"},
			stdin:  "Identity.",
			want:   "    /**Identity.\n    */\n",
		},
		{
			name:   "unknown language uses default tokens",
			params: FormatParams{Lang: "cobol"},
			stdin:  "Doc.",
			want:   "'''Doc.\n'''\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			common, out := newCommon(t, nil)
			tt.params.Common = common
			tt.params.Stdin = strings.NewReader(tt.stdin)

			got, err := Format(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestFormat_MissingSource(t *testing.T) {
	common, _ := newCommon(t, nil)

	_, err := Format(FormatParams{Common: common, SourcePath: "does-not-exist.py", Stdin: strings.NewReader("x")})
	require.Error(t, err)
}
