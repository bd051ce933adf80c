package nvim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFnameEscape(t *testing.T) {
	cases := map[string]string{
		"/tmp/dist/assets/index.js":  "/tmp/dist/assets/index.js",
		"/tmp/my site/index.js":      `/tmp/my\ site/index.js`,
		"/tmp/50%/#1/index.js":       `/tmp/50\%/\#1/index.js`,
		"/tmp/it's|here/[a]{b}.js":   `/tmp/it\'s\|here/\[a]\{b}.js`,
		`/tmp/back\slash/$HOME/x.js`: `/tmp/back\\slash/\$HOME/x.js`,
	}
	for in, want := range cases {
		assert.Equal(t, want, fnameEscape(in), in)
	}
}
