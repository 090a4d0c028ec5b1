package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndentText(t *testing.T) {
	assert.Equal(t, "", indentText(0))
	assert.Equal(t, "    ", indentText(1))
	assert.Equal(t, "        ", indentText(2))
	assert.Equal(t, "", indentText(-1))
}

func TestColumnSeparator(t *testing.T) {
	assert.Equal(t, "\n, ", columnSeparator(0, ","))
	assert.Equal(t, "\n    , ", columnSeparator(1, ","))
	assert.Equal(t, "\n        , ", columnSeparator(2, ","))
}
