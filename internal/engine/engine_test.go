package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqleaner/internal/testutil"
	"github.com/leapstack-labs/sqleaner/pkg/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSQL_Documents(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single column",
			input:    "select a from t",
			expected: "SELECT a\nFROM t\n;\n",
		},
		{
			name:     "multiple columns",
			input:    "select a, b from t",
			expected: "SELECT\n    a\n    , b\nFROM t\n;\n",
		},
		{
			name:     "cte",
			input:    "with c as (select x from y) select * from c",
			expected: "WITH c AS (\n    SELECT x\n    FROM y\n)\nSELECT *\nFROM c\n;\n",
		},
		{
			name:     "join",
			input:    "select a from t join u on t.id = u.id",
			expected: "SELECT a\nFROM t\nJOIN u ON t.id = u.id\n;\n",
		},
		{
			name:     "two statements concatenate at the terminator",
			input:    "select a from t; select b from u",
			expected: "SELECT a\nFROM t\n;SELECT b\nFROM u\n;\n",
		},
		{
			name:     "empty document keeps the trailing newline",
			input:    "",
			expected: "\n",
		},
		{
			name:     "stray semicolons are skipped",
			input:    ";;select a from t;;",
			expected: "SELECT a\nFROM t\n;\n",
		},
	}

	eng := New(Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := eng.FormatSQL(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.Output)
			assert.Empty(t, res.Diagnostics)
		})
	}
}

func TestFormatSQL_Idempotent(t *testing.T) {
	inputs := []string{
		"select a from t",
		"select a, b, c from t where x = 1 order by a",
		"with c as (select x, y from z) select * from c join u on c.x = u.x",
		"select a from t; select b from u;",
	}

	eng := New(Config{})
	for _, input := range inputs {
		once, err := eng.FormatSQL(input)
		require.NoError(t, err)

		twice, err := eng.FormatSQL(once.Output)
		require.NoError(t, err)
		assert.Equal(t, once.Output, twice.Output, "input %q", input)
	}
}

func TestFormatSQL_LenientFallback(t *testing.T) {
	eng := New(Config{Policy: PolicyLenient, Logger: testutil.NewTestLogger(t)})

	res, err := eng.FormatSQL("select a from t; insert into t values (1)")
	require.NoError(t, err)

	assert.Equal(t, "SELECT a\nFROM t\n;INSERT INTO t VALUES (1)\n;\n", res.Output)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, 1, res.Diagnostics[0].Statement)
	assert.Equal(t, "INSERT", res.Diagnostics[0].Kind)
}

func TestFormatSQL_StrictRejectsUnsupported(t *testing.T) {
	eng := New(Config{Policy: PolicyStrict})

	_, err := eng.FormatSQL("insert into t values (1)")

	var unsupported *format.UnsupportedError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "INSERT", unsupported.Kind)
}

func TestFormatSQL_StrictFailsWholeDocument(t *testing.T) {
	eng := New(Config{Policy: PolicyStrict})

	res, err := eng.FormatSQL("select a from t; insert into t values (1)")

	require.Error(t, err)
	assert.Nil(t, res)
}

func TestFormatSQL_MalformedInput(t *testing.T) {
	eng := New(Config{})

	_, err := eng.FormatSQL("selec a from t")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse input")
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyLenient, p)

	p, err = ParsePolicy("strict")
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, p)

	_, err = ParsePolicy("nonsense")
	require.Error(t, err)
}

// TestFormatSQL_Golden runs the formatter over input/output file pairs.
func TestFormatSQL_Golden(t *testing.T) {
	entries, err := os.ReadDir("testdata")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	eng := New(Config{})
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		t.Run(entry.Name(), func(t *testing.T) {
			input, err := os.ReadFile(filepath.Join("testdata", entry.Name(), "input.sql"))
			require.NoError(t, err)
			expected, err := os.ReadFile(filepath.Join("testdata", entry.Name(), "output.sql"))
			require.NoError(t, err)

			res, err := eng.FormatSQL(string(input))
			require.NoError(t, err)
			assert.Equal(t, string(expected), res.Output)
		})
	}
}

func TestFormatSQL_OutputShape(t *testing.T) {
	eng := New(Config{})

	res, err := eng.FormatSQL("select a from t;\n\nselect b from u;")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(res.Output, ";\n"))
	assert.Equal(t, 1, strings.Count(res.Output, "\n;\n"), "exactly one statement ends the document")
	assert.NotContains(t, res.Output, "\n\n", "no blank lines are introduced")
}
