package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	testCases := []struct {
		name        string
		raw         string
		wantCommand string
		wantComment string
		wantBlank   bool
	}{
		{"empty line", "", "", "", true},
		{"whitespace only", "   \t  ", "", "", true},
		{"plain command", "SCAN", "SCAN", "", false},
		{"command with surrounding space", "  SCAN  ", "SCAN", "", false},
		{"full-line comment", "# just a note", "", "just a note", true},
		{"indented comment", "   # note", "", "note", true},
		{"trailing comment", "w4hello # write to addr 4", "w4hello", "write to addr 4", false},
		{"comment with second hash", "SCAN # first # second", "SCAN", "first # second", false},
		{"hash only", "#", "", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			line := Split(tc.raw, 7)
			assert.Equal(t, 7, line.Number)
			assert.Equal(t, tc.wantCommand, line.Command)
			assert.Equal(t, tc.wantComment, line.Comment)
			assert.Equal(t, tc.wantBlank, line.IsBlank())
		})
	}
}

func TestParseAssignment(t *testing.T) {
	t.Run("simple", func(t *testing.T) {
		name, value, ok := ParseAssignment("ADDR=4")
		require.True(t, ok)
		assert.Equal(t, "ADDR", name)
		assert.Equal(t, "4", value)
	})

	t.Run("trims both sides", func(t *testing.T) {
		name, value, ok := ParseAssignment("ADDR =  4 ")
		require.True(t, ok)
		assert.Equal(t, "ADDR", name)
		assert.Equal(t, "4", value)
	})

	t.Run("value keeps later equals signs", func(t *testing.T) {
		name, value, ok := ParseAssignment("QUERY=a=b=c")
		require.True(t, ok)
		assert.Equal(t, "QUERY", name)
		assert.Equal(t, "a=b=c", value)
	})

	t.Run("quoted value loses one pair", func(t *testing.T) {
		name, value, ok := ParseAssignment(`GREETING="hello world"`)
		require.True(t, ok)
		assert.Equal(t, "GREETING", name)
		assert.Equal(t, "hello world", value)
	})

	t.Run("doubly quoted value keeps inner pair", func(t *testing.T) {
		_, value, ok := ParseAssignment(`X=""quoted""`)
		require.True(t, ok)
		assert.Equal(t, `"quoted"`, value)
	})

	t.Run("empty value", func(t *testing.T) {
		name, value, ok := ParseAssignment("EMPTY=")
		require.True(t, ok)
		assert.Equal(t, "EMPTY", name)
		assert.Equal(t, "", value)
	})

	t.Run("device-looking command is still an assignment", func(t *testing.T) {
		name, value, ok := ParseAssignment("SET A=1")
		require.True(t, ok)
		assert.Equal(t, "SET A", name)
		assert.Equal(t, "1", value)
	})

	t.Run("no equals sign", func(t *testing.T) {
		_, _, ok := ParseAssignment("SCAN")
		assert.False(t, ok)
	})
}

func TestExpectPattern(t *testing.T) {
	t.Run("unquoted", func(t *testing.T) {
		pattern, ok := ExpectPattern("EXPECT OK")
		require.True(t, ok)
		assert.Equal(t, "OK", pattern)
	})

	t.Run("quoted", func(t *testing.T) {
		pattern, ok := ExpectPattern(`EXPECT "OK.*"`)
		require.True(t, ok)
		assert.Equal(t, "OK.*", pattern)
	})

	t.Run("case insensitive keyword", func(t *testing.T) {
		pattern, ok := ExpectPattern("expect done")
		require.True(t, ok)
		assert.Equal(t, "done", pattern)
	})

	t.Run("extra spaces before pattern", func(t *testing.T) {
		pattern, ok := ExpectPattern("EXPECT    ready")
		require.True(t, ok)
		assert.Equal(t, "ready", pattern)
	})

	t.Run("bare keyword is not a directive", func(t *testing.T) {
		_, ok := ExpectPattern("EXPECT")
		assert.False(t, ok)
	})

	t.Run("keyword as command prefix is not a directive", func(t *testing.T) {
		_, ok := ExpectPattern("EXPECTED")
		assert.False(t, ok)
	})
}

func TestUnquote(t *testing.T) {
	assert.Equal(t, "abc", Unquote(`"abc"`))
	assert.Equal(t, "abc", Unquote("abc"))
	assert.Equal(t, `"abc`, Unquote(`"abc`))
	assert.Equal(t, `abc"`, Unquote(`abc"`))
	assert.Equal(t, "", Unquote(`""`))
	assert.Equal(t, `"`, Unquote(`"`))
	assert.Equal(t, `"inner"`, Unquote(`""inner""`))
}
