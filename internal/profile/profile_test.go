package profile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeProfile drops an HCL profile file into a temp dir and returns its path.
func writeProfile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSingleFile(t *testing.T) {
	path := writeProfile(t, t.TempDir(), "lab.hcl", `
session {
  port         = "/dev/ttyUSB3"
  baud         = 115200
  settle_ms    = 150
  debug_prefix = "[TRACE]"
}

vars {
  ADDR = "4"
  TEMP = 21
}
`)

	p, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB3", p.Port)
	assert.Equal(t, 115200, p.Baud)
	assert.Equal(t, 150*time.Millisecond, p.Settle)
	assert.Equal(t, "[TRACE]", p.DebugPrefix)

	addr, ok := p.Vars.Get("ADDR")
	require.True(t, ok)
	assert.Equal(t, "4", addr)

	// Numbers convert to their string form.
	temp, ok := p.Vars.Get("TEMP")
	require.True(t, ok)
	assert.Equal(t, "21", temp)
}

func TestLoadPartialProfile(t *testing.T) {
	path := writeProfile(t, t.TempDir(), "minimal.hcl", `
session {
  baud = 57600
}
`)

	p, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 57600, p.Baud)
	assert.Equal(t, "", p.Port, "unset fields stay zero")
	assert.Equal(t, time.Duration(0), p.Settle)
	assert.Equal(t, 0, p.Vars.Len())
}

func TestLoadVarsOrder(t *testing.T) {
	path := writeProfile(t, t.TempDir(), "order.hcl", `
vars {
  AB = "x"
  A  = "y"
}
`)

	p, err := Load(context.Background(), path)
	require.NoError(t, err)

	// Source order decides substitution order: AB was declared first.
	assert.Equal(t, "x", p.Vars.Expand("AB"))
}

func TestLoadDirectoryMergesInSortedOrder(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "10-base.hcl", `
session {
  port = "/dev/ttyACM0"
  baud = 9600
}

vars {
  ADDR = "4"
}
`)
	writeProfile(t, dir, "20-bench.hcl", `
session {
  baud = 115200
}

vars {
  ADDR = "5"
}
`)

	p, err := Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM0", p.Port, "base value survives when the override file is silent")
	assert.Equal(t, 115200, p.Baud, "later file wins")
	addr, _ := p.Vars.Get("ADDR")
	assert.Equal(t, "5", addr)
}

func TestLoadEmptyDirectory(t *testing.T) {
	p, err := Load(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "", p.Port)
	assert.Equal(t, 0, p.Vars.Len())
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
		require.Error(t, err)
	})

	t.Run("malformed HCL", func(t *testing.T) {
		path := writeProfile(t, t.TempDir(), "broken.hcl", `session {`)
		_, err := Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken.hcl")
	})

	t.Run("negative settle", func(t *testing.T) {
		path := writeProfile(t, t.TempDir(), "bad.hcl", `
session {
  settle_ms = -5
}
`)
		_, err := Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "settle_ms")
	})

	t.Run("non-string variable value", func(t *testing.T) {
		path := writeProfile(t, t.TempDir(), "bad-var.hcl", `
vars {
  ADDR = ["4"]
}
`)
		_, err := Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ADDR")
	})
}
