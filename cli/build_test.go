package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteOutput_CreatesOutputDir(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "listo")
	assert.Nil(t, os.Mkdir(existing, 0o755))
	// A configured directory is created on demand, nested or not.
	for _, dir := range []string{existing, filepath.Join(root, "salida", "py")} {
		out, err := writeOutput(dir, "marcha.py", "print(1)\n")
		assert.Nil(t, err, "dir %s", dir)
		assert.Equal(t, filepath.Join(dir, "marcha.py"), out)
		data, err := os.ReadFile(out)
		assert.Nil(t, err, "dir %s", dir)
		assert.Equal(t, "print(1)\n", string(data))
	}
}

func TestWriteOutput_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "general.py")
	out, err := writeOutput("", path, "print(2)\n")
	assert.Nil(t, err)
	assert.Equal(t, path, out)
	data, err := os.ReadFile(path)
	assert.Nil(t, err)
	assert.Equal(t, "print(2)\n", string(data))

	// An explicit path does not create parents; the error names the path.
	_, err = writeOutput("", filepath.Join(t.TempDir(), "ausente", "x.py"), "")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "write ")
}
