package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadInput_FromFile(t *testing.T) {
	assert := assert.New(t)

	fileName := filepath.Join(t.TempDir(), "process.json")
	assert.NoError(os.WriteFile(fileName, []byte(`{"process":[]}`), 0o644))

	data, err := readInput(fileName)
	assert.NoError(err)
	assert.Equal(`{"process":[]}`, string(data))
}

func TestReadInput_MissingFile(t *testing.T) {
	_, err := readInput(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func withStdin(t *testing.T, content string) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	original := os.Stdin
	os.Stdin = r
	t.Cleanup(func() { os.Stdin = original })

	go func() {
		w.Write([]byte(content))
		w.Close()
	}()
}

func TestReadInput_FromStdin_EmptyFileName(t *testing.T) {
	assert := assert.New(t)
	withStdin(t, `{"process":[]}`)

	data, err := readInput("")
	assert.NoError(err)
	assert.Equal(`{"process":[]}`, string(data))
}

func TestReadInput_FromStdin_DashFileName(t *testing.T) {
	assert := assert.New(t)
	withStdin(t, `{"process":[]}`)

	data, err := readInput("-")
	assert.NoError(err)
	assert.Equal(`{"process":[]}`, string(data))
}
