package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathValidator(t *testing.T) {
	v, err := NewPathValidator(t.TempDir())
	require.NoError(t, err)
	assert.NotEmpty(t, v.GetConfiguredDirectory())

	_, err = NewPathValidator("")
	assert.Error(t, err)

	// placeholder directories are allowed until they exist
	v, err = NewPathValidator("/non/existent/path")
	require.NoError(t, err)
	assert.NoError(t, v.ValidatePath("/anywhere/else.pdf"))
}

func TestPathValidator_ValidatePath(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"inside", filepath.Join(dir, "a.pdf"), false},
		{"nested", filepath.Join(dir, "2024", "b.json"), false},
		{"directory itself", dir, false},
		{"outside", filepath.Join(outside, "a.pdf"), true},
		{"traversal", filepath.Join(dir, "..", filepath.Base(outside), "a.pdf"), true},
		{"sibling prefix", dir + "-other/a.pdf", true},
		{"empty", "", true},
		{"null byte", filepath.Join(dir, "a\x00.pdf"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPathValidator_Symlinks(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "secret.pdf")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	link := filepath.Join(dir, "link.pdf")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	within, err := v.IsPathWithinDirectory(link)
	require.NoError(t, err)
	assert.False(t, within, "link target escapes the directory")
	assert.Error(t, v.ValidatePath(link))
}

func TestPathValidator_NormalizePath(t *testing.T) {
	dir := t.TempDir()
	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	got, err := v.NormalizePath("shipments/a.pdf")
	require.NoError(t, err)
	want, err := filepath.Abs(filepath.Join(dir, "shipments", "a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = v.NormalizePath("../a.pdf")
	assert.Error(t, err)

	_, err = v.NormalizePath("")
	assert.Error(t, err)
}

func TestPathValidator_ValidateDirectory(t *testing.T) {
	dir := t.TempDir()
	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	file := filepath.Join(dir, "f.pdf")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.NoError(t, v.ValidateDirectory(dir))
	assert.NoError(t, v.ValidateDirectory(sub))
	assert.NoError(t, v.ValidateDirectory(filepath.Join(dir, "later")))
	assert.Error(t, v.ValidateDirectory(file))
	assert.Error(t, v.ValidateDirectory(t.TempDir()))
}
