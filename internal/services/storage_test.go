package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_LocalSave(t *testing.T) {
	dir := t.TempDir()
	st, err := InitStorage(StorageConfig{UploadDir: dir, BaseURL: "http://files.test"})
	require.NoError(t, err)
	assert.False(t, st.IsUsingS3())
	assert.Equal(t, dir, st.UploadDir())

	st.now = func() time.Time { return time.Unix(0, 42) }
	url, err := st.Save("imports/bolt", ".csv", []byte("Motorista\n"))
	require.NoError(t, err)
	assert.Equal(t, "http://files.test/uploads/imports/bolt/42.csv", url)

	data, err := os.ReadFile(filepath.Join(dir, "imports", "bolt", "42.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Motorista\n", string(data))
}
