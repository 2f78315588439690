package sysutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUdevQueue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue")
	q := NewUdevQueue(path)

	assert.True(t, q.QueueIsEmpty())

	require.NoError(t, os.WriteFile(path, nil, 0o644))
	assert.False(t, q.QueueIsEmpty())

	require.NoError(t, os.Remove(path))
	assert.True(t, q.QueueIsEmpty())
}

func TestNewUdevQueueDefaultPath(t *testing.T) {
	assert.Equal(t, UdevQueuePath, NewUdevQueue("").path)
}
