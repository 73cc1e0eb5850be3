package idgen

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextID_Unique(t *testing.T) {
	const n = 1000
	const workers = 4

	var mu sync.Mutex
	seen := make(map[int64]bool, n*workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < n; i++ {
				id := NextID()
				mu.Lock()
				assert.False(t, seen[id], "duplicate id %d", id)
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}

func TestGenerateTransferNo(t *testing.T) {
	no := GenerateTransferNo()
	assert.True(t, strings.HasPrefix(no, "TRF"))
	assert.Len(t, no, 3+14+8)

	assert.NotEqual(t, no, GenerateTransferNo())
}
