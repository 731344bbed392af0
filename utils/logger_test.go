package utils

import (
	"sync"
	"testing"

	"go.uber.org/zap"
)

func TestGetLoggerConcurrentFirstUse(t *testing.T) {
	const n = 16
	got := make([]*zap.Logger, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = GetLogger()
		}(i)
	}
	wg.Wait()

	for i, l := range got {
		if l == nil || l != got[0] {
			t.Fatalf("GetLogger #%d = %p, want the shared logger %p", i, l, got[0])
		}
	}
}
