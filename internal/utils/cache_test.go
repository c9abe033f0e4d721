package utils

import (
	"sync"
	"testing"
	"time"
)

func TestGetCacheConcurrentInit(t *testing.T) {
	const n = 16
	instances := make([]*GlobalCache, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			instances[i] = GetCache()
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if instances[i] != instances[0] {
			t.Fatal("并发获取到了不同的缓存实例")
		}
	}
}

func TestCacheTTL(t *testing.T) {
	c := GetCache()
	c.Set("ttl-key", "v", 10*time.Millisecond)

	if got := c.Get("ttl-key"); got != "v" {
		t.Fatalf("未过期就取不到: %v", got)
	}

	time.Sleep(20 * time.Millisecond)
	if got := c.Get("ttl-key"); got != nil {
		t.Errorf("过期后仍能取到: %v", got)
	}
}
