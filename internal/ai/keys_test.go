package ai

import (
	"errors"
	"sync"
	"testing"
)

func TestKeyRingRotates(t *testing.T) {
	ring := NewKeyRing("k1", "", "k2", "k3")
	if ring.Len() != 3 {
		t.Fatalf("expected empty keys to be dropped, got %d", ring.Len())
	}
	var got []string
	for range 4 {
		key, err := ring.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		got = append(got, key)
	}
	want := []string{"k1", "k2", "k3", "k1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rotation mismatch: want %v got %v", want, got)
		}
	}
}

func TestKeyRingEmpty(t *testing.T) {
	if _, err := NewKeyRing().Next(); !errors.Is(err, ErrNoKeys) {
		t.Fatalf("expected ErrNoKeys, got %v", err)
	}
}

func TestKeyRingConcurrentUseIsBalanced(t *testing.T) {
	ring := NewKeyRing("a", "b")
	var mu sync.Mutex
	counts := map[string]int{}
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key, _ := ring.Next()
			mu.Lock()
			counts[key]++
			mu.Unlock()
		}()
	}
	wg.Wait()
	if counts["a"] != 50 || counts["b"] != 50 {
		t.Fatalf("expected an even split, got %v", counts)
	}
}

func TestAnalysisPrompt(t *testing.T) {
	for _, kind := range analysisTypes {
		if !ValidAnalysisType(kind) {
			t.Fatalf("%s should be valid", kind)
		}
	}
	if ValidAnalysisType("poetry") {
		t.Fatalf("poetry should not be a valid analysis")
	}
	prompt := AnalysisPrompt("Buy now!", "sentiment")
	if want := "Analyze the following content:\n\nBuy now!\n\nProvide sentiment analysis"; prompt[:len(want)] != want {
		t.Fatalf("unexpected prompt %q", prompt)
	}
}
