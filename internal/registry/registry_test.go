package registry

import (
	"errors"
	"sync"
	"testing"

	"halcode-go/errcode"
)

func TestClaimReleaseCycle(t *testing.T) {
	r := New(All...)
	l, err := r.Claim("app", I2C0)
	if err != nil {
		t.Fatal(err)
	}
	if owner, ok := r.Owner(I2C0); !ok || owner != "app" {
		t.Fatalf("Owner=%q,%v", owner, ok)
	}
	if _, err := r.Claim("sensor", I2C0); !errors.Is(err, errcode.BusInUse) {
		t.Fatalf("second claimant: %v", err)
	}
	if _, err := r.Claim("app", I2C0); !errors.Is(err, errcode.BusInUse) {
		t.Fatalf("same owner, second lease: %v", err)
	}
	if err := l.Release(); err != nil {
		t.Fatal(err)
	}
	if l.Valid() {
		t.Fatal("lease valid after release")
	}
	if err := l.Release(); !errors.Is(err, errcode.NotOwner) {
		t.Fatalf("double release: %v", err)
	}
	l2, err := r.Claim("sensor", I2C0)
	if err != nil || !l2.Valid() || l2.Owner() != "sensor" {
		t.Fatalf("reclaim: %v", err)
	}
}

func TestStaleReleaseKeepsNewOwner(t *testing.T) {
	r := New(GPIO)
	l1, _ := r.Claim("a", GPIO)
	_ = l1.Release()
	l2, _ := r.Claim("b", GPIO)
	_ = l1.Release()
	if owner, _ := r.Owner(GPIO); owner != "b" || !l2.Valid() {
		t.Fatal("stale lease released the new owner")
	}
}

func TestUnknownResourceAndEmptyOwner(t *testing.T) {
	r := New(GPIO)
	if _, err := r.Claim("app", SPI0); !errors.Is(err, errcode.Unsupported) {
		t.Fatalf("unknown resource: %v", err)
	}
	if _, err := r.Claim("", GPIO); err == nil {
		t.Fatal("empty owner accepted")
	}
}

func TestConcurrentClaimsHaveOneWinner(t *testing.T) {
	r := New(All...)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := r.Claim(string(rune('a'+i)), SPI0); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("%d winners", wins)
	}
	if held := r.Held(); len(held) != 1 || held[0] != SPI0 {
		t.Fatalf("Held=%v", held)
	}
}
