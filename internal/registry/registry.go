// Package registry tracks which owner holds each peripheral. A claim
// returns a Lease; the lease stays valid until released, and no other owner
// can claim the resource meanwhile.
package registry

import (
	"sort"
	"sync"
	"sync/atomic"

	"halcode-go/errcode"
)

type ResourceID string

// Peripheral resources of a target.
const (
	GPIO   ResourceID = "gpio"
	USART0 ResourceID = "usart0"
	SPI0   ResourceID = "spi0"
	I2C0   ResourceID = "i2c0"
)

// All lists every resource a target exposes.
var All = []ResourceID{GPIO, USART0, SPI0, I2C0}

type Registry struct {
	mu     sync.Mutex
	known  map[ResourceID]bool
	owners map[ResourceID]*Lease
}

func New(ids ...ResourceID) *Registry {
	r := &Registry{
		known:  make(map[ResourceID]bool, len(ids)),
		owners: make(map[ResourceID]*Lease),
	}
	for _, id := range ids {
		r.known[id] = true
	}
	return r
}

// Lease is proof of ownership. Valid is lock-free so it can guard every
// operation on a handle.
type Lease struct {
	reg   *Registry
	id    ResourceID
	owner string
	live  atomic.Bool
}

func (l *Lease) ID() ResourceID { return l.id }
func (l *Lease) Owner() string  { return l.owner }
func (l *Lease) Valid() bool    { return l.live.Load() }

// Release gives the resource back. Releasing twice returns NotOwner.
func (l *Lease) Release() error {
	if !l.live.CompareAndSwap(true, false) {
		return errcode.New(errcode.NotOwner, "registry.release", string(l.id)+" already released")
	}
	r := l.reg
	r.mu.Lock()
	if r.owners[l.id] == l {
		delete(r.owners, l.id)
	}
	r.mu.Unlock()
	return nil
}

// Claim grants id to owner. A resource held by anyone, including owner
// itself through another lease, is BusInUse.
func (r *Registry) Claim(owner string, id ResourceID) (*Lease, error) {
	if owner == "" {
		return nil, errcode.New(errcode.Error, "registry.claim", "owner required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.known[id] {
		return nil, errcode.New(errcode.Unsupported, "registry.claim", "unknown resource "+string(id))
	}
	if cur, taken := r.owners[id]; taken {
		return nil, errcode.New(errcode.BusInUse, "registry.claim", string(id)+" held by "+cur.owner)
	}
	l := &Lease{reg: r, id: id, owner: owner}
	l.live.Store(true)
	r.owners[id] = l
	return l, nil
}

// Owner reports who holds id.
func (r *Registry) Owner(id ResourceID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.owners[id]
	if !ok {
		return "", false
	}
	return l.owner, true
}

// Held lists the resources currently claimed, sorted.
func (r *Registry) Held() []ResourceID {
	r.mu.Lock()
	out := make([]ResourceID, 0, len(r.owners))
	for id := range r.owners {
		out = append(out, id)
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
