package permission

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Registry maps permission names to bit positions within a [Mask]. The five
// builtin permissions are preloaded; custom permissions occupy the bits above
// them, up to 64 total.
//
// A Registry is mutable until [Registry.Freeze] and read-only afterwards.
// Registration failures are configuration errors and should be treated as
// fatal at startup; unresolved names at runtime map to deny, never to grant.
type Registry struct {
	mu        sync.RWMutex
	nameToBit map[string]int
	bitToName map[int]string
	nextBit   int
	frozen    bool
}

// ErrRegistryFrozen is returned by Register after Freeze. The policy
// registries share this sentinel.
var ErrRegistryFrozen = errors.New("registry frozen")

// NewRegistry creates a registry preloaded with the builtin permissions.
func NewRegistry() *Registry {
	r := &Registry{
		nameToBit: make(map[string]int, builtinBitCount),
		bitToName: make(map[int]string, builtinBitCount),
		nextBit:   builtinBitCount,
	}
	for bit := 0; bit < builtinBitCount; bit++ {
		name := builtinBits[Mask(1)<<bit]
		r.nameToBit[name] = bit
		r.bitToName[bit] = name
	}
	return r
}

// Register assigns the next free bit to the named permission and returns its
// index. Names are case-insensitive and stored upper-cased.
func (r *Registry) Register(name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return -1, ErrRegistryFrozen
	}
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return -1, errors.New("permission name cannot be empty")
	}
	if _, exists := r.nameToBit[name]; exists {
		return -1, fmt.Errorf("permission already registered: %s", name)
	}
	if r.nextBit >= 64 {
		return -1, errors.New("permission limit exceeded")
	}

	bit := r.nextBit
	r.nextBit++
	r.nameToBit[name] = bit
	r.bitToName[bit] = name
	return bit, nil
}

// Bit returns the bit index for the named permission.
func (r *Registry) Bit(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bit, ok := r.nameToBit[strings.ToUpper(name)]
	return bit, ok
}

// Name returns the permission name assigned to the given bit index.
func (r *Registry) Name(bit int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.bitToName[bit]
	return name, ok
}

// FromNames resolves names (builtin or registered) into a combined mask.
// Unknown names return an error wrapping [ErrUnknownPermission]; callers on
// runtime paths must treat that as deny.
func (r *Registry) FromNames(names ...string) (Mask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var m Mask
	for _, name := range names {
		bit, ok := r.nameToBit[strings.ToUpper(name)]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownPermission, name)
		}
		m |= Mask(1) << bit
	}
	return m, nil
}

// ToNames returns the names of all bits set in m, in ascending bit order.
func (r *Registry) ToNames(m Mask) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if m == 0 {
		return nil
	}
	out := make([]string, 0, 8)
	for bit := 0; bit < 64; bit++ {
		if m&(Mask(1)<<bit) == 0 {
			continue
		}
		if name, ok := r.bitToName[bit]; ok {
			out = append(out, name)
		} else {
			out = append(out, fmt.Sprintf("bit:%d", bit))
		}
	}
	return out
}

// Freeze prevents further registrations. Must be called before the registry
// is shared across goroutines for lookups on hot paths.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Count returns the number of registered permissions, builtins included.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nameToBit)
}
