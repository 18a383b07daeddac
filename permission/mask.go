package permission

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Mask is a set of permission bits. Masks combine with bitwise OR; a
// requester's mask satisfies a requirement only when every required bit
// is set.
type Mask uint64

const (
	// Read grants read access to a resource.
	Read Mask = 1 << iota
	// Write grants modification of a resource.
	Write
	// Delete grants removal of a resource.
	Delete
	// Admin grants ACL administration (grant/revoke) on a resource.
	Admin
	// Create grants creation of child resources.
	Create
)

// Full is the mask held by a resource owner after creation.
const Full = Read | Write | Delete | Admin | Create

// builtinBitCount is the number of reserved builtin bits; custom
// registrations start above it.
const builtinBitCount = 5

// ErrUnknownPermission is returned when a permission name has no assigned bit.
var ErrUnknownPermission = errors.New("unknown permission name")

var builtinNames = map[string]Mask{
	"READ":   Read,
	"WRITE":  Write,
	"DELETE": Delete,
	"ADMIN":  Admin,
	"CREATE": Create,
}

var builtinBits = map[Mask]string{
	Read:   "READ",
	Write:  "WRITE",
	Delete: "DELETE",
	Admin:  "ADMIN",
	Create: "CREATE",
}

// Combine returns the union of a and b.
func Combine(a, b Mask) Mask {
	return a | b
}

// Contains reports whether m has every bit of required set. An empty
// requirement is always contained.
func (m Mask) Contains(required Mask) bool {
	return m&required == required
}

// Has reports whether m has any bit of probe set.
func (m Mask) Has(probe Mask) bool {
	return m&probe != 0
}

// FromNames resolves builtin permission names (case-insensitive) into a
// combined mask. Unknown names return an error wrapping
// [ErrUnknownPermission]. Custom registered permissions are resolved via
// [Registry.FromNames].
func FromNames(names ...string) (Mask, error) {
	var m Mask
	for _, name := range names {
		bit, ok := builtinNames[strings.ToUpper(name)]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownPermission, name)
		}
		m |= bit
	}
	return m, nil
}

// Names returns the builtin names present in m, in ascending bit order.
// Bits without a builtin name are rendered as bit:N.
func (m Mask) Names() []string {
	if m == 0 {
		return nil
	}
	out := make([]string, 0, builtinBitCount)
	for bit := 0; bit < 64; bit++ {
		b := Mask(1) << bit
		if m&b == 0 {
			continue
		}
		if name, ok := builtinBits[b]; ok {
			out = append(out, name)
		} else {
			out = append(out, fmt.Sprintf("bit:%d", bit))
		}
	}
	return out
}

// String renders the mask as a sorted, comma-joined name list, or "none".
func (m Mask) String() string {
	names := m.Names()
	if len(names) == 0 {
		return "none"
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
