package acl

import (
	"errors"

	"github.com/MrEthical07/goAuthz/permission"
)

var (
	// ErrResourceNotFound is returned when an object identity has no ACL
	// node. Callers must not conflate it with permission denial.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrResourceExists is returned when creating an already-registered
	// object identity.
	ErrResourceExists = errors.New("resource already exists")
	// ErrStorageUnavailable is returned when the backing store fails. The
	// engine treats it as deny, never as grant.
	ErrStorageUnavailable = errors.New("acl storage unavailable")
)

// ObjectIdentity identifies a protected resource instance as a (type, id)
// pair, stable and unique within its type.
type ObjectIdentity struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// String renders the identity as type/id for logs and audit events.
func (o ObjectIdentity) String() string {
	return o.Type + "/" + o.ID
}

// Zero reports whether the identity is empty.
func (o ObjectIdentity) Zero() bool {
	return o.Type == "" && o.ID == ""
}

// Entry is a single ACL entry: a sid (principal ID or authority token), the
// permission bits it concerns, and whether it grants or denies them.
type Entry struct {
	Sid      string          `json:"sid"`
	Mask     permission.Mask `json:"mask"`
	Granting bool            `json:"granting"`
}

// Record is the persisted shape of one ACL node: identity, optional parent
// link, owner, inheritance flag, and the ordered entry list.
type Record struct {
	Identity   ObjectIdentity  `json:"identity"`
	Parent     *ObjectIdentity `json:"parent,omitempty"`
	Owner      string          `json:"owner"`
	Inheriting bool            `json:"inheriting"`
	Entries    []Entry         `json:"entries"`
}

func (r Record) clone() Record {
	out := r
	if r.Parent != nil {
		p := *r.Parent
		out.Parent = &p
	}
	out.Entries = make([]Entry, len(r.Entries))
	copy(out.Entries, r.Entries)
	return out
}

// Resource couples an object identity with the attributes a policy predicate
// may need (owner, classification, arbitrary key/values). Attribute absence
// must read as deny in predicates, never panic.
type Resource struct {
	Identity   ObjectIdentity
	Owner      string
	Attributes map[string]any
}

// Attr returns the named attribute, or nil when absent.
func (r *Resource) Attr(name string) any {
	if r == nil || r.Attributes == nil {
		return nil
	}
	return r.Attributes[name]
}
