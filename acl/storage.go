package acl

import "context"

// Storage persists ACL records so they survive restarts. The store is the
// only caller; implementations do not enforce permissions.
//
// Load returns (nil, nil) for an unknown identity. Any returned error is
// reported to engine callers as [ErrStorageUnavailable].
type Storage interface {
	Load(ctx context.Context, oid ObjectIdentity) (*Record, error)
	Children(ctx context.Context, oid ObjectIdentity) ([]Record, error)
	Save(ctx context.Context, rec Record) error
	Delete(ctx context.Context, rec Record) error
}

// NopStorage is a Storage that persists nothing. Used for memory-only
// stores and as the default when no backend is configured.
type NopStorage struct{}

func (NopStorage) Load(context.Context, ObjectIdentity) (*Record, error) { return nil, nil }

func (NopStorage) Children(context.Context, ObjectIdentity) ([]Record, error) { return nil, nil }

func (NopStorage) Save(context.Context, Record) error { return nil }

func (NopStorage) Delete(context.Context, Record) error { return nil }
