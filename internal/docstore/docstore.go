package docstore

import (
	"context"
	"errors"
	"maps"
	"time"

	"github.com/shopspring/decimal"
)

// Logical collections held by the store.
const (
	CollectionAccounts     = "accounts"
	CollectionTransactions = "transactions"
	CollectionUsers        = "users"
)

// ErrNotFound is returned when a document does not exist in its collection.
var ErrNotFound = errors.New("docstore: document not found")

// Document is an opaque field mapping exchanged with the store. Backends set
// the "id" field on documents they return.
type Document map[string]any

// Filter selects documents whose field equals the given value.
type Filter struct {
	Field  string
	Equals any
}

// Store is the document database collaborator. Update has merge semantics:
// fields absent from the partial payload are left untouched. Delete of a
// missing document is not an error.
type Store interface {
	Create(ctx context.Context, collection string, fields Document) (string, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Update(ctx context.Context, collection, id string, partial Document) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection string, filter Filter) ([]Document, error)
}

// ID returns the document's id field.
func (d Document) ID() string {
	return d.String("id")
}

// String returns the named field as a string, or "" if absent or not a string.
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Decimal returns the named field as a decimal. Backends that round-trip
// through JSON hand back strings or floats, so all three encodings are
// accepted. Absent or unparsable fields yield zero.
func (d Document) Decimal(key string) decimal.Decimal {
	switch v := d[key].(type) {
	case decimal.Decimal:
		return v
	case string:
		dec, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero
		}
		return dec
	case float64:
		return decimal.NewFromFloat(v)
	case int64:
		return decimal.NewFromInt(v)
	case int:
		return decimal.NewFromInt(int64(v))
	}
	return decimal.Zero
}

// Time returns the named field as a time. JSON backends store RFC3339 strings.
func (d Document) Time(key string) time.Time {
	switch v := d[key].(type) {
	case time.Time:
		return v
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}
		}
		return t
	}
	return time.Time{}
}

// Clone returns a copy of the document that shares no map storage with the
// original. Field values are immutable types, so a per-key copy suffices.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return maps.Clone(d)
}

// Matches reports whether the document satisfies the filter. Decimal and time
// values are compared by meaning rather than representation so that filters
// behave the same across backends.
func (d Document) Matches(filter Filter) bool {
	if filter.Field == "" {
		return true
	}
	got, ok := d[filter.Field]
	if !ok {
		return false
	}
	switch want := filter.Equals.(type) {
	case decimal.Decimal:
		return d.Decimal(filter.Field).Equal(want)
	case time.Time:
		return d.Time(filter.Field).Equal(want)
	default:
		return got == filter.Equals
	}
}
