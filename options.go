package vpack

import "github.com/arloliu/vpack/internal/options"

// Options configures a Builder: key ordering at Close(), and the checks
// AddKey and Add apply to attribute names and string values.
type Options struct {
	// SortAttributeNames, when true, makes every Object's key/value pairs
	// addressable by binary search by writing its offset
	// table in sorted-key order rather than insertion order. Defaults to
	// true, matching the original format's usual mode.
	SortAttributeNames bool
	// CheckAttributeUniqueness rejects a second Add under the same key
	// within one Object, at AddKey time, when true.
	CheckAttributeUniqueness bool
	// ValidateUTF8Strings rejects Add(string) values and AddKey attribute
	// names containing invalid UTF-8, rather than writing them through
	// uninspected.
	ValidateUTF8Strings bool
}

// defaultOptions matches the original format's common case: sorted keys,
// no uniqueness check, no UTF-8 validation (the caller's strings are
// trusted Go strings, not untrusted wire bytes — that validation belongs to
// jsonpack's parser instead).
func defaultOptions() Options {
	return Options{SortAttributeNames: true}
}

// BuilderOption configures a Builder at construction time.
type BuilderOption = options.Option[*Options]

// WithSortAttributeNames toggles sorted-key Object encoding.
func WithSortAttributeNames(v bool) BuilderOption {
	return options.NoError[*Options](func(o *Options) { o.SortAttributeNames = v })
}

// WithCheckAttributeUniqueness toggles duplicate-key rejection.
func WithCheckAttributeUniqueness(v bool) BuilderOption {
	return options.NoError[*Options](func(o *Options) { o.CheckAttributeUniqueness = v })
}

// WithValidateUTF8Strings toggles UTF-8 validation of string payloads added
// through the Builder API. jsonpack's parser validates the UTF-8 of JSON
// string literals only when its own ParseOptions.ValidateUTF8 is set.
func WithValidateUTF8Strings(v bool) BuilderOption {
	return options.NoError[*Options](func(o *Options) { o.ValidateUTF8Strings = v })
}
