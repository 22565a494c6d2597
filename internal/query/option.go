package query

// Opt is an explicit optional value for filter fields. The zero value is
// absent. Unlike a pointer or a sentinel, it keeps "no filter" and "filter
// by the zero value" distinguishable: Some("") is a real constraint on the
// empty string, None[string]() is no constraint at all.
type Opt[T any] struct {
	value   T
	present bool
}

// Some returns a present option holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{value: v, present: true}
}

// None returns an absent option.
func None[T any]() Opt[T] {
	return Opt[T]{}
}

// FromPtr converts a nullable pointer (the usual shape after JSON or query
// param decoding) into an option. nil means absent.
func FromPtr[T any](p *T) Opt[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) {
	return o.value, o.present
}

// Present reports whether the option holds a value.
func (o Opt[T]) Present() bool {
	return o.present
}

// Span is an inclusive range used for date and numeric range filters.
type Span[T any] struct {
	From T
	To   T
}
