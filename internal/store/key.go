package store

import "reflect"

// Key identifies a state type.
type Key struct {
	typ reflect.Type
}

// KeyOf returns the key for state type S.
func KeyOf[S any]() Key {
	return Key{typ: reflect.TypeFor[S]()}
}

// String returns the Go type name, for example "main.Counter".
func (k Key) String() string {
	if k.typ == nil {
		return "<nil>"
	}
	return k.typ.String()
}
