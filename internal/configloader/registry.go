// Package configloader locates configuration files and keeps a type-keyed
// registry of loaded configuration. The CLI registers its config once after
// loading; subcommands and the exporter look it up by type instead of
// threading it through every call.
//
//	configloader.RegisterConfig(&cfg)
//	cfg := configloader.MustGetConfig[*configcli.Config]()
package configloader

import (
	"fmt"
	"reflect"
	"sync"
)

var registry sync.Map // reflect.Type -> config instance

func keyOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// RegisterConfig registers cfg as the instance for type T. It panics if an
// instance of T is already registered.
func RegisterConfig[T any](cfg T) {
	if _, loaded := registry.LoadOrStore(keyOf[T](), cfg); loaded {
		panic(fmt.Sprintf("config already registered for type %v", keyOf[T]()))
	}
}

// SetConfig registers cfg, replacing any previous instance of type T.
func SetConfig[T any](cfg T) {
	registry.Store(keyOf[T](), cfg)
}

// MustGetConfig returns the instance registered for T and panics if there is
// none.
func MustGetConfig[T any]() T {
	cfg, ok := TryGetConfig[T]()
	if !ok {
		panic(fmt.Sprintf("no config registered for type %v", keyOf[T]()))
	}
	return cfg
}

// TryGetConfig returns the instance registered for T, if any.
func TryGetConfig[T any]() (T, bool) {
	if val, ok := registry.Load(keyOf[T]()); ok {
		return val.(T), true
	}
	var zero T
	return zero, false
}

// Forget removes the instance registered for T.
func Forget[T any]() {
	registry.Delete(keyOf[T]())
}
