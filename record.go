// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// record.go — reflection helpers for SetField's shallow-copy-and-replace on
// record-like values, and the shallow identity equality behind IsDefault.

package hyperstorage

import (
	"fmt"
	"reflect"
)

// replaceField returns a shallow copy of cur with the named field (struct or
// pointer-to-struct) or entry (string-keyed map) set to value. cur itself is
// never mutated; for pointer and map kinds the copy is a fresh instance, so
// the result is deliberately not identical to a pointer/map default.
func replaceField[T any](cur T, name string, value any) (T, error) {
	var zero T
	rv := reflect.ValueOf(cur)
	if !rv.IsValid() {
		return zero, ErrNotRecord
	}

	switch rv.Kind() {
	case reflect.Struct:
		cp := reflect.New(rv.Type()).Elem()
		cp.Set(rv)
		if err := setStructField(cp, name, value); err != nil {
			return zero, err
		}
		return cp.Interface().(T), nil

	case reflect.Pointer:
		if rv.IsNil() || rv.Type().Elem().Kind() != reflect.Struct {
			return zero, ErrNotRecord
		}
		cp := reflect.New(rv.Type().Elem())
		cp.Elem().Set(rv.Elem())
		if err := setStructField(cp.Elem(), name, value); err != nil {
			return zero, err
		}
		return cp.Interface().(T), nil

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return zero, ErrNotRecord
		}
		cp := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			cp.SetMapIndex(iter.Key(), iter.Value())
		}
		mk := reflect.ValueOf(name).Convert(rv.Type().Key())
		mv, err := coerce(value, rv.Type().Elem(), name)
		if err != nil {
			return zero, err
		}
		cp.SetMapIndex(mk, mv)
		return cp.Interface().(T), nil

	default:
		return zero, fmt.Errorf("%w: %s", ErrNotRecord, rv.Kind())
	}
}

// setStructField sets the exported field name on the addressable struct sv.
func setStructField(sv reflect.Value, name string, value any) error {
	f := sv.FieldByName(name)
	if !f.IsValid() || !f.CanSet() {
		return fmt.Errorf("%w: %q", ErrInvalidField, name)
	}
	fv, err := coerce(value, f.Type(), name)
	if err != nil {
		return err
	}
	f.Set(fv)
	return nil
}

// coerce converts value into something assignable to target, treating a nil
// value as the target's zero value.
func coerce(value any, target reflect.Type, name string) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(target), nil
	}
	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(target) {
		return reflect.Value{}, fmt.Errorf("%w: %q (cannot assign %s to %s)",
			ErrInvalidField, name, v.Type(), target)
	}
	return v, nil
}

// shallowEqual implements the identity-vs-value equality split used by
// IsDefault: reference kinds compare by identity, comparable value kinds
// by ==, and incomparable value kinds are never equal.
func shallowEqual(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() {
		return va.IsValid() == vb.IsValid()
	}
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		// Same backing array and same length: identity for slices.
		return va.Len() == vb.Len() && va.UnsafePointer() == vb.UnsafePointer()
	default:
		if !va.Comparable() {
			return false
		}
		return a == b
	}
}
