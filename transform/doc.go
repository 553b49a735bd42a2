// Package transform rewrites the string fields of structs in place. It is
// meant for Normalize hooks, which run after decoding and before validation:
//
//	func (b *Body) Normalize() { transform.StructTrimSpace(b) }
//
// Fields tagged transform:"-" are left alone.
package transform
