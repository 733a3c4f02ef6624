// Package types defines the member descriptor model, the execution context
// and object interfaces that methods are written against, the categorical
// definition and composition errors, and the Catalog and Table interfaces
// with their record types.
//
// Members are declared with a keyword syntax:
//
//	types.NewMethod("virtual protected foo", 2, fn)
//	types.NewProperty("private _count", 0)
//
// Visibility defaults to public. Modifiers are virtual, abstract and
// override (methods) and const (properties).
package types
