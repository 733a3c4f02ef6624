// Package compose implements trait linearization and method resolution.
//
// Traits are mixed into a class in declaration order. Each public or
// protected trait member lands in the class's resolved member table;
// private trait members stay in a scope that belongs to that single
// application of the trait. The class's own members are applied last.
//
// Virtual members a trait provides are reached through a proxy: the
// trait's implementation is fixed when it is mixed, while overrides from
// the mixing class or its subclasses are looked up at call time and can
// reach the trait's implementation through Context.Super.
//
// Parameter traits declare a __mixin entry point and must be configured
// with Trait.Invoke before mixing. The resulting argument trait delivers
// its arguments to __mixin once per instance, before the constructor.
//
// Override arity checks against trait-provided virtual members are
// deferred: they run once, on the first call to Class.New, and a failure
// is cached on the class.
package compose
