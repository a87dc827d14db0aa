// Package naming converts schema names into Go identifiers for generated
// code: exported type and field names, unexported helper names, package
// names and doc comments.
//
// Exported names never need keyword escaping since every Go keyword is
// lower case. Unexported and package names are escaped with a trailing
// underscore.
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
