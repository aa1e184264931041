// Package xaml reads XAML markup into a typed node stream.
//
// Markup is normalized and decoded, tokenized as XML, scanned into XAML
// items with namespace prefixes resolved, and translated into nodes whose
// types and members are resolved against a schema.Context. Unless turned
// off, a validator rejects the first reference the schema context could
// not resolve outside of a conditional scope.
//
//	nodes, err := xaml.Parse(ctx, sc, src)
//
// TextReader gives node-at-a-time access, and Transform feeds a
// sax.Handler.
package xaml

const Version = "0.1.0"
