// Package field parses field descriptors and exposes the resulting Field with
// observable settings and classification helpers.
//
// Descriptors come in two shapes. Inline strings use the compact grammar
//
//	name|type[|modifier]*
//
// where modifiers are `label:<text>`, `hidden` and `options:<a,b,c | v1=t1,v2=t2>`.
// Structured descriptors carry name, type and an optional label and skip
// parsing entirely.
package field
