// Package openapi derives inline field descriptors from the request body of
// an OpenAPI 3 operation. Documents are loaded with kin-openapi; each scalar
// body property becomes one descriptor and a submit button closes the list.
package openapi
