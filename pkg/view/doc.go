// Package view captures a serialisable snapshot of a live presenter form for
// renderers that sit outside the process, such as a JSON endpoint or a
// template layer.
package view
