// Package tui drives a presenter form from the terminal. A Session prompts
// for each visible field in declaration order, writes every answer to the
// form model so visibility rules react before the next field is considered,
// and fires submit once all fields are answered.
package tui
