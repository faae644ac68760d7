// Package definition loads form definitions from JSON or YAML documents and
// turns them into configured presenter builders. A document holds any number
// of forms keyed by id:
//
//	forms:
//	  order:
//	    fields:
//	      - type|radio_group|options:card=Card,sbp=SBP
//	      - sbp_phone|text|label:Phone|hidden
//	    model: {type: card}
//	    rules:
//	      - show: sbp_phone
//	        relate: type
//	        value: sbp
//
// The package embeds a default set of definitions available through
// EmbeddedFS.
package definition
