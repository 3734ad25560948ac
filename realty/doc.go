// Package realty holds the domain services behind the assistant's tools: the
// property catalog, the appointment book, market analytics, and outbound
// email. Services carry plain Go types; the tool bindings in tools.go expose
// them to models as JSON-in, JSON-out functions.
package realty
