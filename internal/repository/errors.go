// Package repository implements the domain operations over the workspace
// document. Sentinel errors defined here let handlers map failure scenarios
// to HTTP statuses: not-found errors become 404s, ErrConflict becomes a 409
// when concurrent writers exhaust the retry budget.
package repository

import "errors"

// ErrUserNotFound is returned when an operation references a user id or
// email that is not present in the document.
var ErrUserNotFound = errors.New("user not found")

// ErrOpportunityNotFound is returned when an update targets an opportunity
// id that is not present in the document.
var ErrOpportunityNotFound = errors.New("opportunity not found")

// ErrDataSourceNotFound is returned when a sync targets an unknown feed id.
var ErrDataSourceNotFound = errors.New("data source not found")

// ErrConflict is returned when a mutation kept losing the version
// compare-and-swap against concurrent writers. Handlers should translate
// this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
