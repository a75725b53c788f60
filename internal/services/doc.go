// Package services defines the error taxonomy shared by pipeline stages.
//
// Errors carry a sentinel marker (input skip, no match, catalog, filesystem,
// configuration) plus stage/operation context via Wrap. Callers classify with
// errors.Is; IsFatal identifies the configuration class that aborts a run.
package services
