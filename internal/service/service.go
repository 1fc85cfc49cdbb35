// Package service contains the business logic.
//
// It sits between the handler layer and the provider integrations
// in lib. It receives validated requests from the handler, runs the
// clustering flow and returns either a response or an *errs.HTTPError
// naming the step that failed.
package service
