// Package services contains stateless domain services implementing the
// dispatch matching logic: geo candidate selection and workload-based
// eligibility filtering.
package services
