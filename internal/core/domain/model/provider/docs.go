// Package provider contains the Provider aggregate: a roadside service
// worker (tow-truck operator or mechanic) with an account state, a live
// location and the capability tags dispatch matches against.
package provider
