// Package kernel provides the core domain primitives shared by every model in
// the dispatch engine.
//
// The package includes:
//   - UUID: identifier value object wrapping github.com/google/uuid
//   - GeoPoint: WGS84 longitude/latitude value object with great-circle
//     distance calculation
//   - Role: the service-provider role enumeration (tow truck, mechanic)
//
// All types are immutable value objects created through validating
// constructors; the zero value of each fails Validate. They are safe for
// concurrent use.
package kernel
