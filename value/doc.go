// Package value defines the sealed value union used for specification
// literals and entity fields.
//
// The union is deliberately small: Null, String, Int, Bool, Array, Object.
// There is no Float variant. Ordering comparisons and content fingerprints
// both require a total, platform-independent order, and IEEE floats deliver
// neither (NaN, negative zero, locale-dependent formatting). Monetary fields
// are stored as integer minor units instead.
//
// Values are immutable by convention: nothing in this module mutates a Value
// after construction, and Object/Array instances handed to an entity or a
// Literal node must not be modified by the caller afterwards.
//
// Two serializations exist:
//   - MarshalValue / Object.MarshalJSON: plain JSON for display and fixtures.
//   - MarshalCanonical: RFC 8785 canonical JSON (UTF-16 key order, NFC
//     normalized strings, no HTML escaping) used for content fingerprints.
package value
