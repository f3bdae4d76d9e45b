// Package protocol decodes and encodes WSJT-X UDP datagrams.
//
// Ownership boundary:
// - message variants and type codes
// - per-type body parsers and the reply builder
// - outbound command encoders
// - calendar rendering helpers
//
// Field primitives live in wire, the header in frame and the embedded
// colour stream in qcolor. Nothing here performs I/O.
package protocol
