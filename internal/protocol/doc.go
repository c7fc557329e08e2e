// Package protocol owns the STS wire contract.
//
// Ownership boundary:
// - frame codec and exact-read framing (frame)
// - text handshake and batch sequencing (session)
// - error taxonomy shared by both
package protocol
