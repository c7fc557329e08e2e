// Package session drives one STS connection per batch.
//
// Ownership boundary:
// - text handshake (W, R, exit, Q) and success-marker checks
// - write batches: one encoded frame per datum
// - read batches: one 4-byte id request and one frame reply per datum,
//   closed by the -1 end-of-request sentinel
//
// A Client holds connection parameters only; every Transmit or Receive dials
// its own connection and closes it before returning.
package session
