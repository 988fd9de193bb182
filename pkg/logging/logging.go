// Package logging sets up the structured logger used across the mux
// runtime: parse errors are noise a normal session generates constantly
// (a malformed escape sequence from a misbehaving program is not our
// bug), protocol errors matter to an operator but aren't fatal, and a
// desynced terminal state is a bug worth an Error-level entry with a
// stack trace attached.
package logging

import "go.uber.org/zap"

// New returns a production logger (JSON encoding, Info level and above) or,
// if dev is true, a human-readable development logger (console encoding,
// Debug level and above, with caller/stack info on Warn+).
func New(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// ParseError logs a VT parser recovering from malformed input: expected
// and not worth surfacing to an operator, but useful when chasing down a
// misbehaving program from a session transcript.
func ParseError(log *zap.Logger, paneID uint32, err error) {
	log.Debug("vt parse error", zap.Uint32("pane_id", paneID), zap.Error(err))
}

// ProtocolError logs a malformed or unsupported mux wire message: usually
// a version skew between client and server, not a crash-worthy condition.
func ProtocolError(log *zap.Logger, remote string, err error) {
	log.Warn("mux protocol error", zap.String("remote", remote), zap.Error(err))
}

// Desync logs a terminal state invariant violation serious enough that a
// client's view of a pane can no longer be trusted without a full
// resync: these should be rare, and are worth an Error-level entry so
// they're not lost in the Debug-level parse error stream.
func Desync(log *zap.Logger, paneID uint32, reason string) {
	log.Error("terminal state desync", zap.Uint32("pane_id", paneID), zap.String("reason", reason))
}
