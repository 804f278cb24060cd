package screening

import "go.uber.org/zap"

// log is the package-level structured logger. It records comparator panics
// recovered during scoring (safeCompare and recordingContext.Traced) and
// fields rejected by normalizeFieldSafe as invalid UTF-8.
var log = zap.NewNop().Sugar()

// SetLogger replaces the package logger. Callers normally pass a
// *zap.Logger built in their own main() (e.g. zap.NewProduction()); tests
// may pass zap.NewNop() (the default) or an observer core.
func SetLogger(l *zap.Logger) {
	if l == nil {
		log = zap.NewNop().Sugar()
		return
	}
	log = l.Sugar()
}
