package sweep

import "go.uber.org/zap"

// logger receives kernel diagnostics: strategy substitutions, skipped
// degenerate geometry and similar notices. It defaults to a no-op so the
// library stays silent unless the host wires a logger in.
var logger = zap.NewNop()

// SetLogger installs a structured logger for kernel diagnostics. Passing nil
// restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger = zap.NewNop()
		return
	}
	logger = l
}
