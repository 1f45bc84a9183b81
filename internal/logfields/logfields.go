// Package logfields holds the canonical slog attribute keys used by talc.
package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyStage      = "stage"
	KeyTemplate   = "template"
	KeyDocument   = "document"
	KeyOutput     = "output"
	KeyAsset      = "asset"
	KeyCount      = "count"
	KeyPath       = "path"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Template(path string) slog.Attr  { return slog.String(KeyTemplate, path) }
func Document(name string) slog.Attr  { return slog.String(KeyDocument, name) }
func Output(name string) slog.Attr    { return slog.String(KeyOutput, name) }
func Asset(path string) slog.Attr     { return slog.String(KeyAsset, path) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
