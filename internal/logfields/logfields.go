package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyStore          = "store"
	KeyStoreID        = "store_id"
	KeyQueue          = "queue"
	KeyStateType      = "state_type"
	KeySubscriptionID = "subscription_id"
	KeyRevision       = "revision"
	KeyCount          = "count"
	KeyDurationMS     = "duration_ms"
	KeyPath           = "path"
	KeyJob            = "job"
	KeyPanic          = "panic"
	KeyError          = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Store(name string) slog.Attr          { return slog.String(KeyStore, name) }
func StoreID(id string) slog.Attr          { return slog.String(KeyStoreID, id) }
func Queue(name string) slog.Attr          { return slog.String(KeyQueue, name) }
func StateType(name string) slog.Attr      { return slog.String(KeyStateType, name) }
func SubscriptionID(id uint64) slog.Attr   { return slog.Uint64(KeySubscriptionID, id) }
func Revision(rev uint64) slog.Attr        { return slog.Uint64(KeyRevision, rev) }
func Count(n int) slog.Attr                { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr      { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr              { return slog.String(KeyPath, p) }
func Job(name string) slog.Attr            { return slog.String(KeyJob, name) }
func Panic(recovered any) slog.Attr        { return slog.Any(KeyPanic, recovered) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
