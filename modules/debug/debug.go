// modules/debug/debug.go
//
// Dev module that echoes the enriched request metadata: parsed UA, geo
// hints, URL, and timestamp.  Handy for checking proxy headers and the
// GeoIP database without digging through logs.
package debug

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/nwatch/portal/internal/module"
	"github.com/nwatch/portal/internal/requestinfo"
)

func init() {
	// Register at exact path /debug
	module.Register("/debug", handler)
}

// handler writes a JSON blob with selected request fields.
func handler(w http.ResponseWriter, r *http.Request) {
	info := requestinfo.FromContext(r.Context())

	out := map[string]any{
		"path":  r.URL.Path,
		"query": r.URL.RawQuery,
		"ip":    clientIP(r),
		"ua":    r.UserAgent(),
	}
	if info != nil {
		out["ua_parsed"] = info.UA
		out["geo"] = info.Geo
		out["ts"] = info.Timestamp
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

// clientIP grabs the remote address without port.
func clientIP(r *http.Request) string {
	h, _, _ := net.SplitHostPort(r.RemoteAddr)
	return h
}
