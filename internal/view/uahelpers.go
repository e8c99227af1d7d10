// internal/view/uahelpers.go
//
// User-Agent-related template helpers.  Pages receive the request's
// *requestinfo.RequestInfo as .Req and can call:
//
//	{{ browser .Req }} on {{ os .Req }} ({{ device .Req }})
//	{{ if isBot .Req }}Robot!{{ end }}
package view

import (
	"html/template"

	"github.com/nwatch/portal/internal/requestinfo"
)

// uaFuncMap returns helpers keyed off *requestinfo.RequestInfo.  Each
// tolerates a nil receiver so pages render even when Enrich did not run.
func uaFuncMap() template.FuncMap {
	return template.FuncMap{
		"browser": func(ri *requestinfo.RequestInfo) string {
			if ri == nil {
				return ""
			}
			return ri.UA.Browser
		},
		"os": func(ri *requestinfo.RequestInfo) string {
			if ri == nil {
				return ""
			}
			return ri.UA.OS
		},
		"device": func(ri *requestinfo.RequestInfo) string {
			if ri == nil {
				return ""
			}
			return ri.UA.Device
		},
		"lang": func(ri *requestinfo.RequestInfo) string {
			if ri == nil {
				return ""
			}
			return ri.UA.PrimaryLang
		},
		"isBot": func(ri *requestinfo.RequestInfo) bool {
			return ri != nil && ri.UA.IsBot
		},
	}
}
