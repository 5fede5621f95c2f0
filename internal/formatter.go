package internal

import (
	"fmt"
	"net/http"
	"strings"
)

// DefaultMessageTemplate renders "GET /foo - 404" style request lines.
const DefaultMessageTemplate = "{method} {path} - {status_code}"

// executionTimePending is rendered for {execution_time} when the elapsed
// duration has not been memoized yet (formatter invoked before the
// post-request hook ran).
const executionTimePending = "(not yet computed)"

// sessionKeyPrefix marks template keys resolved against the session view.
// Missing session keys render empty instead of failing the template.
const sessionKeyPrefix = "session."

// BuildMessageData assembles the flat data map for template rendering.
// Precedence, later overriding earlier: transport-level environ variables,
// derived request attributes, response attributes, execution time, and the
// defaulting session view.
func BuildMessageData(scope *RequestScope) map[string]any {
	r := scope.Request()
	data := make(map[string]any)

	for k, v := range environMap(r) {
		data[k] = v
	}

	data["method"] = r.Method
	data["path"] = r.URL.Path
	data["base_url"] = baseURL(r)
	data["url"] = baseURL(r) + r.URL.RequestURI()
	data["remote_addr"] = r.RemoteAddr
	data["user_agent"] = r.UserAgent()
	data["request_id"] = scope.RequestID()

	status := scope.Status()
	data["status_code"] = status
	data["status"] = fmt.Sprintf("%d %s", status, http.StatusText(status))

	if d, ok := scope.ElapsedMemoized(); ok {
		data["execution_time"] = float64(d.Microseconds()) / 1000.0
	} else {
		data["execution_time"] = executionTimePending
	}

	for k, v := range scope.Session() {
		data[sessionKeyPrefix+k] = v
	}
	return data
}

// RenderTemplate substitutes {key} placeholders in tmpl from data. Doubled
// braces escape literals. Unknown keys are a configuration error, surfaced as
// ErrUnknownPlaceholder — except session.* keys, which resolve to the empty
// string when absent so templates can reference optional session values.
func RenderTemplate(tmpl string, data map[string]any) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		switch c := tmpl[i]; c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("unclosed placeholder at offset %d: %w", i, ErrUnknownPlaceholder)
			}
			key := tmpl[i+1 : i+end]
			v, ok := data[key]
			if !ok {
				if !strings.HasPrefix(key, sessionKeyPrefix) {
					return "", fmt.Errorf("%w: %q", ErrUnknownPlaceholder, key)
				}
				v = nil
			}
			b.WriteString(formatValue(v))
			i += end
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				i++
			}
			b.WriteByte('}')
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
