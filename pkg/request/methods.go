package request

import "strings"

// HTTP request methods accepted by Client.Do.
const (
	// MethodConnect establishes a tunnel to the server identified by the target resource.
	MethodConnect = "CONNECT"
	// MethodDelete deletes the specified resource.
	MethodDelete = "DELETE"
	// MethodGet requests a representation of the specified resource.
	MethodGet = "GET"
	// MethodHead asks for a response identical to GET, without the body.
	MethodHead = "HEAD"
	// MethodOptions describes the communication options for the target resource.
	MethodOptions = "OPTIONS"
	// MethodPatch applies partial modifications to a resource.
	MethodPatch = "PATCH"
	// MethodPost submits an entity to the specified resource.
	MethodPost = "POST"
	// MethodPut replaces the target resource with the request payload.
	MethodPut = "PUT"
	// MethodTrace performs a message loop-back test along the path to the target resource.
	MethodTrace = "TRACE"
)

var methods = map[string]string{
	"CONNECT": MethodConnect,
	"DELETE":  MethodDelete,
	"GET":     MethodGet,
	"HEAD":    MethodHead,
	"OPTIONS": MethodOptions,
	"PATCH":   MethodPatch,
	"POST":    MethodPost,
	"PUT":     MethodPut,
	"TRACE":   MethodTrace,
}

// Methods returns a copy of the symbolic name to method string catalog.
func Methods() map[string]string {
	out := make(map[string]string, len(methods))
	for k, v := range methods {
		out[k] = v
	}
	return out
}

// IsMethod reports whether m names a catalogued method, ignoring case.
func IsMethod(m string) bool {
	_, ok := methods[strings.ToUpper(strings.TrimSpace(m))]
	return ok
}

func isGet(method string) bool {
	return strings.EqualFold(method, MethodGet)
}
