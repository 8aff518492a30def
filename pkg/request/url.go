package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// ErrUnsupportedQueryBody is returned when a GET body cannot be flattened into query pairs.
var ErrUnsupportedQueryBody = errors.New("query body must be a key/value object")

// Param is a single query pair. Params keep the order they were declared in.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered set of query pairs.
type Params []Param

type queryPair struct {
	key   string
	value string
}

// DeriveURL returns the URL to call. For GET the top-level entries of body are
// appended after any query already present on base; other methods leave base as is.
func DeriveURL(base, method string, body any) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("parse url %q: not an absolute url", base)
	}

	if !isGet(method) || body == nil {
		return u.String(), nil
	}

	pairs, err := queryPairs(body)
	if err != nil {
		return "", err
	}
	if len(pairs) == 0 {
		return u.String(), nil
	}

	var b strings.Builder
	b.WriteString(u.RawQuery)
	for _, p := range pairs {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	u.RawQuery = b.String()
	u.ForceQuery = false

	return u.String(), nil
}

func queryPairs(body any) ([]queryPair, error) {
	switch v := body.(type) {
	case Params:
		out := make([]queryPair, 0, len(v))
		for _, p := range v {
			out = append(out, queryPair{key: p.Key, value: scalarString(p.Value)})
		}
		return out, nil
	case url.Values:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []queryPair
		for _, k := range keys {
			for _, val := range v[k] {
				out = append(out, queryPair{key: k, value: val})
			}
		}
		return out, nil
	case string:
		return splitQuery(v), nil
	case []byte:
		return splitQuery(string(v)), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode query body: %w", err)
		}
		return objectEntries(raw)
	}
}

// splitQuery parses a k=v&k2=v2 string keeping pair order.
func splitQuery(s string) []queryPair {
	s = strings.TrimPrefix(strings.TrimSpace(s), "?")
	var out []queryPair
	for _, seg := range strings.Split(s, "&") {
		if seg == "" {
			continue
		}
		key, val, _ := strings.Cut(seg, "=")
		out = append(out, queryPair{key: unescape(key), value: unescape(val)})
	}
	return out
}

func unescape(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return s
}

// objectEntries walks the top level of a JSON object in document order.
func objectEntries(raw []byte) ([]queryPair, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode query body: %w", err)
	}
	if tok == nil {
		return nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrUnsupportedQueryBody
	}

	var out []queryPair
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode query body: %w", err)
		}
		key, _ := keyTok.(string)

		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, fmt.Errorf("decode query body: %w", err)
		}
		out = append(out, queryPair{key: key, value: rawString(val)})
	}
	return out, nil
}

// scalarString renders a query value: strings verbatim, everything else as JSON text.
func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return "null"
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return rawString(raw)
}

func rawString(raw json.RawMessage) string {
	var s string
	if len(raw) > 0 && raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}
