package request

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/samvad-hq/samvad-request/pkg/httpclient"
)

// DecodeBody consumes the response payload. JSON content types are parsed into
// map[string]any / []any / scalars, everything else is returned as a string.
//
// The payload can be read only once; a later Body() on resp fails with
// httpclient.ErrBodyConsumed.
func DecodeBody(resp httpclient.Response) (any, error) {
	rc, err := resp.Body()
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if strings.Contains(resp.Header(headerContentType), mimeJSON) {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
		return v, nil
	}
	return string(raw), nil
}
