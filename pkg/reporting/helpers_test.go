package reporting

import (
	"errors"

	"github.com/samvad-hq/samvad-request/pkg/httpclient"
	"github.com/samvad-hq/samvad-request/pkg/request"
)

const testURL = "https://api.example.com/items"

func httpFailure(status int, contentType, body string, decoded any) request.Result {
	resp := httpclient.NewStaticResponse(status, map[string]string{"Content-Type": contentType}, body)
	return request.HTTPFailureResult(
		request.NewHTTPError(resp, decoded, ""),
		request.RequestInfo{URL: testURL, Options: httpclient.Options{
			Method:  "GET",
			Headers: map[string]string{"Authorization": "Bearer secret"},
		}},
	)
}

func networkFailure() request.Result {
	return request.NetworkFailureResult(request.NewNetworkError(
		errors.New("dial tcp 10.0.0.1:443: connect: connection refused"),
		request.RequestInfo{URL: testURL, Options: httpclient.Options{Method: "POST"}},
		"",
	))
}
