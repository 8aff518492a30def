package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-request/internal/app"
	"github.com/samvad-hq/samvad-request/internal/config"
	"github.com/samvad-hq/samvad-request/internal/logger"
	"github.com/samvad-hq/samvad-request/pkg/request"
)

const (
	exitOK           = 0
	exitFailure      = 1
	exitHTTPError    = 2
	exitNetworkError = 3
)

type flags struct {
	method   string
	data     string
	jsonBody bool
	headers  []string
	timeout  time.Duration
}

func main() {
	os.Exit(exitCode(newRootCmd(os.Stdout).Execute()))
}

func newRootCmd(out io.Writer) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "request [url]",
		Short:         "Issue one HTTP request and print the classified outcome",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, out, args[0], f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.method, "method", "X", request.MethodGet, "HTTP method")
	fl.StringVarP(&f.data, "data", "d", "", "request body (query string for GET)")
	fl.BoolVar(&f.jsonBody, "json", false, "parse --data as JSON and send it as application/json")
	fl.StringArrayVarP(&f.headers, "header", "H", nil, `extra header, "Name: value" (repeatable)`)
	fl.DurationVar(&f.timeout, "timeout", 0, "per-request timeout (defaults to REQUEST_TIMEOUT_SECONDS)")
	return cmd
}

func run(ctx context.Context, out io.Writer, url string, f flags) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sugar, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	call, err := buildCall(url, f)
	if err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, sugar)
	if err != nil {
		logger.ErrorObj("failed to initialize request client", "error", err)
		return err
	}
	defer a.Close()

	res, err := a.Execute(ctx, call)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}

	switch res.Kind() {
	case request.KindSuccess:
		v, _ := res.Valid()
		return printBody(out, v.Body())
	case request.KindHTTPFailure:
		e, _ := res.HTTPError()
		if err := printBody(out, e.Body()); err != nil {
			return err
		}
	}
	return res.Err()
}

func buildCall(url string, f flags) (app.Call, error) {
	headers, err := parseHeaders(f.headers)
	if err != nil {
		return app.Call{}, err
	}

	call := app.Call{
		URL:     url,
		Method:  strings.ToUpper(strings.TrimSpace(f.method)),
		Headers: headers,
		Timeout: f.timeout,
	}
	if !request.IsMethod(call.Method) {
		return app.Call{}, fmt.Errorf("unsupported method %q", f.method)
	}

	switch {
	case f.data == "":
	case f.jsonBody:
		var body any
		if err := json.Unmarshal([]byte(f.data), &body); err != nil {
			return app.Call{}, fmt.Errorf("parse --data as json: %w", err)
		}
		call.Body = body
	default:
		call.Body = f.data
	}
	return call, nil
}

func parseHeaders(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q (want \"Name: value\")", h)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

func printBody(out io.Writer, body any) error {
	switch v := body.(type) {
	case nil:
		return nil
	case string:
		_, err := fmt.Fprintln(out, v)
		return err
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(os.Stderr, "request failed: %v\n", err)

	var httpErr *request.HTTPError
	var netErr *request.NetworkError
	switch {
	case errors.As(err, &httpErr):
		return exitHTTPError
	case errors.As(err, &netErr):
		return exitNetworkError
	default:
		return exitFailure
	}
}
