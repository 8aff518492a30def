package reporting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeReporters(t *testing.T, name, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadConfigEnabledFilter(t *testing.T) {
	path := writeReporters(t, "reporters.yaml", `
reporters:
  - id: hook
    type: http
    enabled: false
    http:
      url: https://hooks.example.com
  - id: queue
    type: SQS
    sqs:
      uri: https://sqs.us-east-1.amazonaws.com/123/errors
      region: us-east-1
`)

	reg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := len(reg.All()); got != 2 {
		t.Fatalf("All() = %d entries, want 2", got)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "queue" {
		t.Fatalf("expected only queue enabled, got %#v", enabled)
	}
	if enabled[0].Type != TypeSQS || enabled[0].SQS.Region != "us-east-1" {
		t.Fatalf("sqs entry not normalized: %#v", enabled[0])
	}

	hook, ok := reg.ByID("hook")
	if !ok {
		t.Fatalf("ByID(hook) missing")
	}
	if hook.HTTP.Method != httpDefaultMethod || hook.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("http defaults not applied: %#v", hook.HTTP)
	}
}

func TestLoadConfigJSON(t *testing.T) {
	path := writeReporters(t, "reporters.json", `{
  "reporters": [
    {"id": "ps", "type": "pubsub", "pubsub": {"project_id": "proj", "topic": "errors"}},
    {"id": "alerts", "type": "sns", "sns": {"topic_arn": "arn:aws:sns:eu-west-1:123:alerts", "region": "eu-west-1"}}
  ]
}`)

	reg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	ps, ok := reg.ByID("ps")
	if !ok || ps.PubSub.Topic != "errors" {
		t.Fatalf("pubsub entry missing: %#v", ps)
	}
	if !ps.EnabledValue() {
		t.Fatalf("entries without enabled should default to true")
	}
}

func TestLoadConfigRejectsEmptyAndDuplicates(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := LoadConfig(writeReporters(t, "empty.yaml", "reporters: []\n")); err == nil {
		t.Fatalf("expected error for file without reporters")
	}

	_, err := LoadConfig(writeReporters(t, "dup.yaml", `
reporters:
  - id: a
    type: http
    http: {url: https://one.example.com}
  - id: a
    type: http
    http: {url: https://two.example.com}
`))
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestValidateSinkConfig(t *testing.T) {
	cases := map[string]SinkConfig{
		"missing http block": {ID: "h", Type: TypeHTTP},
		"missing queue url":  {ID: "q", Type: TypeSQS, SQS: &SQSConfig{AWSConfig: AWSConfig{Region: "us-east-1"}}},
		"missing region":     {ID: "q", Type: TypeSQS, SQS: &SQSConfig{QueueURL: "https://sqs"}},
		"half credentials": {ID: "s", Type: TypeSNS, SNS: &SNSConfig{
			TopicARN:  "arn:aws:sns:us-east-1:1:t",
			AWSConfig: AWSConfig{Region: "us-east-1", AccessKeyID: "AKIA"},
		}},
		"missing topic": {ID: "p", Type: TypePubSub, PubSub: &PubSubConfig{ProjectID: "proj"}},
		"missing type":  {ID: "x"},
		"missing id":    {Type: TypeHTTP},
	}
	for name, cfg := range cases {
		if err := validateSinkConfig(sanitizeSinkConfig(cfg)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestSanitizeHeadersDropsBlankEntries(t *testing.T) {
	got := sanitizeHeaders(map[string]string{" X-Token ": " abc ", "": "v", "Empty": "  "})
	if len(got) != 1 || got["X-Token"] != "abc" {
		t.Fatalf("unexpected headers %#v", got)
	}
}
