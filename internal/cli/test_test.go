package cli

import (
	"strings"
	"testing"

	"github.com/ksyq12/siteman/internal/executor"
)

func TestRunTest_PrintsVerbatimOutput(t *testing.T) {
	mock, buf := setupCLI(t)
	mock.Results = map[string]executor.Result{
		"nginx": {Stderr: "nginx: configuration file /etc/nginx/nginx.conf test is successful\n"},
	}

	if err := runTest(testCmd, nil); err != nil {
		t.Fatalf("runTest failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "test is successful") {
		t.Errorf("output = %q, want verbatim validator output", out)
	}
	if !strings.Contains(out, "Configuration test passed") {
		t.Errorf("output = %q, want success line", out)
	}
}

func TestRunTest_Failure(t *testing.T) {
	mock, buf := setupCLI(t)
	mock.RunFunc = failNginxTest("nginx: [emerg] invalid parameter")

	if err := runTest(testCmd, nil); err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(buf.String(), "[emerg]") {
		t.Errorf("output = %q, want verbatim validator output", buf.String())
	}
}

func TestRunTest_JSON(t *testing.T) {
	mock, buf := setupCLI(t)
	jsonOutput = true
	mock.Results = map[string]executor.Result{
		"nginx": {Stderr: "syntax is ok\n"},
	}

	if err := runTest(testCmd, nil); err != nil {
		t.Fatalf("runTest failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"success": true`) {
		t.Errorf("output = %q, want JSON result", out)
	}
}
