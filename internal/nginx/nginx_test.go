package nginx

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ksyq12/siteman/internal/executor"
	"github.com/ksyq12/siteman/internal/logger"
)

func TestDaemon_Installed(t *testing.T) {
	mock := &executor.MockRunner{}
	d := New(mock, logger.Nop())

	if !d.Installed() {
		t.Error("default mock lookup should report installed")
	}

	mock.LookPathFunc = func(file string) (string, error) {
		return "", errors.New("not found")
	}
	if d.Installed() {
		t.Error("expected not installed")
	}
}

func TestDaemon_Running(t *testing.T) {
	tests := []struct {
		name   string
		result executor.Result
		want   bool
	}{
		{"active", executor.Result{Stdout: "active\n"}, true},
		{"inactive", executor.Result{ExitCode: 3, Stdout: "inactive\n"}, false},
		{"failed unit", executor.Result{ExitCode: 3, Stdout: "failed\n"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &executor.MockRunner{Results: map[string]executor.Result{"systemctl": tt.result}}
			d := New(mock, logger.Nop())
			if got := d.Running(context.Background()); got != tt.want {
				t.Errorf("Running() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaemon_Validate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mock := &executor.MockRunner{Results: map[string]executor.Result{
			"nginx": {Stderr: "nginx: the configuration file /etc/nginx/nginx.conf syntax is ok\n"},
		}}
		d := New(mock, logger.Nop())

		out, err := d.Validate(context.Background())
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if !strings.Contains(out, "syntax is ok") {
			t.Errorf("output = %q", out)
		}
		if !mock.CalledWith("nginx", "-t") {
			t.Error("expected nginx -t invocation")
		}
	})

	t.Run("failure carries verbatim output", func(t *testing.T) {
		validatorOut := `nginx: [emerg] unknown directive "serverr" in /etc/nginx/sites-enabled/example.com:1
nginx: configuration file /etc/nginx/nginx.conf test failed`
		mock := &executor.MockRunner{Results: map[string]executor.Result{
			"nginx": {ExitCode: 1, Stderr: validatorOut + "\n"},
		}}
		d := New(mock, logger.Nop())

		out, err := d.Validate(context.Background())
		if err == nil {
			t.Fatal("expected validation failure")
		}
		if out != validatorOut {
			t.Errorf("validator output not verbatim:\n%q", out)
		}
	})
}

func TestDaemon_Reload(t *testing.T) {
	t.Run("systemctl path", func(t *testing.T) {
		mock := &executor.MockRunner{}
		d := New(mock, logger.Nop())

		if err := d.Reload(context.Background()); err != nil {
			t.Fatalf("Reload failed: %v", err)
		}
		if !mock.CalledWith("systemctl", "reload", "nginx") {
			t.Error("expected systemctl reload")
		}
		if mock.CalledWith("nginx", "-s") {
			t.Error("fallback should not run when systemctl succeeds")
		}
	})

	t.Run("falls back to nginx -s reload", func(t *testing.T) {
		mock := &executor.MockRunner{Results: map[string]executor.Result{
			"systemctl": {ExitCode: 1, Stderr: "Failed to reload nginx.service\n"},
		}}
		d := New(mock, logger.Nop())

		if err := d.Reload(context.Background()); err != nil {
			t.Fatalf("Reload failed: %v", err)
		}
		if !mock.CalledWith("nginx", "-s", "reload") {
			t.Error("expected nginx -s reload fallback")
		}
	})

	t.Run("both paths fail", func(t *testing.T) {
		mock := &executor.MockRunner{RunFunc: func(name string, args ...string) (executor.Result, error) {
			return executor.Result{ExitCode: 1, Stderr: "no\n"}, nil
		}}
		d := New(mock, logger.Nop())

		if err := d.Reload(context.Background()); err == nil {
			t.Error("expected error when both reload paths fail")
		}
	})
}

func TestDaemon_InstallAndStart(t *testing.T) {
	mock := &executor.MockRunner{}
	d := New(mock, logger.Nop())
	ctx := context.Background()

	if err := d.Install(ctx); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if !mock.CalledWith("apt-get", "install", "-y", "nginx") {
		t.Error("expected apt-get install nginx")
	}

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !mock.CalledWith("systemctl", "start", "nginx") {
		t.Error("expected systemctl start nginx")
	}

	mock.Results = map[string]executor.Result{
		"apt-get": {ExitCode: 100, Stderr: "E: Unable to locate package nginx\n"},
	}
	if err := d.Install(ctx); err == nil {
		t.Error("expected install failure")
	}
}
