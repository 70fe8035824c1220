package gitcmd

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"
)

func TestExecRunner_Success(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}

	r := NewExecRunner()
	res, err := r.Run(context.Background(), t.TempDir(), "--version")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !res.OK() {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if res.Trimmed() == "" {
		t.Error("expected version output")
	}
}

func TestExecRunner_NonZeroExitIsNotAnError(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}

	// rev-parse outside a repository exits 128
	r := NewExecRunner()
	res, err := r.Run(context.Background(), t.TempDir(), "rev-parse", "--show-toplevel")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.OK() {
		t.Error("expected non-zero exit code outside a repository")
	}
}

func TestExecRunner_MissingBinary(t *testing.T) {
	r := &ExecRunner{Binary: "gp-definitely-not-a-binary"}
	_, err := r.Run(context.Background(), t.TempDir(), "status")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestExecRunner_Cancelled(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	r := NewExecRunner()
	_, err := r.Run(ctx, t.TempDir(), "--version")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestResult_Trimmed(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		want   string
	}{
		{"empty", "", ""},
		{"trailing newline", "abc1234\n", "abc1234"},
		{"surrounding whitespace", "  3\t2 \n", "3\t2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Result{Stdout: tt.stdout}).Trimmed(); got != tt.want {
				t.Errorf("Trimmed() = %q, want %q", got, tt.want)
			}
		})
	}
}
