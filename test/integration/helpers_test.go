package integration

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

// buildBinary builds the logdash binary and returns its path
func buildBinary(t *testing.T) string {
	t.Helper()

	binary := filepath.Join(t.TempDir(), "logdash")

	cmd := exec.Command("go", "build", "-o", binary, "./cmd/logdash")
	cmd.Dir = projectRoot(t)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, output)
	}

	return binary
}

// projectRoot is two directories up from test/integration
func projectRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	return filepath.Join(wd, "..", "..")
}

// runLogdash runs the binary to completion in dir and returns its output and exit code
func runLogdash(t *testing.T, binary, dir string, args ...string) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	cmd := exec.Command(binary, args...)
	cmd.Dir = dir
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if exitErr, ok := err.(*exec.ExitError); ok {
		code = exitErr.ExitCode()
	} else if err != nil {
		t.Fatalf("failed to run logdash: %v", err)
	}
	return outBuf.String(), errBuf.String(), code
}

// startLogdash starts the binary in dir without waiting for it
func startLogdash(t *testing.T, binary, dir string, args ...string) (*exec.Cmd, *syncBuffer) {
	t.Helper()

	out := &syncBuffer{}
	cmd := exec.Command(binary, args...)
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start logdash: %v", err)
	}
	return cmd, out
}

// stopLogdash interrupts the process and waits for it to exit
func stopLogdash(t *testing.T, cmd *exec.Cmd) error {
	t.Helper()

	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
		<-done
		t.Fatal("logdash did not exit after interrupt")
		return nil
	}
}

// writeConfig writes a logdash.yaml into dir
func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "logdash.yaml")
	body += "\nlog:\n  file: " + filepath.Join(dir, "logdash.log") + "\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// skipShort skips the test if -short flag is provided
func skipShort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}
