// Package bash runs shell source through an mvdan.cc/sh runner.
package bash

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// threadSafeBuffer provides a thread-safe wrapper around bytes.Buffer
type threadSafeBuffer struct {
	buffer bytes.Buffer
	mutex  sync.Mutex
}

func (b *threadSafeBuffer) Write(p []byte) (n int, err error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.Write(p)
}

func (b *threadSafeBuffer) String() string {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.String()
}

// RunScript parses and runs a script from reader in runner itself, so
// variables, functions and the working directory it sets persist.
func RunScript(ctx context.Context, runner *interp.Runner, reader io.Reader, name string) error {
	prog, err := syntax.NewParser().Parse(reader, name)
	if err != nil {
		return err
	}
	return runner.Run(ctx, prog)
}

// RunScriptFile runs the script at filePath in runner.
func RunScriptFile(ctx context.Context, runner *interp.Runner, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()
	return RunScript(ctx, runner, f, filePath)
}

// Capture runs command in a subshell of runner and returns what it wrote.
// A non-zero exit code is not an error; check the code separately.
func Capture(ctx context.Context, runner *interp.Runner, command string) (string, string, int, error) {
	subShell := runner.Subshell()

	outBuf := &threadSafeBuffer{}
	errBuf := &threadSafeBuffer{}
	interp.StdIO(nil, outBuf, errBuf)(subShell) //nolint:errcheck

	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return "", "", 1, fmt.Errorf("failed to parse bash command: %w", err)
	}

	code, err := ExitCode(subShell.Run(ctx, prog))
	return outBuf.String(), errBuf.String(), code, err
}

// ExitCode converts the error of a runner into an exit code. An exit
// status is not an error; anything else is returned with code 1.
func ExitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	if status, ok := interp.IsExitStatus(err); ok {
		return int(status), nil
	}
	return 1, err
}
