//go:build !windows

package bash

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
)

// NewProcessGroupExecHandler returns an ExecHandlerFunc that runs external
// commands as foreground jobs: the child gets its own process group, which
// becomes the terminal's foreground group while it runs. Ctrl+C then reaches
// the child and not the shell.
//
// killTimeout is how long to wait after SIGINT before sending SIGKILL when
// ctx is cancelled. A negative value kills immediately.
func NewProcessGroupExecHandler(killTimeout time.Duration) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		hc := interp.HandlerCtx(ctx)
		path, err := interp.LookPathDir(hc.Dir, hc.Env, args[0])
		if err != nil {
			fmt.Fprintln(hc.Stderr, err)
			return interp.NewExitStatus(127)
		}

		cmd := exec.Cmd{
			Path:        path,
			Args:        args,
			Dir:         hc.Dir,
			Env:         execEnv(hc.Env),
			Stdin:       hc.Stdin,
			Stdout:      hc.Stdout,
			Stderr:      hc.Stderr,
			SysProcAttr: &syscall.SysProcAttr{Setpgid: true},
		}

		if err := cmd.Start(); err != nil {
			fmt.Fprintln(hc.Stderr, err)
			return interp.NewExitStatus(126)
		}

		pgid := cmd.Process.Pid

		// Hand the terminal to the child when stdin is one.
		ttyFd := -1
		originalPgrp := 0
		if f, ok := hc.Stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			ttyFd = int(f.Fd())
			originalPgrp, _ = unix.IoctlGetInt(ttyFd, unix.TIOCGPGRP)
			_ = unix.IoctlSetPointerInt(ttyFd, unix.TIOCSPGRP, pgid)
		}
		defer func() {
			if ttyFd >= 0 && originalPgrp > 0 {
				_ = unix.IoctlSetPointerInt(ttyFd, unix.TIOCSPGRP, originalPgrp)
			}
		}()

		waitDone := make(chan error, 1)
		go func() {
			waitDone <- cmd.Wait()
		}()

		select {
		case err := <-waitDone:
			return exitStatus(err)
		case <-ctx.Done():
			if killTimeout < 0 {
				_ = unix.Kill(-pgid, unix.SIGKILL)
				return exitStatus(<-waitDone)
			}

			_ = unix.Kill(-pgid, unix.SIGINT)
			select {
			case err := <-waitDone:
				return exitStatus(err)
			case <-time.After(killTimeout):
				_ = unix.Kill(-pgid, unix.SIGKILL)
			}
			return exitStatus(<-waitDone)
		}
	}
}

// exitStatus turns the result of cmd.Wait into what the runner expects:
// nil, an exit status, or a fatal error.
func exitStatus(err error) error {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return err
	}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return interp.NewExitStatus(128 + uint8(status.Signal()))
	}
	return interp.NewExitStatus(uint8(exitErr.ExitCode()))
}

// execEnv converts the exported variables of env to KEY=value pairs.
func execEnv(env expand.Environ) []string {
	var result []string
	env.Each(func(name string, vr expand.Variable) bool {
		if vr.Exported {
			result = append(result, name+"="+vr.String())
		}
		return true
	})
	return result
}
