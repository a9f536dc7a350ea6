package testutils

import (
	"fmt"
	"os"
	"runtime"
	"testing"

	"github.com/ionos-cloud/netlinklib/internal/unix"
)

// NetNS returns a file descriptor to a new network namespace.
// The netns handle is automatically closed as part of test cleanup.
func NetNS(tb testing.TB) int {
	tb.Helper()

	var ns *os.File
	done := make(chan error, 1)
	go func() {
		// Lock the new goroutine to its OS thread. Never unlock the goroutine so
		// the thread dies when the goroutine ends to avoid having to restore the
		// thread's netns.
		runtime.LockOSThread()

		// Move the current thread to a new network namespace.
		if err := unix.Unshare(unix.CLONE_NEWNET); err != nil {
			done <- fmt.Errorf("unsharing netns: %w", err)
			return
		}

		f, err := os.OpenFile(fmt.Sprintf("/proc/%d/task/%d/ns/net", os.Getpid(), unix.Gettid()),
			unix.O_RDONLY|unix.O_CLOEXEC, 0)
		if err != nil {
			done <- fmt.Errorf("opening netns handle: %w", err)
			return
		}

		// Store a namespace reference in the outer scope.
		ns = f
		done <- nil
	}()

	if err := <-done; err != nil {
		tb.Fatal(err)
	}

	tb.Cleanup(func() {
		// Maintain a reference to the namespace until the end of the test, where
		// the handle will close automatically and the namespace potentially
		// disappears if there are no other references (veth/netkit peers, ..) to it.
		ns.Close()
	})

	return int(ns.Fd())
}
