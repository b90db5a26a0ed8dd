//go:build linux || darwin

package lock

import "syscall"

// alive probes whether pid is a live process using the zero signal, which
// checks permission/existence without actually signaling the process.
func alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, syscall.Signal(0))
	if err == nil {
		return true
	}
	return err == syscall.EPERM
}
