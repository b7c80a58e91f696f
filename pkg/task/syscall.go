/*
Copyright 2026 The Minos Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package task

import "io"

// Syscall opcodes, passed in the A register. Results, when any, are
// written to the caller's C register. SysWaitPID is delivered on the
// timer vector rather than the syscall vector so the scheduler runs
// immediately; the other opcodes arrive on the syscall vector.
const (
	SysGetPID  = 1
	SysFork    = 2
	SysExit    = 3
	SysPrintf  = 4
	SysGetCPID = 5
	SysWaitPID = 6
)

// Memory resolves user-space addresses passed through syscall
// registers. The printf syscall carries a string pointer in the B
// register; the dispatcher only ever reads through this interface.
type Memory interface {
	// CString reads the NUL-terminated byte string at addr.
	CString(addr uint32) (string, error)
}

// Handler dispatches syscall-vector entries against a task manager.
// Console is the external text output collaborator (the VGA driver on
// real hardware). Mem resolves string pointers for printf.
type Handler struct {
	Tasks   *Manager
	Console io.Writer
	Mem     Memory
}

// HandleSyscall handles one syscall-vector entry. cpustate is the
// caller's saved frame; results are written into it. fork and exit
// re-enter the timer chain so the scheduler picks the next task, and
// the returned frame is then the one the scheduler chose; all other
// opcodes return the caller's own frame.
func (h *Handler) HandleSyscall(cpustate *CPUState) *CPUState {
	switch cpustate.EAX {
	case SysGetPID:
		cpustate.ECX = h.Tasks.PID()
	case SysFork:
		pid, err := h.Tasks.ForkTask(cpustate)
		if err != nil {
			cpustate.ECX = 0
			break
		}
		cpustate.ECX = pid
		return h.Tasks.Schedule(cpustate)
	case SysExit:
		if h.Tasks.ExitTask() {
			return h.Tasks.Schedule(cpustate)
		}
	case SysPrintf:
		if h.Mem == nil || h.Console == nil {
			break
		}
		s, err := h.Mem.CString(cpustate.EBX)
		if err != nil {
			break
		}
		io.WriteString(h.Console, s)
	case SysGetCPID:
		cpustate.ECX = h.Tasks.ChildPID()
	}
	return cpustate
}

// HandleTimer handles one timer-vector entry: a plain scheduler tick.
// The waitpid syscall arrives here (see Manager.Schedule).
func (h *Handler) HandleTimer(cpustate *CPUState) *CPUState {
	return h.Tasks.Schedule(cpustate)
}
