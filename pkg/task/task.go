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

// Package task implements the cooperative multitasking core: process
// control blocks, fork/exit/wait semantics, a round-robin scheduler
// driven by timer ticks, and the syscall dispatcher that sits between
// an interrupt stub and the scheduler.
package task

// StackSize is the size of each task's kernel stack.
const StackSize = 4096

// State is a task's scheduling state. READY and RUNNING share a single
// state; a READY task is RUNNING exactly when its slot index equals the
// manager's current index.
type State uint8

const (
	Finished State = iota
	Waiting
	Ready
)

func (s State) String() string {
	switch s {
	case Finished:
		return "FINISHED"
	case Waiting:
		return "WAITING"
	case Ready:
		return "READY"
	}
	return "UNKNOWN"
}

// Task is a process control block. The zero Task is an empty slot.
//
// The saved CPUState lives inside the task's own stack, at byte offset
// ctxOff. Fork copies the stack as raw bytes; any frame that holds an
// absolute address into the parent stack is undefined in the child.
type Task struct {
	pid     uint32 // 0 means empty slot
	ppid    uint32
	cpid    uint32 // most recently forked child, 0 if none
	state   State
	waitPID uint32 // valid when state == Waiting; 0 means any child
	stack   [StackSize]byte
	ctxOff  int // offset of the saved CPUState within stack
}

// NewTask returns a task whose first resumption enters entry with the
// given code segment selector, interrupts enabled. The saved frame is
// seeded at the top of the stack, the way the boot path builds the
// first frame for a fresh task.
func NewTask(entry, codeSegment uint32) *Task {
	t := &Task{ctxOff: StackSize - CPUStateSize}
	cs := CPUState{
		EIP:    entry,
		CS:     codeSegment,
		EFLAGS: 0x202,
	}
	t.setContext(&cs)
	return t
}

// PID returns the task's process identifier, 0 for an empty slot.
func (t *Task) PID() uint32 { return t.pid }

// ParentPID returns the PID of the task's parent, 0 if it has none.
func (t *Task) ParentPID() uint32 { return t.ppid }

// ChildPID returns the PID of the task's most recently forked child,
// 0 if it has never forked.
func (t *Task) ChildPID() uint32 { return t.cpid }

// State returns the task's scheduling state.
func (t *Task) State() State { return t.state }

// Context decodes the task's saved register frame from its stack.
func (t *Task) Context() CPUState {
	return decodeCPUState(t.stack[t.ctxOff:])
}

// setContext writes cs into the task's stack at the saved-frame offset.
func (t *Task) setContext(cs *CPUState) {
	cs.encode(t.stack[t.ctxOff:])
}
