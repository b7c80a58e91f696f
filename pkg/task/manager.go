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

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// MaxTasks is the capacity of the task table. Slots are never
// reclaimed within a run; a finished task keeps its slot.
const MaxTasks = 256

// ErrTableFull is returned by AddTask and ForkTask when all task
// slots have been handed out.
var ErrTableFull = errors.New("task: table full")

var errNoCurrent = errors.New("task: no task is running")

// Manager owns the task table and implements the scheduler. It is
// single-threaded by construction: it runs with interrupts masked, so
// no locking is needed, and the only suspension points tasks ever see
// are its timer ticks.
type Manager struct {
	tasks    [MaxTasks]Task
	numTasks int // high-water mark of created tasks
	current  int // index of the task on the CPU, -1 if none
	lastPID  uint32
}

// NewManager returns a manager with an empty table.
func NewManager() *Manager {
	return &Manager{current: -1}
}

// NumTasks returns the number of task slots ever populated.
func (m *Manager) NumTasks() int { return m.numTasks }

// CurrentIndex returns the slot index of the task on the CPU, or -1.
func (m *Manager) CurrentIndex() int { return m.current }

// Info is a read-only snapshot of one task slot.
type Info struct {
	PID       uint32
	ParentPID uint32
	ChildPID  uint32
	State     State
	WaitPID   uint32
	Running   bool
}

// Snapshot returns the populated slots in table order.
func (m *Manager) Snapshot() []Info {
	infos := make([]Info, m.numTasks)
	for i := 0; i < m.numTasks; i++ {
		t := &m.tasks[i]
		infos[i] = Info{
			PID:       t.pid,
			ParentPID: t.ppid,
			ChildPID:  t.cpid,
			State:     t.state,
			WaitPID:   t.waitPID,
			Running:   i == m.current && t.state == Ready,
		}
	}
	return infos
}

// AddTask copies t's seeded register frame into the next free slot and
// assigns it a fresh PID. The slot gets its own stack with the frame
// at the top; t itself is not retained.
func (m *Manager) AddTask(t *Task) (uint32, error) {
	if m.numTasks >= MaxTasks {
		return 0, ErrTableFull
	}
	slot := &m.tasks[m.numTasks]
	m.lastPID++
	slot.pid = m.lastPID
	slot.ppid = 0
	slot.cpid = 0
	slot.waitPID = 0
	slot.state = Ready
	slot.ctxOff = StackSize - CPUStateSize

	frame := t.Context()
	frame.Error = 0
	frame.SS = 0
	slot.setContext(&frame)

	m.numTasks++
	return slot.pid, nil
}

// ForkTask duplicates the current task into a new slot: the stack is
// copied byte for byte, the saved frame keeps the same offset within
// the new stack, and the child's A register is zeroed so it reads 0 on
// its first resumption. cpustate is the caller's frame as delivered by
// the interrupt stub; it is persisted into the parent's stack before
// the copy. Returns the child's PID.
func (m *Manager) ForkTask(cpustate *CPUState) (uint32, error) {
	if m.numTasks >= MaxTasks {
		return 0, ErrTableFull
	}
	if m.current < 0 {
		return 0, errNoCurrent
	}
	parent := &m.tasks[m.current]
	parent.setContext(cpustate)

	child := &m.tasks[m.numTasks]
	*child = *parent
	m.lastPID++
	child.pid = m.lastPID
	child.ppid = parent.pid
	child.cpid = 0
	child.waitPID = 0
	child.state = Ready

	ctx := child.Context()
	ctx.EAX = 0
	child.setContext(&ctx)

	parent.cpid = child.pid
	m.numTasks++
	return child.pid, nil
}

// ExitTask marks the current task FINISHED. The slot is kept; only
// the scheduler's waiter resolution ever looks at it again.
func (m *Manager) ExitTask() bool {
	if m.current < 0 {
		return false
	}
	m.tasks[m.current].state = Finished
	return true
}

// WaitTask marks the current task WAITING on pid. A pid of 0 means
// any child: the waiter wakes when any task it forked is FINISHED.
func (m *Manager) WaitTask(pid uint32) bool {
	if m.current < 0 {
		return false
	}
	t := &m.tasks[m.current]
	t.state = Waiting
	t.waitPID = pid
	return true
}

// PID returns the PID of the current task, 0 if none.
func (m *Manager) PID() uint32 {
	if m.current < 0 {
		return 0
	}
	return m.tasks[m.current].pid
}

// ChildPID returns the current task's most recently forked child PID,
// 0 if it has never forked or no task is running.
func (m *Manager) ChildPID() uint32 {
	if m.current < 0 {
		return 0
	}
	return m.tasks[m.current].cpid
}

// index returns the slot index of the task with the given PID, or -1.
// PID 0 never matches.
func (m *Manager) index(pid uint32) int {
	if pid == 0 {
		return -1
	}
	for i := 0; i < m.numTasks; i++ {
		if m.tasks[i].pid == pid {
			return i
		}
	}
	return -1
}

// waitee resolves the wait target of the waiting task in slot i.
// For a concrete target it returns that task's slot. For the 0
// wildcard it prefers a FINISHED child, then a READY child. The bool
// reports whether a target slot was resolved; a waiter with wildcard
// target and no children resolves to (-1, false) and is set READY
// here.
func (m *Manager) waitee(i int) (int, bool) {
	w := &m.tasks[i]
	if w.waitPID != 0 {
		j := m.index(w.waitPID)
		return j, j >= 0
	}
	ready := -1
	children := 0
	for j := 0; j < m.numTasks; j++ {
		if m.tasks[j].ppid != w.pid {
			continue
		}
		children++
		switch m.tasks[j].state {
		case Finished:
			return j, true
		case Ready:
			if ready < 0 {
				ready = j
			}
		}
	}
	if ready >= 0 {
		return ready, true
	}
	if children == 0 {
		// Nothing to wait for; wake the task.
		w.state = Ready
	}
	return -1, false
}

// Schedule is the timer-tick entry point. cpustate is the interrupted
// frame; the returned frame is the one to load next. The incoming
// frame is persisted into the current task's stack, then the table is
// scanned round-robin from the slot after the current one:
//
//   - a READY slot is selected;
//   - a WAITING slot is resolved: if its target is FINISHED the waiter
//     is woken and reconsidered, if the target is READY the scan jumps
//     to the target, otherwise the scan moves past;
//   - FINISHED slots are skipped.
//
// The waitpid syscall arrives on the timer vector, so an incoming
// opcode of 6 in the A register records the wait before anything else.
// The scan is bounded; if no runnable task is found the incoming
// frame is returned unchanged.
func (m *Manager) Schedule(cpustate *CPUState) *CPUState {
	if cpustate.EAX == SysWaitPID {
		m.WaitTask(cpustate.EBX)
	}
	if m.numTasks <= 0 {
		return cpustate
	}
	if m.current >= 0 {
		m.tasks[m.current].setContext(cpustate)
	}

	find := (m.current + 1) % m.numTasks
	// Waking a waiter revisits its slot, so the bound is two sweeps.
	for visited := 0; visited <= 2*m.numTasks; visited++ {
		t := &m.tasks[find]
		if t.state == Ready {
			m.current = find
			next := t.Context()
			return &next
		}
		if t.state == Waiting {
			if j, ok := m.waitee(find); ok {
				if m.tasks[j].state == Finished {
					t.waitPID = 0
					t.state = Ready
					continue
				}
				if m.tasks[j].state == Ready {
					// Run the waitee first.
					find = j
					continue
				}
			} else if t.state == Ready {
				// Woken by waitee: wildcard with no children.
				continue
			}
		}
		find = (find + 1) % m.numTasks
	}
	return cpustate
}

// WriteTable writes the process table to w, one row per slot.
func (m *Manager) WriteTable(w io.Writer) {
	fmt.Fprintf(w, "-----------------------------\n")
	fmt.Fprintf(w, "%-5s %-5s %s\n", "PID", "PPID", "STATE")
	for i := 0; i < m.numTasks; i++ {
		t := &m.tasks[i]
		state := t.state.String()
		if t.state == Ready && i == m.current {
			state = "RUNNING"
		}
		fmt.Fprintf(w, "%-5d %-5d %s\n", t.pid, t.ppid, state)
	}
	fmt.Fprintf(w, "-----------------------------\n")
}
