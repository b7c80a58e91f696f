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
	"strings"
	"testing"
)

// checkInvariants verifies the table-wide invariants: cursor bounds,
// PID uniqueness, and every saved frame lying inside its own stack.
func checkInvariants(t *testing.T, m *Manager) {
	t.Helper()
	if m.numTasks < 0 || m.numTasks > MaxTasks {
		t.Fatalf("numTasks = %d, want 0..%d", m.numTasks, MaxTasks)
	}
	if m.current < -1 || m.current >= m.numTasks {
		t.Fatalf("current = %d with %d tasks", m.current, m.numTasks)
	}
	seen := make(map[uint32]bool)
	for i := 0; i < m.numTasks; i++ {
		tk := &m.tasks[i]
		if tk.pid == 0 {
			t.Fatalf("slot %d: zero PID", i)
		}
		if seen[tk.pid] {
			t.Fatalf("slot %d: duplicate PID %d", i, tk.pid)
		}
		seen[tk.pid] = true
		if tk.ctxOff < 0 || tk.ctxOff+CPUStateSize > StackSize {
			t.Fatalf("slot %d: frame offset %d outside stack", i, tk.ctxOff)
		}
	}
}

func addTasks(t *testing.T, m *Manager, n int) []uint32 {
	t.Helper()
	pids := make([]uint32, n)
	for i := range pids {
		pid, err := m.AddTask(NewTask(uint32(0x100*(i+1)), 0x08))
		if err != nil {
			t.Fatalf("AddTask #%d: %v", i, err)
		}
		pids[i] = pid
	}
	return pids
}

func TestAddTaskSeedsFrame(t *testing.T) {
	m := NewManager()
	pids := addTasks(t, m, 2)
	if pids[0] == pids[1] {
		t.Fatalf("duplicate PIDs: %v", pids)
	}
	cs := m.tasks[0].Context()
	if cs.EIP != 0x100 || cs.CS != 0x08 || cs.EFLAGS != 0x202 {
		t.Fatalf("seeded frame = %+v", cs)
	}
	if m.tasks[0].ctxOff != StackSize-CPUStateSize {
		t.Fatalf("frame offset = %d, want top of stack", m.tasks[0].ctxOff)
	}
	checkInvariants(t, m)
}

func TestTableFull(t *testing.T) {
	m := NewManager()
	addTasks(t, m, MaxTasks)
	if _, err := m.AddTask(NewTask(0, 0x08)); err != ErrTableFull {
		t.Fatalf("AddTask on full table: err = %v, want ErrTableFull", err)
	}
	// Make slot 0 current so ForkTask has a caller.
	m.Schedule(&CPUState{})
	if _, err := m.ForkTask(&CPUState{}); err != ErrTableFull {
		t.Fatalf("ForkTask on full table: err = %v, want ErrTableFull", err)
	}
	checkInvariants(t, m)
}

func TestSchedulePersistsAndReturnsCurrent(t *testing.T) {
	m := NewManager()
	addTasks(t, m, 3)
	cs := m.Schedule(&CPUState{})
	for i := 0; i < 10; i++ {
		cs.EDX = uint32(1000 + i) // mutate the live frame, as user code would
		prev := m.current
		cs = m.Schedule(cs)
		got := m.tasks[m.current].Context()
		if *cs != got {
			t.Fatalf("tick %d: returned frame differs from tasks[%d] saved frame", i, m.current)
		}
		saved := m.tasks[prev].Context()
		if saved.EDX != uint32(1000+i) {
			t.Fatalf("tick %d: incoming frame not persisted into slot %d", i, prev)
		}
		checkInvariants(t, m)
	}
}

func TestScheduleRoundRobinFairness(t *testing.T) {
	m := NewManager()
	const n = 5
	addTasks(t, m, n)
	cs := m.Schedule(&CPUState{})
	if m.current != 0 {
		t.Fatalf("first tick selected slot %d, want 0", m.current)
	}
	for i := 1; i < 3*n; i++ {
		cs = m.Schedule(cs)
		if want := i % n; m.current != want {
			t.Fatalf("tick %d: selected slot %d, want %d", i, m.current, want)
		}
	}
}

func TestScheduleEmptyTable(t *testing.T) {
	m := NewManager()
	in := &CPUState{EAX: 42}
	if out := m.Schedule(in); out != in {
		t.Fatalf("empty table: Schedule did not return the incoming frame")
	}
}

func TestScheduleNoRunnableFallsBack(t *testing.T) {
	m := NewManager()
	addTasks(t, m, 2)
	cs := m.Schedule(&CPUState{})
	m.ExitTask()
	cs = m.Schedule(cs) // switches to slot 1
	if m.current != 1 {
		t.Fatalf("current = %d, want 1", m.current)
	}
	m.ExitTask()
	in := *cs
	out := m.Schedule(cs)
	if *out != in {
		t.Fatalf("all finished: Schedule did not fall back to the incoming frame")
	}
	checkInvariants(t, m)
}

func TestForkDuplicatesStack(t *testing.T) {
	m := NewManager()
	addTasks(t, m, 1)
	cs := m.Schedule(&CPUState{})

	parent := &m.tasks[0]
	// Scribble a recognizable pattern below the frame.
	for i := 0; i < 64; i++ {
		parent.stack[i] = byte(i * 3)
	}
	cs.EDX = 0xfeed
	cs.ECX = 0x1111

	childPID, err := m.ForkTask(cs)
	if err != nil {
		t.Fatalf("ForkTask: %v", err)
	}
	child := &m.tasks[1]
	if child.pid != childPID || child.ppid != parent.pid {
		t.Fatalf("lineage: child pid=%d ppid=%d, want pid=%d ppid=%d",
			child.pid, child.ppid, childPID, parent.pid)
	}
	if parent.cpid != childPID {
		t.Fatalf("parent cpid = %d, want %d", parent.cpid, childPID)
	}
	if child.cpid != 0 {
		t.Fatalf("child cpid = %d, want 0", child.cpid)
	}
	if child.ctxOff != parent.ctxOff {
		t.Fatalf("child frame offset %d != parent %d", child.ctxOff, parent.ctxOff)
	}
	for i := 0; i < 64; i++ {
		if child.stack[i] != byte(i*3) {
			t.Fatalf("stack byte %d not copied", i)
		}
	}
	cc := child.Context()
	if cc.EAX != 0 {
		t.Fatalf("child EAX = %d, want 0", cc.EAX)
	}
	if cc.EDX != 0xfeed || cc.ECX != 0x1111 {
		t.Fatalf("child frame not copied from caller: %+v", cc)
	}
	checkInvariants(t, m)
}

func TestWaitResolution(t *testing.T) {
	m := NewManager()
	addTasks(t, m, 1)
	cs := m.Schedule(&CPUState{})
	childPID, err := m.ForkTask(cs)
	if err != nil {
		t.Fatalf("ForkTask: %v", err)
	}

	// Parent waits on the child; the wait arrives on the timer vector.
	cs.EAX = SysWaitPID
	cs.EBX = childPID
	cs = m.Schedule(cs)
	if m.current != 1 {
		t.Fatalf("current = %d, want child slot 1", m.current)
	}
	if m.tasks[0].state != Waiting || m.tasks[0].waitPID != childPID {
		t.Fatalf("parent state=%v waitPID=%d", m.tasks[0].state, m.tasks[0].waitPID)
	}

	// Child exits; the next pass must wake the parent and clear the
	// wait target.
	m.ExitTask()
	cs.EAX = 0
	cs = m.Schedule(cs)
	if m.current != 0 {
		t.Fatalf("current = %d, want parent slot 0", m.current)
	}
	if m.tasks[0].state != Ready || m.tasks[0].waitPID != 0 {
		t.Fatalf("parent not woken: state=%v waitPID=%d", m.tasks[0].state, m.tasks[0].waitPID)
	}
	checkInvariants(t, m)
}

func TestWaitPrefersRunnableWaitee(t *testing.T) {
	m := NewManager()
	pids := addTasks(t, m, 3) // slots: 0=A 1=B 2=C
	cs := m.Schedule(&CPUState{})
	cs = m.Schedule(cs) // B running
	if m.current != 1 {
		t.Fatalf("current = %d, want 1", m.current)
	}

	// B waits on A, which stays READY. Whenever the scan passes B it
	// must jump to A instead of moving on to C.
	cs.EAX = SysWaitPID
	cs.EBX = pids[0]
	cs = m.Schedule(cs)
	if m.current != 2 {
		t.Fatalf("current = %d, want 2", m.current)
	}
	cs.EAX = 0
	cs = m.Schedule(cs) // wraps to A
	if m.current != 0 {
		t.Fatalf("current = %d, want 0", m.current)
	}
	cs = m.Schedule(cs) // scan hits B, jumps to its runnable waitee A
	if m.current != 0 {
		t.Fatalf("current = %d, want waitee slot 0", m.current)
	}
	if m.tasks[1].state != Waiting {
		t.Fatalf("waiter state = %v, want WAITING", m.tasks[1].state)
	}
}

func TestWaitAnyChild(t *testing.T) {
	m := NewManager()
	addTasks(t, m, 1)
	cs := m.Schedule(&CPUState{})
	if _, err := m.ForkTask(cs); err != nil {
		t.Fatalf("ForkTask: %v", err)
	}

	cs.EAX = SysWaitPID
	cs.EBX = 0 // any child
	cs = m.Schedule(cs)
	if m.current != 1 {
		t.Fatalf("current = %d, want child slot 1", m.current)
	}
	m.ExitTask()
	cs.EAX = 0
	cs = m.Schedule(cs)
	if m.current != 0 || m.tasks[0].state != Ready {
		t.Fatalf("parent not woken by finished child: current=%d state=%v",
			m.current, m.tasks[0].state)
	}
}

func TestWaitAnyWithoutChildrenWakes(t *testing.T) {
	m := NewManager()
	addTasks(t, m, 1)
	cs := m.Schedule(&CPUState{})
	cs.EAX = SysWaitPID
	cs.EBX = 0
	cs = m.Schedule(cs)
	if m.current != 0 || m.tasks[0].state != Ready {
		t.Fatalf("childless waitpid(0) did not wake: current=%d state=%v",
			m.current, m.tasks[0].state)
	}
}

func TestWaitOnMissingPIDNeverWakes(t *testing.T) {
	m := NewManager()
	addTasks(t, m, 2)
	cs := m.Schedule(&CPUState{})
	cs.EAX = SysWaitPID
	cs.EBX = 9999
	cs = m.Schedule(cs)
	if m.current != 1 {
		t.Fatalf("current = %d, want 1", m.current)
	}
	for i := 0; i < 5; i++ {
		cs.EAX = 0
		cs = m.Schedule(cs)
		if m.tasks[0].state != Waiting {
			t.Fatalf("tick %d: waiter on missing PID was woken", i)
		}
		if m.current != 1 {
			t.Fatalf("tick %d: current = %d, want 1", i, m.current)
		}
	}
}

// TestScenarioForkThreeChildren drives the fork/wait demo: one task
// forks three children that exit immediately, then waits for any
// child and exits. Everything must finish within 3 ticks per slot.
func TestScenarioForkThreeChildren(t *testing.T) {
	s := newSim(t)
	s.load(1, []step{
		0:  sys(SysFork),
		1:  sys(SysGetCPID),
		2:  branchIfChild(11),
		3:  sys(SysFork),
		4:  sys(SysGetCPID),
		5:  branchIfChild(11),
		6:  sys(SysFork),
		7:  sys(SysGetCPID),
		8:  branchIfChild(11),
		9:  waitpidStep(func(*CPUState) uint32 { return 0 }),
		10: sys(SysExit),
		11: sys(SysExit),
	})
	maxTicks := 3 * MaxTasks
	s.run(maxTicks)

	infos := s.mgr.Snapshot()
	if len(infos) != 4 {
		t.Fatalf("table has %d tasks, want 4", len(infos))
	}
	for i, ti := range infos {
		if ti.State != Finished {
			t.Fatalf("slot %d (pid %d) state = %v, want FINISHED", i, ti.PID, ti.State)
		}
	}
	checkInvariants(t, s.mgr)
}

func TestWriteTable(t *testing.T) {
	m := NewManager()
	addTasks(t, m, 2)
	cs := m.Schedule(&CPUState{})
	_ = cs
	var sb strings.Builder
	m.WriteTable(&sb)
	out := sb.String()
	for _, want := range []string{"PID", "PPID", "STATE", "RUNNING", "READY"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}
}
