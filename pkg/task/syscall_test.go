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

func TestSyscallGetPID(t *testing.T) {
	s := newSim(t)
	s.load(1, nil)
	cs := s.mgr.Schedule(&CPUState{})
	cs.EAX = SysGetPID
	out := s.h.HandleSyscall(cs)
	if out != cs {
		t.Fatal("getpid switched frames")
	}
	if want := s.mgr.PID(); out.ECX != want || want == 0 {
		t.Fatalf("ECX = %d, want PID %d", out.ECX, want)
	}
}

func TestSyscallGetCPIDBeforeFork(t *testing.T) {
	s := newSim(t)
	s.load(1, nil)
	cs := s.mgr.Schedule(&CPUState{})
	cs.EAX = SysGetCPID
	out := s.h.HandleSyscall(cs)
	if out.ECX != 0 {
		t.Fatalf("ECX = %d, want 0 before any fork", out.ECX)
	}
}

func TestSyscallForkSchedulesChild(t *testing.T) {
	s := newSim(t)
	s.load(1, nil)
	cs := s.mgr.Schedule(&CPUState{})
	cs.EAX = SysFork
	out := s.h.HandleSyscall(cs)
	// The dispatcher re-enters the timer chain; the round-robin scan
	// starts after the parent, so the child's frame comes back, with
	// its A register zeroed.
	if s.mgr.CurrentIndex() != 1 {
		t.Fatalf("current = %d, want child slot 1", s.mgr.CurrentIndex())
	}
	if out.EAX != 0 {
		t.Fatalf("child frame EAX = %d, want 0", out.EAX)
	}
	// The parent's saved frame carries the child PID in C.
	parent := s.mgr.Snapshot()[0]
	saved := s.mgr.tasks[0].Context()
	if saved.ECX != parent.ChildPID || saved.ECX == 0 {
		t.Fatalf("parent saved ECX = %d, want child PID %d", saved.ECX, parent.ChildPID)
	}
}

func TestSyscallUnknownOpcodeIsNoop(t *testing.T) {
	s := newSim(t)
	s.load(1, nil)
	cs := s.mgr.Schedule(&CPUState{})
	before := *cs
	before.EAX = 99
	cs.EAX = 99
	out := s.h.HandleSyscall(cs)
	if out != cs || *out != before {
		t.Fatalf("unknown opcode mutated the frame: %+v", out)
	}
}

func TestSyscallPrintf(t *testing.T) {
	s := newSim(t)
	s.load(1, nil)
	addr := s.str("hello from ring 3\n")
	cs := s.mgr.Schedule(&CPUState{})
	cs.EAX = SysPrintf
	cs.EBX = addr
	s.h.HandleSyscall(cs)
	if got := s.console.String(); got != "hello from ring 3\n" {
		t.Fatalf("console = %q", got)
	}
}

// TestScenarioForkPrintfWait is the two-task console demo: the child
// prints and exits while the parent prints, waits for the child, then
// prints again. The parent's second line must come after its first,
// and only after the child has finished.
func TestScenarioForkPrintfWait(t *testing.T) {
	s := newSim(t)
	child := s.str("child\n")
	parent1 := s.str("parent1\n")
	parent2 := s.str("parent2\n")
	s.load(1, []step{
		0: sys(SysFork),
		1: sys(SysGetCPID),
		2: branchIfChild(7),
		3: printfStep(parent1),
		4: waitpidStep(func(cs *CPUState) uint32 { return cs.ECX }),
		5: printfStep(parent2),
		6: sys(SysExit),
		7: printfStep(child),
		8: sys(SysExit),
	})
	s.run(200)

	out := s.console.String()
	for _, want := range []string{"child\n", "parent1\n", "parent2\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("console missing %q:\n%s", want, out)
		}
	}
	p1 := strings.Index(out, "parent1")
	p2 := strings.Index(out, "parent2")
	c := strings.Index(out, "child")
	if p1 > p2 {
		t.Fatalf("parent2 printed before parent1:\n%s", out)
	}
	if c > p2 {
		t.Fatalf("parent2 printed before the child finished:\n%s", out)
	}
	for _, ti := range s.mgr.Snapshot() {
		if ti.State != Finished {
			t.Fatalf("pid %d state = %v, want FINISHED", ti.PID, ti.State)
		}
	}
}
