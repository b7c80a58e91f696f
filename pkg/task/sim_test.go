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
	"bytes"
	"testing"

	"github.com/pkg/errors"
)

// sim is a minimal deterministic machine for scenario tests. Programs
// are step tables addressed by EIP: program p's step i lives at
// p<<8 | i. Each tick executes one step of the task whose frame is
// live, routes any syscall through the dispatcher, then fires the
// timer. Strings for the printf syscall live in a flat address map.
type sim struct {
	t       *testing.T
	mgr     *Manager
	h       *Handler
	console bytes.Buffer
	progs   map[uint32][]step
	strs    map[uint32]string
	nextStr uint32
}

type step struct {
	sys uint32                // syscall opcode, 0 for compute-only
	arg func(*CPUState) uint32 // EBX for the syscall, when set
	run func(*CPUState)       // register compute, runs before the syscall
}

func newSim(t *testing.T) *sim {
	s := &sim{
		t:       t,
		mgr:     NewManager(),
		progs:   make(map[uint32][]step),
		strs:    make(map[uint32]string),
		nextStr: 0x8000,
	}
	s.h = &Handler{Tasks: s.mgr, Console: &s.console, Mem: s}
	return s
}

func (s *sim) CString(addr uint32) (string, error) {
	str, ok := s.strs[addr]
	if !ok {
		return "", errors.Errorf("sim: no string at %#x", addr)
	}
	return str, nil
}

// str places a string in simulated memory and returns its address.
func (s *sim) str(v string) uint32 {
	addr := s.nextStr
	s.nextStr += uint32(len(v)) + 1
	s.strs[addr] = v
	return addr
}

// load registers a program and enqueues a task entering it.
func (s *sim) load(prog uint32, steps []step) uint32 {
	s.progs[prog] = steps
	pid, err := s.mgr.AddTask(NewTask(prog<<8, 0x08))
	if err != nil {
		s.t.Fatalf("AddTask: %v", err)
	}
	return pid
}

func (s *sim) runnable() bool {
	for _, ti := range s.mgr.Snapshot() {
		if ti.State == Ready {
			return true
		}
	}
	return false
}

// run ticks the machine until no task is runnable or maxTicks pass.
// It returns the number of ticks consumed.
func (s *sim) run(maxTicks int) int {
	cs := s.mgr.Schedule(&CPUState{})
	for tick := 0; tick < maxTicks; tick++ {
		if !s.runnable() {
			return tick
		}
		prog, i := cs.EIP>>8, cs.EIP&0xff
		steps := s.progs[prog]
		if int(i) >= len(steps) {
			s.t.Fatalf("tick %d: EIP %#x past end of program %#x", tick, cs.EIP, prog)
		}
		st := steps[i]
		cs.EIP++
		if st.run != nil {
			st.run(cs)
		}
		if st.sys != 0 {
			cs.EAX = st.sys
			if st.arg != nil {
				cs.EBX = st.arg(cs)
			}
			if st.sys == SysWaitPID {
				cs = s.h.HandleTimer(cs)
				continue
			}
			cs = s.h.HandleSyscall(cs)
		}
		cs = s.h.HandleTimer(cs)
	}
	return maxTicks
}

// Step constructors shared by the scenario tests.

func sys(op uint32) step { return step{sys: op} }

func printfStep(addr uint32) step {
	return step{sys: SysPrintf, arg: func(*CPUState) uint32 { return addr }}
}

func waitpidStep(arg func(*CPUState) uint32) step {
	return step{sys: SysWaitPID, arg: arg}
}

// branchIfChild reads the C register left by getcpid and jumps to
// step target of the same program when it is zero.
func branchIfChild(target uint32) step {
	return step{run: func(cs *CPUState) {
		if cs.ECX == 0 {
			cs.EIP = cs.EIP&^uint32(0xff) | target
		}
	}}
}
