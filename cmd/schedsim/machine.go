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

package main

import (
	"io"

	"minos.org/pkg/task"

	"github.com/pkg/errors"
)

// kernelCS is the code segment selector every task runs with.
const kernelCS = 0x08

// machine drives the task core the way the interrupt plumbing does on
// real hardware: it keeps the live register frame, executes one user
// instruction per tick, routes syscalls through the dispatcher, and
// fires the timer after every instruction.
//
// Programs are tables of instructions addressed by EIP: program p's
// instruction i lives at p<<8 | i, so a register frame alone is enough
// to resume any task. Strings passed to the printf syscall live in a
// flat address map standing in for user memory.
type machine struct {
	mgr     *task.Manager
	h       *task.Handler
	console io.Writer
	trace   io.Writer // non-nil: process table after every reschedule

	progs   map[uint32][]instr
	strs    map[uint32]string
	nextStr uint32
}

// instr is one user instruction. run mutates registers; a non-zero
// sys then issues that syscall with arg's value in the B register.
type instr struct {
	sys uint32
	arg func(m *machine, cs *task.CPUState) uint32
	run func(m *machine, cs *task.CPUState)
}

func newMachine(console io.Writer) *machine {
	m := &machine{
		mgr:     task.NewManager(),
		console: console,
		progs:   make(map[uint32][]instr),
		strs:    make(map[uint32]string),
		nextStr: 0x8000,
	}
	m.h = &task.Handler{Tasks: m.mgr, Console: console, Mem: m}
	return m
}

// CString implements task.Memory.
func (m *machine) CString(addr uint32) (string, error) {
	s, ok := m.strs[addr]
	if !ok {
		return "", errors.Errorf("schedsim: no string mapped at %#x", addr)
	}
	return s, nil
}

// str maps a string into the machine's user memory.
func (m *machine) str(s string) uint32 {
	addr := m.nextStr
	m.nextStr += uint32(len(s)) + 1
	m.strs[addr] = s
	return addr
}

// load registers a program and enqueues a task entering it.
func (m *machine) load(prog uint32, code []instr) error {
	m.progs[prog] = code
	_, err := m.mgr.AddTask(task.NewTask(prog<<8, kernelCS))
	return err
}

func (m *machine) runnable() bool {
	for _, ti := range m.mgr.Snapshot() {
		if ti.State == task.Ready {
			return true
		}
	}
	return false
}

// run ticks the machine until every task is finished or blocked, or
// maxTicks pass. It returns the number of ticks consumed.
func (m *machine) run(maxTicks int) (int, error) {
	cs := m.mgr.Schedule(&task.CPUState{})
	for tick := 0; tick < maxTicks; tick++ {
		if !m.runnable() {
			return tick, nil
		}
		prog, i := cs.EIP>>8, cs.EIP&0xff
		code := m.progs[prog]
		if int(i) >= len(code) {
			return tick, errors.Errorf("schedsim: EIP %#x past end of program %#x", cs.EIP, prog)
		}
		in := code[i]
		cs.EIP++
		if in.run != nil {
			in.run(m, cs)
		}
		if in.sys != 0 {
			cs.EAX = in.sys
			if in.arg != nil {
				cs.EBX = in.arg(m, cs)
			}
			if in.sys == task.SysWaitPID {
				// waitpid enters through the timer vector.
				cs = m.h.HandleTimer(cs)
				m.traceTable()
				continue
			}
			cs = m.h.HandleSyscall(cs)
		}
		cs = m.h.HandleTimer(cs)
		m.traceTable()
	}
	return maxTicks, errors.Errorf("schedsim: still running after %d ticks", maxTicks)
}

func (m *machine) traceTable() {
	if m.trace != nil {
		m.mgr.WriteTable(m.trace)
	}
}

// jump moves the frame's instruction pointer to another instruction
// of the same program.
func jump(cs *task.CPUState, target uint32) {
	cs.EIP = cs.EIP&^uint32(0xff) | target
}

// Instruction constructors.

func sys(op uint32) instr { return instr{sys: op} }

func printf(text string) instr {
	var addr uint32
	return instr{
		sys: task.SysPrintf,
		arg: func(m *machine, _ *task.CPUState) uint32 {
			if addr == 0 {
				addr = m.str(text)
			}
			return addr
		},
	}
}

// printfDyn formats the line at issue time, from the live registers.
func printfDyn(f func(cs *task.CPUState) string) instr {
	return instr{
		sys: task.SysPrintf,
		arg: func(m *machine, cs *task.CPUState) uint32 {
			return m.str(f(cs))
		},
	}
}

func compute(f func(cs *task.CPUState)) instr {
	return instr{run: func(_ *machine, cs *task.CPUState) { f(cs) }}
}

func waitpid(arg func(cs *task.CPUState) uint32) instr {
	return instr{sys: task.SysWaitPID, arg: func(_ *machine, cs *task.CPUState) uint32 { return arg(cs) }}
}

// branchIfChild jumps when the C register holds 0, the value getcpid
// leaves for a task that has never forked.
func branchIfChild(target uint32) instr {
	return compute(func(cs *task.CPUState) {
		if cs.ECX == 0 {
			jump(cs, target)
		}
	})
}
