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
	"fmt"
	"strings"

	"minos.org/pkg/task"
)

// forkWaitProgram is the two-task console demo: the task forks, the
// child prints and exits, the parent prints, waits for the child,
// prints again and exits.
func forkWaitProgram() []instr {
	return []instr{
		0: sys(task.SysFork),
		1: sys(task.SysGetCPID),
		2: branchIfChild(7),
		3: printf("parent1\n"),
		4: waitpid(func(cs *task.CPUState) uint32 { return cs.ECX }),
		5: printf("parent2\n"),
		6: sys(task.SysExit),
		7: printf("child\n"),
		8: sys(task.SysExit),
	}
}

// collatzLine renders one Collatz trajectory.
func collatzLine(n uint32) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Output %d:", n)
	for n != 1 {
		fmt.Fprintf(&sb, " %d", n)
		if n%2 == 0 {
			n /= 2
		} else {
			n = 3*n + 1
		}
	}
	sb.WriteString(" 1\n")
	return sb.String()
}

// longRun burns quadratic work and returns its checksum.
func longRun(n uint32) uint32 {
	var result uint32
	for i := uint32(0); i < n; i++ {
		for j := uint32(0); j < n; j++ {
			result += i * j
		}
	}
	return result
}

// sixForksProgram mirrors the kernel demo that forks three Collatz
// children and three long-running children, waits for a child, and
// exits. Every Collatz child enters the same section; the long-running
// children read their duration from the D register, seeded by the
// parent just before each fork so the copied frame carries it.
func sixForksProgram() []instr {
	const (
		collatzSec = 24
		longSec    = 32
	)
	code := make([]instr, 40)

	step := uint32(0)
	forkTo := func(sec uint32) {
		code[step] = sys(task.SysFork)
		code[step+1] = sys(task.SysGetCPID)
		code[step+2] = branchIfChild(sec)
		step += 3
	}
	forkTo(collatzSec)
	forkTo(collatzSec)
	forkTo(collatzSec)
	for _, duration := range []uint32{250, 500, 1000} {
		d := duration
		code[step] = compute(func(cs *task.CPUState) { cs.EDX = d })
		step++
		forkTo(longSec)
	}
	code[step] = waitpid(func(*task.CPUState) uint32 { return 0 })
	code[step+1] = sys(task.SysExit)

	// Collatz section: D counts 1..99, one trajectory per tick.
	code[collatzSec] = printf("### Collatz Started ###\n")
	code[collatzSec+1] = compute(func(cs *task.CPUState) { cs.EDX = 1 })
	code[collatzSec+2] = printfDyn(func(cs *task.CPUState) string { return collatzLine(cs.EDX) })
	code[collatzSec+3] = compute(func(cs *task.CPUState) {
		cs.EDX++
		if cs.EDX < 100 {
			jump(cs, collatzSec+2)
		}
	})
	code[collatzSec+4] = printf("### Collatz Finished ###\n")
	code[collatzSec+5] = sys(task.SysExit)

	// Long-running section.
	code[longSec] = printf("### Long Running Program Started ###\n")
	code[longSec+1] = compute(func(cs *task.CPUState) { cs.ESI = longRun(cs.EDX) })
	code[longSec+2] = printfDyn(func(cs *task.CPUState) string {
		return fmt.Sprintf("Result: %#x\n", cs.ESI)
	})
	code[longSec+3] = printf("### Long Running Program Finished ###\n")
	code[longSec+4] = sys(task.SysExit)

	return code
}
