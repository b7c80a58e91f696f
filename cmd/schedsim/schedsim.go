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

// The schedsim command runs the multitasking core against scripted
// user programs, standing in for the timer and syscall interrupt
// plumbing of the real kernel. It ships the two demos the kernel
// boots with: a fork/wait console demo and a six-children
// Collatz/long-running workload.
//
// Usage:
//
//	schedsim [-demo fork|collatz] [-table] [-maxticks n]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"minos.org/pkg/task"
)

var (
	demo     = flag.String("demo", "fork", `demo to run: "fork" or "collatz"`)
	table    = flag.Bool("table", false, "print the process table after every reschedule")
	maxTicks = flag.Int("maxticks", 1_000_000, "tick budget before giving up")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	m := newMachine(os.Stdout)
	if *table {
		m.trace = os.Stderr
	}

	var prog []instr
	switch *demo {
	case "fork":
		prog = forkWaitProgram()
	case "collatz":
		prog = sixForksProgram()
	default:
		log.Fatalf("schedsim: unknown demo %q", *demo)
	}
	if err := m.load(1, prog); err != nil {
		log.Fatalf("schedsim: %v", err)
	}

	ticks, err := m.run(*maxTicks)
	if err != nil {
		log.Fatalf("schedsim: %v", err)
	}

	fmt.Printf("\nno runnable tasks left after %d ticks\n", ticks)
	for _, ti := range m.mgr.Snapshot() {
		if ti.State != task.Finished {
			fmt.Printf("pid %d left %v\n", ti.PID, ti.State)
		}
	}
	m.mgr.WriteTable(os.Stdout)
}
