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

import "encoding/binary"

// CPUState is the register frame the timer-interrupt stub pushes on a
// task's kernel stack before entering the kernel, in push order. Its
// byte layout is ABI with the stub: thirteen little-endian 32-bit
// cells, no padding. It always lives inside the owning task's stack
// and is read and written there through Task.Context and
// Task.setContext rather than aliased as a raw pointer.
type CPUState struct {
	EAX uint32 // a register: syscall opcode on entry
	EBX uint32 // b register: first syscall argument
	ECX uint32 // c register: syscall result
	EDX uint32 // d register

	ESI uint32
	EDI uint32
	EBP uint32

	Error uint32

	EIP    uint32 // instruction pointer
	CS     uint32 // code segment selector
	EFLAGS uint32
	ESP    uint32 // stack pointer
	SS     uint32 // stack segment selector
}

// CPUStateSize is the encoded size of a CPUState in bytes.
const CPUStateSize = 13 * 4

// decodeCPUState reads a frame from the first CPUStateSize bytes of b.
func decodeCPUState(b []byte) CPUState {
	_ = b[CPUStateSize-1]
	var cs CPUState
	le := binary.LittleEndian
	cs.EAX = le.Uint32(b[0:])
	cs.EBX = le.Uint32(b[4:])
	cs.ECX = le.Uint32(b[8:])
	cs.EDX = le.Uint32(b[12:])
	cs.ESI = le.Uint32(b[16:])
	cs.EDI = le.Uint32(b[20:])
	cs.EBP = le.Uint32(b[24:])
	cs.Error = le.Uint32(b[28:])
	cs.EIP = le.Uint32(b[32:])
	cs.CS = le.Uint32(b[36:])
	cs.EFLAGS = le.Uint32(b[40:])
	cs.ESP = le.Uint32(b[44:])
	cs.SS = le.Uint32(b[48:])
	return cs
}

// encode writes the frame into the first CPUStateSize bytes of b.
func (cs *CPUState) encode(b []byte) {
	_ = b[CPUStateSize-1]
	le := binary.LittleEndian
	le.PutUint32(b[0:], cs.EAX)
	le.PutUint32(b[4:], cs.EBX)
	le.PutUint32(b[8:], cs.ECX)
	le.PutUint32(b[12:], cs.EDX)
	le.PutUint32(b[16:], cs.ESI)
	le.PutUint32(b[20:], cs.EDI)
	le.PutUint32(b[24:], cs.EBP)
	le.PutUint32(b[28:], cs.Error)
	le.PutUint32(b[32:], cs.EIP)
	le.PutUint32(b[36:], cs.CS)
	le.PutUint32(b[40:], cs.EFLAGS)
	le.PutUint32(b[44:], cs.ESP)
	le.PutUint32(b[48:], cs.SS)
}
