/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

// Package frames is the call-frame model and stack (spec.md §4.5): one
// Frame per active method activation, category-aware operand-stack and
// local-variable-slot storage, and the LIFO frame stack itself built on
// container/list the way the teacher's interpreter does.
package frames

import (
	"container/list"
	"fmt"

	"javelin/classloader"
	"javelin/types"
)

// Frame is one method activation record.
type Frame struct {
	ClassName  string
	MethodName string
	Descriptor string
	Code       []byte
	CP         *classloader.ConstantPool
	Exceptions []classloader.ExceptionTableEntry

	PC         int
	OpStart    int // pc of the opcode currently being executed, for exception-table matching
	OperandTOS int // index of the top of OperandStack, -1 when empty

	OperandStack []types.Value
	Locals       []types.Value

	// Native is set when this frame represents a call into a
	// host-implemented method rather than interpreted bytecode; the
	// interpreter's step loop skips opcode dispatch for these.
	Native bool
}

// NewFrame allocates a frame with stackSize operand-stack slots and
// localCount local-variable slots, matching the teacher's
// CreateFrame(maxStack) convention (locals are sized separately here
// since callers know both numbers up front from the Code attribute).
func NewFrame(stackSize, localCount int) *Frame {
	return &Frame{
		OperandStack: make([]types.Value, stackSize),
		OperandTOS:   -1,
		Locals:       make([]types.Value, localCount),
	}
}

// Push places v on the operand stack, per spec.md §4.5's category-aware
// push/pop contract (category 2 values occupy one slot here; the category
// is carried on the Value itself and only matters for local-variable-slot
// doubling, not stack depth, matching the interpreter's actual need).
func (f *Frame) Push(v types.Value) error {
	f.OperandTOS++
	if f.OperandTOS >= len(f.OperandStack) {
		return fmt.Errorf("StackOverflowError: operand stack exhausted in %s.%s%s", f.ClassName, f.MethodName, f.Descriptor)
	}
	f.OperandStack[f.OperandTOS] = v
	return nil
}

// Pop removes and returns the top operand-stack value.
func (f *Frame) Pop() (types.Value, error) {
	if f.OperandTOS < 0 {
		return types.Value{}, fmt.Errorf("operand stack underflow in %s.%s%s", f.ClassName, f.MethodName, f.Descriptor)
	}
	v := f.OperandStack[f.OperandTOS]
	f.OperandTOS--
	return v, nil
}

// Peek returns the top operand-stack value without removing it.
func (f *Frame) Peek() (types.Value, error) {
	if f.OperandTOS < 0 {
		return types.Value{}, fmt.Errorf("operand stack underflow in %s.%s%s", f.ClassName, f.MethodName, f.Descriptor)
	}
	return f.OperandStack[f.OperandTOS], nil
}

// GetLocal reads local-variable slot index.
func (f *Frame) GetLocal(index int) (types.Value, error) {
	if index < 0 || index >= len(f.Locals) {
		return types.Value{}, fmt.Errorf("local variable index %d out of range (have %d)", index, len(f.Locals))
	}
	return f.Locals[index], nil
}

// SetLocal writes v to local-variable slot index. Category-2 values
// (long/double) also blank the following slot, matching the JVM's
// two-slot occupancy rule.
func (f *Frame) SetLocal(index int, v types.Value) error {
	if index < 0 || index >= len(f.Locals) {
		return fmt.Errorf("local variable index %d out of range (have %d)", index, len(f.Locals))
	}
	f.Locals[index] = v
	if v.Category() == 2 && index+1 < len(f.Locals) {
		f.Locals[index+1] = types.None()
	}
	return nil
}

// Stack is the engine's call-frame stack, a LIFO built on container/list
// the way the teacher's frame stack is, per frame (one per live thread in
// a fuller implementation; this engine runs a single cooperative thread,
// spec.md §5).
type Stack struct {
	list *list.List
}

func NewStack() *Stack {
	return &Stack{list: list.New()}
}

// PushFrame mirrors the teacher's frames.PushFrame(fs, f) entry point.
func (s *Stack) PushFrame(f *Frame) error {
	s.list.PushFront(f)
	return nil
}

// PopFrame removes and discards the top frame.
func (s *Stack) PopFrame() error {
	e := s.list.Front()
	if e == nil {
		return fmt.Errorf("PopFrame: frame stack is empty")
	}
	s.list.Remove(e)
	return nil
}

// Top returns the currently executing frame.
func (s *Stack) Top() (*Frame, error) {
	e := s.list.Front()
	if e == nil {
		return nil, fmt.Errorf("frame stack is empty")
	}
	return e.Value.(*Frame), nil
}

func (s *Stack) Len() int { return s.list.Len() }

// Frames returns every live frame, innermost first, for stack-trace
// construction (Throwable.printStackTrace-style natives).
func (s *Stack) Frames() []*Frame {
	out := make([]*Frame, 0, s.list.Len())
	for e := s.list.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*Frame))
	}
	return out
}
