// Copyright © 2025 The Lambdust authors

package scheme

import (
	"fmt"
	"io"

	"github.com/akasaka-miraina/lambdust-sub006/parser/token"
)

// CallStack tracks the procedure applications in flight during an
// evaluation.  Physical height counts frames actually on the stack;
// logical height also counts tail calls that reused their caller's frame,
// so traces and overflow checks see the call chain the program wrote.
type CallStack struct {
	Frames            []CallFrame
	MaxHeightLogical  int
	MaxHeightPhysical int
}

// CallFrame is one frame in the CallStack.
type CallFrame struct {
	Source        *token.Location
	FID           string
	Name          string
	HeightLogical int
	Elided        int
}

func (f *CallFrame) String() string {
	if f.Source != nil {
		return fmt.Sprintf("%s: %s", f.Source, f.desc())
	}
	return f.desc()
}

func (f *CallFrame) desc() string {
	name := f.FID
	if f.Name != "" {
		name = f.Name
	}
	if f.Elided > 0 {
		return fmt.Sprintf("%s [%d tail calls elided]", name, f.Elided)
	}
	return name
}

// FunName returns the display name for the frame's procedure.
func (f *CallFrame) FunName() string {
	if f == nil {
		return ""
	}
	if f.Name != "" {
		return f.Name
	}
	return f.FID
}

// Copy returns a snapshot of the stack for attaching to a runtime error.
func (s *CallStack) Copy() *CallStack {
	frames := make([]CallFrame, len(s.Frames))
	copy(frames, s.Frames)
	return &CallStack{
		Frames:            frames,
		MaxHeightLogical:  s.MaxHeightLogical,
		MaxHeightPhysical: s.MaxHeightPhysical,
	}
}

// Len returns the physical stack height.
func (s *CallStack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Frames)
}

// Top returns the frame at the top of the stack or nil if none exists.
func (s *CallStack) Top() *CallFrame {
	if s == nil || len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Push adds a frame for a procedure application.
func (s *CallStack) Push(src *token.Location, fid string, name string) error {
	logical := 0
	if top := s.Top(); top != nil {
		logical = top.HeightLogical + 1
	}
	if err := s.checkPhysical(); err != nil {
		return err
	}
	if err := s.checkLogical(logical); err != nil {
		return err
	}
	s.Frames = append(s.Frames, CallFrame{
		Source:        src,
		FID:           fid,
		Name:          name,
		HeightLogical: logical,
	})
	return nil
}

// PushTail replaces the top frame for a call in tail position.  The
// physical height is unchanged; the logical height still grows and is
// still bounded, so runaway tail recursion with a logical limit set fails
// instead of looping forever.
func (s *CallStack) PushTail(src *token.Location, fid string, name string) error {
	top := s.Top()
	if top == nil {
		return s.Push(src, fid, name)
	}
	logical := top.HeightLogical + 1
	if err := s.checkLogical(logical); err != nil {
		return err
	}
	elided := top.Elided + 1
	*top = CallFrame{
		Source:        src,
		FID:           fid,
		Name:          name,
		HeightLogical: logical,
		Elided:        elided,
	}
	return nil
}

// checkPhysical runs before a push, so the limit check is inclusive and
// errors report the height the push would have reached.
func (s *CallStack) checkPhysical() error {
	if s.MaxHeightPhysical <= 0 {
		return nil
	}
	if s.MaxHeightPhysical <= len(s.Frames) {
		return &PhysicalStackOverflowError{Height: len(s.Frames) + 1}
	}
	return nil
}

func (s *CallStack) checkLogical(height int) error {
	if s.MaxHeightLogical <= 0 {
		return nil
	}
	if s.MaxHeightLogical < height {
		return &LogicalStackOverflowError{Height: height}
	}
	return nil
}

// Pop removes and returns the top frame.  Popping an empty stack is an
// evaluator bug.
func (s *CallStack) Pop() CallFrame {
	if len(s.Frames) < 1 {
		panic("pop called on an empty stack")
	}
	f := s.Frames[len(s.Frames)-1]
	s.Frames[len(s.Frames)-1] = CallFrame{}
	s.Frames = s.Frames[:len(s.Frames)-1]
	return f
}

// WriteTrace prints the stack, most recent call first.
func (s *CallStack) WriteTrace(w io.Writer) (int, error) {
	n, err := fmt.Fprintf(w, "Stack Trace [%d frames -- entrypoint last]:\n", len(s.Frames))
	if err != nil {
		return n, err
	}
	for i := len(s.Frames) - 1; i >= 0; i-- {
		m, err := fmt.Fprintf(w, "  height %d: %s\n", i, s.Frames[i].String())
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// LogicalStackOverflowError reports a call chain deeper than the
// configured logical limit, counting elided tail calls.
type LogicalStackOverflowError struct {
	Height int
}

func (e *LogicalStackOverflowError) Error() string {
	return fmt.Sprintf("logical stack height exceeded maximum: %v", e.Height)
}

// PhysicalStackOverflowError reports more live frames than the configured
// physical limit.
type PhysicalStackOverflowError struct {
	Height int
}

func (e *PhysicalStackOverflowError) Error() string {
	return fmt.Sprintf("physical stack height exceeded maximum: %v", e.Height)
}
