/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"javelin/frames"
	"javelin/internalerror"
	"javelin/types"
)

// stackOp implements the pop/dup/swap family (spec.md §4.6 "Stack
// manipulation"). The category-2 forms (pop2, dup2*) operate on however
// many physical stack slots the top value(s) occupy, but since Push/Pop
// here always move exactly one logical Value per call regardless of
// category (frames.Frame's chosen representation, spec Design Notes
// §9), "form 2" (a single category-2 value) and "form 1" (two
// category-1 values) both reduce to the same one-or-two-value shuffle.
func (vm *VM) stackOp(f *frames.Frame, op byte) error {
	switch op {
	case opPop:
		_, err := f.Pop()
		return wrapErr(err)
	case opPop2:
		v1, err := f.Pop()
		if err != nil {
			return wrapErr(err)
		}
		if v1.Category() == 2 {
			return nil
		}
		_, err = f.Pop()
		return wrapErr(err)

	case opDup:
		v, err := f.Pop()
		if err != nil {
			return wrapErr(err)
		}
		if err := f.Push(v); err != nil {
			return wrapErr(err)
		}
		return wrapErr(f.Push(v))

	case opDupX1:
		v1, err := f.Pop()
		if err != nil {
			return wrapErr(err)
		}
		v2, err := f.Pop()
		if err != nil {
			return wrapErr(err)
		}
		return pushAll(f, v1, v2, v1)

	case opDupX2:
		v1, err := f.Pop()
		if err != nil {
			return wrapErr(err)
		}
		v2, err := f.Pop()
		if err != nil {
			return wrapErr(err)
		}
		if v2.Category() == 2 {
			return pushAll(f, v1, v2, v1)
		}
		v3, err := f.Pop()
		if err != nil {
			return wrapErr(err)
		}
		return pushAll(f, v1, v3, v2, v1)

	case opDup2:
		v1, err := f.Pop()
		if err != nil {
			return wrapErr(err)
		}
		if v1.Category() == 2 {
			return pushAll(f, v1, v1)
		}
		v2, err := f.Pop()
		if err != nil {
			return wrapErr(err)
		}
		return pushAll(f, v2, v1, v2, v1)

	case opDup2X1:
		v1, err := f.Pop()
		if err != nil {
			return wrapErr(err)
		}
		if v1.Category() == 2 {
			v2, err := f.Pop()
			if err != nil {
				return wrapErr(err)
			}
			return pushAll(f, v1, v2, v1)
		}
		v2, err := f.Pop()
		if err != nil {
			return wrapErr(err)
		}
		v3, err := f.Pop()
		if err != nil {
			return wrapErr(err)
		}
		return pushAll(f, v2, v1, v3, v2, v1)

	case opDup2X2:
		v1, err := f.Pop()
		if err != nil {
			return wrapErr(err)
		}
		v2, err := f.Pop()
		if err != nil {
			return wrapErr(err)
		}
		if v1.Category() == 2 && v2.Category() == 2 {
			return pushAll(f, v1, v2, v1)
		}
		if v1.Category() == 2 {
			v3, err := f.Pop()
			if err != nil {
				return wrapErr(err)
			}
			return pushAll(f, v1, v3, v2, v1)
		}
		v3, err := f.Pop()
		if err != nil {
			return wrapErr(err)
		}
		if v3.Category() == 2 {
			return pushAll(f, v2, v1, v3, v2, v1)
		}
		v4, err := f.Pop()
		if err != nil {
			return wrapErr(err)
		}
		return pushAll(f, v2, v1, v4, v3, v2, v1)

	case opSwap:
		v1, err := f.Pop()
		if err != nil {
			return wrapErr(err)
		}
		v2, err := f.Pop()
		if err != nil {
			return wrapErr(err)
		}
		return pushAll(f, v1, v2)
	}
	return internalerror.NewGeneral("stackOp: unreachable")
}

func pushAll(f *frames.Frame, values ...types.Value) error {
	for _, v := range values {
		if err := f.Push(v); err != nil {
			return wrapErr(err)
		}
	}
	return nil
}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	return internalerror.NewGeneral(err.Error())
}
