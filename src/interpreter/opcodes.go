/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"fmt"

	"javelin/classloader"
	"javelin/excNames"
	"javelin/frames"
	"javelin/internalerror"
	"javelin/types"
)

// Opcode values are the standard JVM instruction set (JVMS §6.5); only
// the byte values spec.md §4.6 actually names are given symbols here,
// but the switch in dispatch recognizes a wider, realistic subset so a
// real class file's bytecode doesn't immediately dead-end on an
// unimplemented instruction outside the opcode families the spec calls
// out by name.
const (
	opNop         = 0x00
	opAconstNull  = 0x01
	opIconstM1    = 0x02
	opIconst0     = 0x03
	opIconst5     = 0x08
	opLconst0     = 0x09
	opLconst1     = 0x0a
	opFconst0     = 0x0b
	opFconst2     = 0x0d
	opDconst0     = 0x0e
	opDconst1     = 0x0f
	opBipush      = 0x10
	opSipush      = 0x11
	opLdc         = 0x12
	opLdcW        = 0x13
	opLdc2W       = 0x14
	opIload       = 0x15
	opLload       = 0x16
	opFload       = 0x17
	opDload       = 0x18
	opAload       = 0x19
	opIload0      = 0x1a
	opLload0      = 0x1e
	opFload0      = 0x22
	opDload0      = 0x26
	opAload0      = 0x2a
	opIaload      = 0x2e
	opLaload      = 0x2f
	opFaload      = 0x30
	opDaload      = 0x31
	opAaload      = 0x32
	opBaload      = 0x33
	opCaload      = 0x34
	opSaload      = 0x35
	opIstore      = 0x36
	opLstore      = 0x37
	opFstore      = 0x38
	opDstore      = 0x39
	opAstore      = 0x3a
	opIstore0     = 0x3b
	opLstore0     = 0x3f
	opFstore0     = 0x43
	opDstore0     = 0x47
	opAstore0     = 0x4b
	opIastore     = 0x4f
	opLastore     = 0x50
	opFastore     = 0x51
	opDastore     = 0x52
	opAastore     = 0x53
	opBastore     = 0x54
	opCastore     = 0x55
	opSastore     = 0x56
	opPop         = 0x57
	opPop2        = 0x58
	opDup         = 0x59
	opDupX1       = 0x5a
	opDupX2       = 0x5b
	opDup2        = 0x5c
	opDup2X1      = 0x5d
	opDup2X2      = 0x5e
	opSwap        = 0x5f
	opIadd        = 0x60
	opDrem        = 0x73
	opIneg        = 0x74
	opLneg        = 0x75
	opFneg        = 0x76
	opDneg        = 0x77
	opIshl        = 0x78
	opLxor        = 0x83
	opIinc        = 0x84
	opI2l         = 0x85
	opD2f         = 0x90
	opI2b         = 0x91
	opI2s         = 0x93
	opLcmp        = 0x94
	opDcmpg       = 0x98
	opIfeq        = 0x99
	opIfLe        = 0x9e
	opIfIcmpeq    = 0x9f
	opIfIcmple    = 0xa4
	opIfAcmpeq    = 0xa5
	opIfAcmpne    = 0xa6
	opGoto        = 0xa7
	opTableswitch = 0xaa
	opLookupswitch = 0xab
	opIreturn     = 0xac
	opLreturn     = 0xad
	opFreturn     = 0xae
	opDreturn     = 0xaf
	opAreturn     = 0xb0
	opReturn      = 0xb1
	opGetstatic   = 0xb2
	opPutstatic   = 0xb3
	opGetfield    = 0xb4
	opPutfield    = 0xb5
	opInvokevirtual   = 0xb6
	opInvokespecial   = 0xb7
	opInvokestatic    = 0xb8
	opInvokeinterface = 0xb9
	opInvokedynamic   = 0xba
	opNew         = 0xbb
	opNewarray    = 0xbc
	opAnewarray   = 0xbd
	opArraylength = 0xbe
	opAthrow      = 0xbf
	opCheckcast   = 0xc0
	opInstanceof  = 0xc1
	opMonitorenter = 0xc2
	opMonitorexit  = 0xc3
	opMultianewarray = 0xc5
	opIfnull      = 0xc6
	opIfnonnull   = 0xc7
	opGotoW       = 0xc8
)

// step executes exactly one bytecode instruction in the current
// (topmost) frame, per spec.md §4.5.
func (vm *VM) step() error {
	f, err := vm.F.Top()
	if err != nil {
		return internalerror.NewFrameNotFound("step: empty frame stack")
	}
	if f.PC >= len(f.Code) {
		return internalerror.NewCodeNotFound(fmt.Sprintf("%s.%s%s: pc %d beyond code length %d", f.ClassName, f.MethodName, f.Descriptor, f.PC, len(f.Code)))
	}
	f.OpStart = f.PC
	op := f.Code[f.PC]
	f.PC++
	vm.traceInst(f, op)
	return vm.dispatch(f, op)
}

func (vm *VM) u8(f *frames.Frame) byte {
	b := f.Code[f.PC]
	f.PC++
	return b
}

func (vm *VM) u16(f *frames.Frame) int {
	hi, lo := vm.u8(f), vm.u8(f)
	return int(hi)<<8 | int(lo)
}

func (vm *VM) s16(f *frames.Frame) int {
	return int(int16(vm.u16(f)))
}

func (vm *VM) s32(f *frames.Frame) int {
	b0, b1, b2, b3 := vm.u8(f), vm.u8(f), vm.u8(f), vm.u8(f)
	return int(int32(uint32(b0)<<24 | uint32(b1)<<16 | uint32(b2)<<8 | uint32(b3)))
}

func (vm *VM) dispatch(f *frames.Frame, op byte) error {
	switch op {
	case opNop:
		return nil

	case opAconstNull:
		return f.Push(types.Null())
	case opIconstM1, opIconstM1 + 1, opIconstM1 + 2, opIconstM1 + 3, opIconstM1 + 4, opIconstM1 + 5, opIconstM1 + 6:
		return f.Push(types.Int(int32(op) - int32(opIconst0)))
	case opLconst0, opLconst1:
		return f.Push(types.Long(int64(op) - int64(opLconst0)))
	case opFconst0, opFconst0 + 1, opFconst2:
		return f.Push(types.Float(float32(op) - float32(opFconst0)))
	case opDconst0, opDconst1:
		return f.Push(types.Double(float64(op) - float64(opDconst0)))
	case opBipush:
		return f.Push(types.Int(int32(int8(vm.u8(f)))))
	case opSipush:
		return f.Push(types.Int(int32(vm.s16(f))))
	case opLdc:
		return vm.ldc(f, int(vm.u8(f)))
	case opLdcW, opLdc2W:
		return vm.ldc(f, vm.u16(f))

	case opIload, opFload, opAload:
		return vm.loadLocal(f, int(vm.u8(f)))
	case opLload, opDload:
		return vm.loadLocal(f, int(vm.u8(f)))
	case opIload0, opIload0 + 1, opIload0 + 2, opIload0 + 3:
		return vm.loadLocal(f, int(op-opIload0))
	case opLload0, opLload0 + 1, opLload0 + 2, opLload0 + 3:
		return vm.loadLocal(f, int(op-opLload0))
	case opFload0, opFload0 + 1, opFload0 + 2, opFload0 + 3:
		return vm.loadLocal(f, int(op-opFload0))
	case opDload0, opDload0 + 1, opDload0 + 2, opDload0 + 3:
		return vm.loadLocal(f, int(op-opDload0))
	case opAload0, opAload0 + 1, opAload0 + 2, opAload0 + 3:
		return vm.loadLocal(f, int(op-opAload0))

	case opIstore, opFstore, opAstore, opLstore, opDstore:
		return vm.storeLocal(f, int(vm.u8(f)))
	case opIstore0, opIstore0 + 1, opIstore0 + 2, opIstore0 + 3:
		return vm.storeLocal(f, int(op-opIstore0))
	case opLstore0, opLstore0 + 1, opLstore0 + 2, opLstore0 + 3:
		return vm.storeLocal(f, int(op-opLstore0))
	case opFstore0, opFstore0 + 1, opFstore0 + 2, opFstore0 + 3:
		return vm.storeLocal(f, int(op-opFstore0))
	case opDstore0, opDstore0 + 1, opDstore0 + 2, opDstore0 + 3:
		return vm.storeLocal(f, int(op-opDstore0))
	case opAstore0, opAstore0 + 1, opAstore0 + 2, opAstore0 + 3:
		return vm.storeLocal(f, int(op-opAstore0))

	case opIaload, opLaload, opFaload, opDaload, opAaload, opBaload, opCaload, opSaload:
		return vm.arrayLoad(f, op)
	case opIastore, opLastore, opFastore, opDastore, opAastore, opBastore, opCastore, opSastore:
		return vm.arrayStore(f, op)

	case opPop, opPop2, opDup, opDupX1, opDupX2, opDup2, opDup2X1, opDup2X2, opSwap:
		return vm.stackOp(f, op)

	case opIadd, opIadd + 1, opIadd + 2, opIadd + 3, // iadd ladd fadd dadd
		opIadd + 4, opIadd + 5, opIadd + 6, opIadd + 7, // isub lsub fsub dsub
		opIadd + 8, opIadd + 9, opIadd + 10, opIadd + 11, // imul lmul fmul dmul
		opIadd + 12, opIadd + 13, opIadd + 14, opIadd + 15, // idiv ldiv fdiv ddiv
		opIadd + 16, opIadd + 17, opIadd + 18, opDrem: // irem lrem frem drem
		return vm.binaryArith(f, op)
	case opIneg, opLneg, opFneg, opDneg:
		return vm.unaryNeg(f, op)
	case opIshl, opIshl + 1, opIshl + 2, opIshl + 3, opIshl + 4, opIshl + 5, // ishl lshl ishr lshr iushr lushr
		opIshl + 6, opIshl + 7, opIshl + 8, opIshl + 9, opLxor, opLxor - 1: // iand land ior lor ixor lxor
		return vm.bitwiseOp(f, op)
	case opIinc:
		return vm.iinc(f)

	case opI2l, opI2l + 1, opI2l + 2, // i2l i2f i2d
		opI2l + 3, opI2l + 4, opI2l + 5, // l2i l2f l2d
		opI2l + 6, opI2l + 7, opI2l + 8, // f2i f2l f2d
		opI2l + 9, opI2l + 10, opD2f, // d2i d2l d2f
		opI2b, opI2b + 1, opI2s: // i2b i2c i2s
		return vm.convert(f, op)

	case opLcmp, opLcmp + 1, opLcmp + 2, opLcmp + 3, opDcmpg: // lcmp fcmpl fcmpg dcmpl dcmpg
		return vm.compareOp(f, op)

	case opIfeq, opIfeq + 1, opIfeq + 2, opIfeq + 3, opIfeq + 4, opIfLe:
		return vm.ifCond(f, op)
	case opIfIcmpeq, opIfIcmpeq + 1, opIfIcmpeq + 2, opIfIcmpeq + 3, opIfIcmpeq + 4, opIfIcmple:
		return vm.ifIcmp(f, op)
	case opIfAcmpeq, opIfAcmpne:
		return vm.ifAcmp(f, op)
	case opIfnull, opIfnonnull:
		return vm.ifNullCheck(f, op)
	case opGoto:
		f.PC = f.OpStart + vm.s16(f)
		return nil
	case opGotoW:
		f.PC = f.OpStart + vm.s32(f)
		return nil
	case opTableswitch:
		return vm.tableswitch(f)
	case opLookupswitch:
		return vm.lookupswitch(f)

	case opIreturn, opLreturn, opFreturn, opDreturn, opAreturn, opReturn:
		return vm.doReturn(f, op)
	case opAthrow:
		return vm.athrow(f)

	case opGetstatic:
		return vm.getstatic(f)
	case opPutstatic:
		return vm.putstatic(f)
	case opGetfield:
		return vm.getfield(f)
	case opPutfield:
		return vm.putfield(f)

	case opInvokevirtual:
		return vm.invokeVirtual(f)
	case opInvokespecial:
		return vm.invokeSpecial(f)
	case opInvokestatic:
		return vm.invokeStatic(f)
	case opInvokeinterface:
		return vm.invokeInterface(f)
	case opInvokedynamic:
		return vm.invokeDynamic(f)

	case opNew:
		return vm.opNewObj(f)
	case opNewarray:
		return vm.opNewarray(f)
	case opAnewarray:
		return vm.opAnewarray(f)
	case opMultianewarray:
		return vm.opMultianewarray(f)
	case opArraylength:
		return vm.opArraylength(f)

	case opCheckcast:
		return vm.checkcast(f)
	case opInstanceof:
		return vm.instanceOf(f)

	case opMonitorenter:
		return vm.monitorenter(f)
	case opMonitorexit:
		return vm.monitorexit(f)

	default:
		return internalerror.NewNotImplemented(fmt.Sprintf("opcode 0x%02x at %s.%s%s pc %d", op, f.ClassName, f.MethodName, f.Descriptor, f.OpStart))
	}
}

func (vm *VM) loadLocal(f *frames.Frame, index int) error {
	v, err := f.GetLocal(index)
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	return f.Push(v)
}

func (vm *VM) storeLocal(f *frames.Frame, index int) error {
	v, err := f.Pop()
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	if err := f.SetLocal(index, v); err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	return nil
}

// ldc reads the constant at cp index i, interning strings and
// materializing class mirrors as spec.md §4.6 "Constants" requires.
func (vm *VM) ldc(f *frames.Frame, i int) error {
	entry, err := f.CP.ResolveIndex(i)
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	switch entry.Tag {
	case classloader.CPInteger:
		return f.Push(types.Int(entry.IntVal))
	case classloader.CPFloat:
		return f.Push(types.Float(entry.FloatVal))
	case classloader.CPLong:
		return f.Push(types.Long(entry.LongVal))
	case classloader.CPDouble:
		return f.Push(types.Double(entry.DoubleVal))
	case classloader.CPString:
		s, err := f.CP.ResolveString(i)
		if err != nil {
			return internalerror.NewGeneral(err.Error())
		}
		ref, err := vm.H.AllocString(s)
		if err != nil {
			return internalerror.NewGeneral(err.Error())
		}
		return f.Push(types.ObjectRef(ref))
	case classloader.CPClass:
		cn, err := f.CP.ResolveClassName(i)
		if err != nil {
			return internalerror.NewGeneral(err.Error())
		}
		ref, err := vm.H.AllocClassObj(cn)
		if err != nil {
			return internalerror.NewGeneral(err.Error())
		}
		return f.Push(types.ObjectRef(ref))
	default:
		return internalerror.NewGeneral(fmt.Sprintf("ldc: unsupported constant tag %d at index %d", entry.Tag, i))
	}
}

func (vm *VM) doReturn(f *frames.Frame, op byte) error {
	var ret types.Value
	if op != opReturn {
		v, err := f.Pop()
		if err != nil {
			return internalerror.NewGeneral(err.Error())
		}
		ret = v
	}
	if err := vm.F.PopFrame(); err != nil {
		return internalerror.NewFrameNotFound(err.Error())
	}
	if op == opReturn {
		return nil
	}
	caller, err := vm.F.Top()
	if err != nil {
		return internalerror.NewFrameNotFound("return: no invoker frame")
	}
	return caller.Push(ret)
}

func (vm *VM) athrow(f *frames.Frame) error {
	v, err := f.Pop()
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	if v.Tag == types.TagNull {
		return vm.throwNamed(excNames.NullPointerException, "athrow: null")
	}
	return vm.handleThrow(v.Ref)
}

func (vm *VM) monitorenter(f *frames.Frame) error {
	v, err := f.Pop()
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	if v.Tag == types.TagNull {
		return vm.throwNamed(excNames.NullPointerException, "monitorenter: null")
	}
	vm.monitors[v.Ref]++
	return nil
}

func (vm *VM) monitorexit(f *frames.Frame) error {
	v, err := f.Pop()
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	if v.Tag == types.TagNull {
		return vm.throwNamed(excNames.NullPointerException, "monitorexit: null")
	}
	if vm.monitors[v.Ref] > 0 {
		vm.monitors[v.Ref]--
	}
	return nil
}
