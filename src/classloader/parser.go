/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package classloader

import (
	"fmt"
	"math"

	"javelin/types"
)

// classFormatError wraps a parse failure the way the teacher's cfe()
// helper does, tagging it as the spec's ClassFormat failure mode
// (spec.md §4.1).
func classFormatError(msg string) error {
	return fmt.Errorf("ClassFormat: %s", msg)
}

func unsupportedTagError(tag int) error {
	return fmt.Errorf("UnsupportedTag: unknown constant pool tag %d", tag)
}

func unsupportedAttributeError(name string) error {
	return fmt.Errorf("UnsupportedAttribute: unknown critical attribute %q", name)
}

const classMagic = 0xCAFEBABE

// Parse decodes a class file, presented as a byte slice, into a
// ClassFile. It implements spec.md §4.1 in full: constant pool
// (including the Long/Double two-slot rule), fields, methods,
// bootstrap methods, and this/super class name resolution.
func Parse(raw []byte) (*ClassFile, error) {
	r := types.NewByteReader(raw)

	magic, err := r.U4()
	if err != nil {
		return nil, classFormatError(err.Error())
	}
	if magic != classMagic {
		return nil, classFormatError(fmt.Sprintf("bad magic: %#x", magic))
	}

	minor, err := r.U2()
	if err != nil {
		return nil, classFormatError(err.Error())
	}
	major, err := r.U2()
	if err != nil {
		return nil, classFormatError(err.Error())
	}

	cp, err := parseConstantPool(r)
	if err != nil {
		return nil, err
	}

	accessFlags, err := r.U2()
	if err != nil {
		return nil, classFormatError(err.Error())
	}
	thisIdx, err := r.U2()
	if err != nil {
		return nil, classFormatError(err.Error())
	}
	superIdx, err := r.U2()
	if err != nil {
		return nil, classFormatError(err.Error())
	}

	thisName, err := cp.ResolveClassName(int(thisIdx))
	if err != nil {
		return nil, classFormatError("bad this_class: " + err.Error())
	}
	var superName string
	if superIdx != 0 {
		superName, err = cp.ResolveClassName(int(superIdx))
		if err != nil {
			return nil, classFormatError("bad super_class: " + err.Error())
		}
	}

	ifaceCount, err := r.U2()
	if err != nil {
		return nil, classFormatError(err.Error())
	}
	interfaces := make([]string, 0, ifaceCount)
	for i := 0; i < int(ifaceCount); i++ {
		idx, err := r.U2()
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		name, err := cp.ResolveClassName(int(idx))
		if err != nil {
			return nil, classFormatError("bad interface entry: " + err.Error())
		}
		interfaces = append(interfaces, name)
	}

	fields, err := parseFields(r, cp)
	if err != nil {
		return nil, err
	}

	methods, err := parseMethods(r, cp)
	if err != nil {
		return nil, err
	}

	classAttrCount, err := r.U2()
	if err != nil {
		return nil, classFormatError(err.Error())
	}
	classAttrs, bootstraps, err := parseAttributeList(r, cp, int(classAttrCount))
	if err != nil {
		return nil, err
	}

	cf := &ClassFile{
		MajorVersion:   int(major),
		MinorVersion:   int(minor),
		AccessFlags:    int(accessFlags),
		ThisClassName:  thisName,
		SuperClassName: superName,
		Interfaces:     interfaces,
		Fields:         fields,
		Methods:        methods,
		CP:             cp,
		Bootstraps:     bootstraps,
		Attributes:     classAttrs,
		StaticFields:   make(map[string]*StaticSlot),
	}

	return cf, nil
}

func parseConstantPool(r *types.ByteReader) (*ConstantPool, error) {
	countU, err := r.U2()
	if err != nil {
		return nil, classFormatError(err.Error())
	}
	count := int(countU)
	cp := NewConstantPool(count)

	for i := 1; i < count; i++ {
		tag, err := r.U1()
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		entry, extraSlot, err := parseCPEntry(r, CPTag(tag))
		if err != nil {
			return nil, err
		}
		cp.Entries[i] = entry
		if extraSlot {
			i++ // Long/Double consume two index slots (spec.md §3)
			if i < count {
				cp.Entries[i] = CPEntry{Tag: cpLongDoubleSentinel}
			}
		}
	}
	return cp, nil
}

func parseCPEntry(r *types.ByteReader, tag CPTag) (CPEntry, bool, error) {
	switch tag {
	case CPUtf8:
		n, err := r.U2()
		if err != nil {
			return CPEntry{}, false, classFormatError(err.Error())
		}
		b, err := r.Bytes(int(n))
		if err != nil {
			return CPEntry{}, false, classFormatError(err.Error())
		}
		return CPEntry{Tag: CPUtf8, Utf8: string(b)}, false, nil
	case CPInteger:
		v, err := r.U4()
		return CPEntry{Tag: CPInteger, IntVal: int32(v)}, false, err
	case CPFloat:
		v, err := r.U4()
		return CPEntry{Tag: CPFloat, FloatVal: float32FromBits(v)}, false, err
	case CPLong:
		v, err := r.U8()
		return CPEntry{Tag: CPLong, LongVal: int64(v)}, true, err
	case CPDouble:
		v, err := r.U8()
		return CPEntry{Tag: CPDouble, DoubleVal: float64FromBits(v)}, true, err
	case CPClass:
		idx, err := r.U2()
		return CPEntry{Tag: CPClass, NameIndex: idx}, false, err
	case CPString:
		idx, err := r.U2()
		return CPEntry{Tag: CPString, NameIndex: idx}, false, err
	case CPFieldRef, CPMethodRef, CPInterfaceMethodRef:
		ci, err := r.U2()
		if err != nil {
			return CPEntry{}, false, err
		}
		ni, err := r.U2()
		return CPEntry{Tag: tag, ClassIndex: ci, NameAndTypeIndex: ni}, false, err
	case CPNameAndType:
		ni, err := r.U2()
		if err != nil {
			return CPEntry{}, false, err
		}
		di, err := r.U2()
		return CPEntry{Tag: CPNameAndType, NatNameIndex: ni, NatDescIndex: di}, false, err
	case CPMethodHandle:
		kind, err := r.U1()
		if err != nil {
			return CPEntry{}, false, err
		}
		idx, err := r.U2()
		return CPEntry{Tag: CPMethodHandle, RefKind: kind, RefIndex: idx}, false, err
	case CPMethodType:
		idx, err := r.U2()
		return CPEntry{Tag: CPMethodType, NameIndex: idx}, false, err
	case CPDynamic, CPInvokeDynamic:
		bi, err := r.U2()
		if err != nil {
			return CPEntry{}, false, err
		}
		nati, err := r.U2()
		return CPEntry{Tag: tag, BootstrapMethodIndex: bi, DynNameAndTypeIndex: nati}, false, err
	case CPModule, CPPackage:
		idx, err := r.U2()
		return CPEntry{Tag: tag, NameIndex: idx}, false, err
	default:
		return CPEntry{}, false, unsupportedTagError(int(tag))
	}
}

func float32FromBits(bits uint32) float32 {
	return math.Float32frombits(bits)
}

func float64FromBits(bits uint64) float64 {
	return math.Float64frombits(bits)
}

func parseFields(r *types.ByteReader, cp *ConstantPool) ([]*Field, error) {
	count, err := r.U2()
	if err != nil {
		return nil, classFormatError(err.Error())
	}
	fields := make([]*Field, 0, count)
	for i := 0; i < int(count); i++ {
		flags, err := r.U2()
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		nameIdx, err := r.U2()
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		descIdx, err := r.U2()
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		name, err := cp.ResolveName(int(nameIdx))
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		desc, err := cp.ResolveName(int(descIdx))
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		attrCount, err := r.U2()
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		attrs, _, err := parseAttributeList(r, cp, int(attrCount))
		if err != nil {
			return nil, err
		}
		fields = append(fields, &Field{
			AccessFlags: int(flags),
			Name:        name,
			Descriptor:  desc,
			Attributes:  attrs,
		})
	}
	return fields, nil
}

func parseMethods(r *types.ByteReader, cp *ConstantPool) ([]*Method, error) {
	count, err := r.U2()
	if err != nil {
		return nil, classFormatError(err.Error())
	}
	methods := make([]*Method, 0, count)
	for i := 0; i < int(count); i++ {
		flags, err := r.U2()
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		nameIdx, err := r.U2()
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		descIdx, err := r.U2()
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		name, err := cp.ResolveName(int(nameIdx))
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		desc, err := cp.ResolveName(int(descIdx))
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		attrCount, err := r.U2()
		if err != nil {
			return nil, classFormatError(err.Error())
		}

		m := &Method{AccessFlags: int(flags), Name: name, Descriptor: desc}
		for j := 0; j < int(attrCount); j++ {
			attrNameIdx, err := r.U2()
			if err != nil {
				return nil, classFormatError(err.Error())
			}
			attrLen, err := r.U4()
			if err != nil {
				return nil, classFormatError(err.Error())
			}
			attrName, err := cp.ResolveName(int(attrNameIdx))
			if err != nil {
				return nil, classFormatError(err.Error())
			}
			if attrName == "Code" {
				code, err := parseCodeAttribute(r, cp, int(attrLen))
				if err != nil {
					return nil, err
				}
				m.Code = code
				continue
			}
			if err := applyNamedAttribute(r, cp, attrName, int(attrLen), &m.Attributes); err != nil {
				return nil, err
			}
		}
		methods = append(methods, m)
	}
	return methods, nil
}

func parseCodeAttribute(r *types.ByteReader, cp *ConstantPool, attrLen int) (*CodeAttribute, error) {
	maxStack, err := r.U2()
	if err != nil {
		return nil, classFormatError(err.Error())
	}
	maxLocals, err := r.U2()
	if err != nil {
		return nil, classFormatError(err.Error())
	}
	codeLen, err := r.U4()
	if err != nil {
		return nil, classFormatError(err.Error())
	}
	code, err := r.Bytes(int(codeLen))
	if err != nil {
		return nil, classFormatError(err.Error())
	}

	excCount, err := r.U2()
	if err != nil {
		return nil, classFormatError(err.Error())
	}
	exceptions := make([]ExceptionTableEntry, 0, excCount)
	for i := 0; i < int(excCount); i++ {
		startPc, err := r.U2()
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		endPc, err := r.U2()
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		handlerPc, err := r.U2()
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		catchTypeIdx, err := r.U2()
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		var catchType string
		if catchTypeIdx != 0 {
			catchType, err = cp.ResolveClassName(int(catchTypeIdx))
			if err != nil {
				return nil, classFormatError(err.Error())
			}
		}
		if int(startPc) > int(endPc) || int(endPc) > int(codeLen) {
			return nil, classFormatError("exception table entry out of bounds")
		}
		exceptions = append(exceptions, ExceptionTableEntry{
			StartPc: int(startPc), EndPc: int(endPc),
			HandlerPc: int(handlerPc), CatchType: catchType,
		})
	}

	codeAttrCount, err := r.U2()
	if err != nil {
		return nil, classFormatError(err.Error())
	}
	ca := &CodeAttribute{
		MaxStack: int(maxStack), MaxLocals: int(maxLocals),
		Code: code, Exceptions: exceptions,
	}
	var dummy Attributes
	for i := 0; i < int(codeAttrCount); i++ {
		nameIdx, err := r.U2()
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		length, err := r.U4()
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		name, err := cp.ResolveName(int(nameIdx))
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		switch name {
		case "LineNumberTable":
			n, err := r.U2()
			if err != nil {
				return nil, classFormatError(err.Error())
			}
			for j := 0; j < int(n); j++ {
				pc, err := r.U2()
				if err != nil {
					return nil, classFormatError(err.Error())
				}
				line, err := r.U2()
				if err != nil {
					return nil, classFormatError(err.Error())
				}
				ca.LineNumbers = append(ca.LineNumbers, LineNumberEntry{StartPc: int(pc), LineNumber: int(line)})
			}
		case "LocalVariableTable":
			n, err := r.U2()
			if err != nil {
				return nil, classFormatError(err.Error())
			}
			for j := 0; j < int(n); j++ {
				startPc, _ := r.U2()
				length, _ := r.U2()
				nameIdx, _ := r.U2()
				descIdx, _ := r.U2()
				index, err := r.U2()
				if err != nil {
					return nil, classFormatError(err.Error())
				}
				nm, _ := cp.ResolveName(int(nameIdx))
				ds, _ := cp.ResolveName(int(descIdx))
				ca.LocalVars = append(ca.LocalVars, LocalVariableEntry{
					StartPc: int(startPc), Length: int(length), Name: nm, Desc: ds, Index: int(index),
				})
			}
		case "StackMapTable":
			b, err := r.Bytes(int(length))
			if err != nil {
				return nil, classFormatError(err.Error())
			}
			ca.StackMapTableRaw = b
		default:
			if err := applyNamedAttribute(r, cp, name, int(length), &dummy); err != nil {
				return nil, err
			}
		}
	}
	return ca, nil
}

// parseAttributeList reads a count-prefixed attribute list, returning the
// assembled Attributes (class- or field-level) plus, for class files, the
// BootstrapMethods table it may have carried.
func parseAttributeList(r *types.ByteReader, cp *ConstantPool, count int) (Attributes, []BootstrapMethod, error) {
	var attrs Attributes
	var bootstraps []BootstrapMethod
	for i := 0; i < count; i++ {
		nameIdx, err := r.U2()
		if err != nil {
			return attrs, nil, classFormatError(err.Error())
		}
		length, err := r.U4()
		if err != nil {
			return attrs, nil, classFormatError(err.Error())
		}
		name, err := cp.ResolveName(int(nameIdx))
		if err != nil {
			return attrs, nil, classFormatError(err.Error())
		}
		if name == "BootstrapMethods" {
			bs, err := parseBootstrapMethods(r)
			if err != nil {
				return attrs, nil, err
			}
			bootstraps = bs
			continue
		}
		if err := applyNamedAttribute(r, cp, name, int(length), &attrs); err != nil {
			return attrs, nil, err
		}
	}
	return attrs, bootstraps, nil
}

func parseBootstrapMethods(r *types.ByteReader) ([]BootstrapMethod, error) {
	n, err := r.U2()
	if err != nil {
		return nil, classFormatError(err.Error())
	}
	bs := make([]BootstrapMethod, 0, n)
	for i := 0; i < int(n); i++ {
		mref, err := r.U2()
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		argCount, err := r.U2()
		if err != nil {
			return nil, classFormatError(err.Error())
		}
		args := make([]int, 0, argCount)
		for j := 0; j < int(argCount); j++ {
			a, err := r.U2()
			if err != nil {
				return nil, classFormatError(err.Error())
			}
			args = append(args, int(a))
		}
		bs = append(bs, BootstrapMethod{MethodRefIndex: int(mref), Args: args})
	}
	return bs, nil
}

// applyNamedAttribute decodes any of the attribute kinds spec.md §6
// requires recognition of (other than Code and BootstrapMethods, which
// have dedicated parsers) and folds it into attrs. Anything else is kept
// as RawAttribute bytes, per spec.md §4.1.
func applyNamedAttribute(r *types.ByteReader, cp *ConstantPool, name string, length int, attrs *Attributes) error {
	switch name {
	case "SourceFile":
		idx, err := r.U2()
		if err != nil {
			return classFormatError(err.Error())
		}
		attrs.SourceFile, err = cp.ResolveName(int(idx))
		return err
	case "Deprecated":
		attrs.Deprecated = true
		return nil
	case "Signature":
		idx, err := r.U2()
		if err != nil {
			return classFormatError(err.Error())
		}
		attrs.Signature, err = cp.ResolveName(int(idx))
		return err
	case "ConstantValue":
		idx, err := r.U2()
		if err != nil {
			return classFormatError(err.Error())
		}
		attrs.ConstantValueIndex = int(idx)
		return nil
	case "NestHost":
		idx, err := r.U2()
		if err != nil {
			return classFormatError(err.Error())
		}
		attrs.NestHost, err = cp.ResolveClassName(int(idx))
		return err
	case "NestMembers":
		n, err := r.U2()
		if err != nil {
			return classFormatError(err.Error())
		}
		for i := 0; i < int(n); i++ {
			idx, err := r.U2()
			if err != nil {
				return classFormatError(err.Error())
			}
			cn, err := cp.ResolveClassName(int(idx))
			if err != nil {
				return classFormatError(err.Error())
			}
			attrs.NestMembers = append(attrs.NestMembers, cn)
		}
		return nil
	case "PermittedSubclasses":
		n, err := r.U2()
		if err != nil {
			return classFormatError(err.Error())
		}
		for i := 0; i < int(n); i++ {
			idx, err := r.U2()
			if err != nil {
				return classFormatError(err.Error())
			}
			cn, err := cp.ResolveClassName(int(idx))
			if err != nil {
				return classFormatError(err.Error())
			}
			attrs.PermittedSubclasses = append(attrs.PermittedSubclasses, cn)
		}
		return nil
	case "Exceptions":
		n, err := r.U2()
		if err != nil {
			return classFormatError(err.Error())
		}
		for i := 0; i < int(n); i++ {
			idx, err := r.U2()
			if err != nil {
				return classFormatError(err.Error())
			}
			cn, err := cp.ResolveClassName(int(idx))
			if err != nil {
				return classFormatError(err.Error())
			}
			attrs.Exceptions = append(attrs.Exceptions, cn)
		}
		return nil
	case "EnclosingMethod":
		classIdx, err := r.U2()
		if err != nil {
			return classFormatError(err.Error())
		}
		natIdx, err := r.U2()
		if err != nil {
			return classFormatError(err.Error())
		}
		attrs.EnclosingClass, err = cp.ResolveClassName(int(classIdx))
		if err != nil {
			return classFormatError(err.Error())
		}
		if natIdx != 0 {
			attrs.EnclosingMethodName, attrs.EnclosingMethodDesc, err = cp.ResolveNameAndType(int(natIdx))
			return err
		}
		return nil
	case "InnerClasses":
		n, err := r.U2()
		if err != nil {
			return classFormatError(err.Error())
		}
		for i := 0; i < int(n); i++ {
			innerIdx, _ := r.U2()
			outerIdx, _ := r.U2()
			nameIdx, _ := r.U2()
			flags, err := r.U2()
			if err != nil {
				return classFormatError(err.Error())
			}
			var inner, outer, innerName string
			if innerIdx != 0 {
				inner, _ = cp.ResolveClassName(int(innerIdx))
			}
			if outerIdx != 0 {
				outer, _ = cp.ResolveClassName(int(outerIdx))
			}
			if nameIdx != 0 {
				innerName, _ = cp.ResolveName(int(nameIdx))
			}
			attrs.InnerClasses = append(attrs.InnerClasses, InnerClassEntry{
				InnerClass: inner, OuterClass: outer, InnerName: innerName, AccessFlags: int(flags),
			})
		}
		return nil
	case "MethodParameters":
		n, err := r.U1()
		if err != nil {
			return classFormatError(err.Error())
		}
		for i := 0; i < int(n); i++ {
			nameIdx, _ := r.U2()
			flags, err := r.U2()
			if err != nil {
				return classFormatError(err.Error())
			}
			var pname string
			if nameIdx != 0 {
				pname, _ = cp.ResolveName(int(nameIdx))
			}
			attrs.MethodParameters = append(attrs.MethodParameters, MethodParameter{Name: pname, AccessFlags: int(flags)})
		}
		return nil
	case "Record":
		attrs.IsRecord = true
		n, err := r.U2()
		if err != nil {
			return classFormatError(err.Error())
		}
		for i := 0; i < int(n); i++ {
			nameIdx, _ := r.U2()
			descIdx, _ := r.U2()
			attrCount, err := r.U2()
			if err != nil {
				return classFormatError(err.Error())
			}
			nm, _ := cp.ResolveName(int(nameIdx))
			ds, _ := cp.ResolveName(int(descIdx))
			attrs.RecordComponents = append(attrs.RecordComponents, RecordComponent{Name: nm, Desc: ds})
			// each record component can itself carry a (sub-)attribute list
			if _, _, err := parseAttributeList(r, cp, int(attrCount)); err != nil {
				return err
			}
		}
		return nil
	case "RuntimeVisibleAnnotations":
		raw, err := r.Bytes(length)
		if err != nil {
			return classFormatError(err.Error())
		}
		if containsPolymorphicSignatureMarker(cp, raw) {
			attrs.IsPolymorphicSignature = true
		}
		return nil
	default:
		raw, err := r.Bytes(length)
		if err != nil {
			return classFormatError(err.Error())
		}
		attrs.Raw = append(attrs.Raw, RawAttribute{Name: name, Content: raw})
		return nil
	}
}

// containsPolymorphicSignatureMarker does a best-effort scan of the raw
// RuntimeVisibleAnnotations bytes for a UTF-8 constant-pool reference to
// "Ljava/lang/invoke/MethodHandle$PolymorphicSignature;" — sufficient to
// recognize the one annotation spec.md §4.3 cares about without a full
// annotation-structure decoder.
func containsPolymorphicSignatureMarker(cp *ConstantPool, raw []byte) bool {
	for i := 1; i < len(cp.Entries); i++ {
		if cp.Entries[i].Tag == CPUtf8 &&
			cp.Entries[i].Utf8 == "Ljava/lang/invoke/MethodHandle$PolymorphicSignature;" {
			// any annotation entry referencing this index means the marker is present
			return utf8IndexReferenced(raw, uint16(i))
		}
	}
	return false
}

func utf8IndexReferenced(raw []byte, idx uint16) bool {
	hi, lo := byte(idx>>8), byte(idx)
	for i := 0; i+1 < len(raw); i++ {
		if raw[i] == hi && raw[i+1] == lo {
			return true
		}
	}
	return false
}
