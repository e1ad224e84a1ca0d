/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package types

import (
	"fmt"
	"strings"
)

// ParamInfo describes a single parameter parsed out of a method
// descriptor: its raw descriptor fragment ("I", "Ljava/lang/String;",
// "[B", ...) and the stack category it occupies.
type ParamInfo struct {
	Descriptor string
	Category   int
}

// MethodDescriptor is the parsed form of a method descriptor such as
// "(IJLjava/lang/Object;)Z".
type MethodDescriptor struct {
	Raw        string
	Params     []ParamInfo
	ReturnType string // "" for void, else a field descriptor
}

// ArgumentCount returns the number of logical parameters (testable
// property 1 in spec.md §8: argument_count(d) == len(parse_parameter_types(d))).
func (m MethodDescriptor) ArgumentCount() int {
	return len(m.Params)
}

// SlotCount returns the number of operand-stack/local-variable slots
// the parameters occupy, honoring category-2 doubling.
func (m MethodDescriptor) SlotCount() int {
	n := 0
	for _, p := range m.Params {
		n += p.Category
	}
	return n
}

// ParseMethodDescriptor parses a method descriptor into its parameter
// list and return type. Structurally malformed input yields an error
// rather than a panic.
func ParseMethodDescriptor(desc string) (MethodDescriptor, error) {
	if len(desc) == 0 || desc[0] != '(' {
		return MethodDescriptor{}, fmt.Errorf("invalid method descriptor: %q", desc)
	}
	i := 1
	var params []ParamInfo
	for i < len(desc) && desc[i] != ')' {
		field, next, err := parseFieldDescriptorAt(desc, i)
		if err != nil {
			return MethodDescriptor{}, err
		}
		params = append(params, ParamInfo{Descriptor: field, Category: categoryOfDescriptor(field)})
		i = next
	}
	if i >= len(desc) {
		return MethodDescriptor{}, fmt.Errorf("unterminated method descriptor: %q", desc)
	}
	i++ // skip ')'
	ret := desc[i:]
	if ret == "V" {
		ret = ""
	} else if _, _, err := parseFieldDescriptorAt(desc, i); err != nil {
		return MethodDescriptor{}, err
	}
	return MethodDescriptor{Raw: desc, Params: params, ReturnType: ret}, nil
}

// parseFieldDescriptorAt parses one field descriptor starting at index i
// in s and returns it along with the index just past it.
func parseFieldDescriptorAt(s string, i int) (string, int, error) {
	start := i
	for i < len(s) && s[i] == '[' {
		i++
	}
	if i >= len(s) {
		return "", 0, fmt.Errorf("truncated descriptor: %q", s)
	}
	switch s[i] {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 'V':
		return s[start : i+1], i + 1, nil
	case 'L':
		end := strings.IndexByte(s[i:], ';')
		if end < 0 {
			return "", 0, fmt.Errorf("unterminated class descriptor: %q", s)
		}
		return s[start : i+end+1], i + end + 1, nil
	default:
		return "", 0, fmt.Errorf("unknown descriptor tag %q in %q", s[i], s)
	}
}

func categoryOfDescriptor(d string) int {
	if d == "J" || d == "D" {
		return 2
	}
	return 1
}

// FieldDescriptorDefault returns the zero Value a field of the given
// descriptor is initialized to.
func FieldDescriptorDefault(desc string) Value {
	if len(desc) == 0 {
		return None()
	}
	switch desc[0] {
	case 'L', '[':
		return Null()
	case 'Z':
		return Bool(false)
	case 'B':
		return Byte(0)
	case 'C':
		return Char(0)
	case 'S':
		return Short(0)
	case 'I':
		return Int(0)
	case 'J':
		return Long(0)
	case 'F':
		return Float(0)
	case 'D':
		return Double(0)
	}
	return None()
}

// IsPrimitiveDescriptor reports whether desc names one of the eight
// JVM primitive types.
func IsPrimitiveDescriptor(desc string) bool {
	switch desc {
	case "B", "Z", "C", "S", "I", "J", "F", "D":
		return true
	}
	return false
}

// IntFamilyDescriptors lists the primitive descriptors, and
// IntFamilyWrapperClasses below their wrapper classes, that the subtype
// predicate (spec.md §4.9) treats as a single integer family.
var IntFamilyDescriptors = map[string]bool{
	"B": true, "Z": true, "C": true, "S": true, "I": true, "J": true,
}

var IntFamilyWrapperClasses = map[string]bool{
	"java/lang/Byte": true, "java/lang/Boolean": true, "java/lang/Character": true,
	"java/lang/Short": true, "java/lang/Integer": true, "java/lang/Long": true,
}

// ComponentType strips one leading '[' from an array descriptor and
// returns the remainder, or ("", false) if desc is not an array descriptor.
func ComponentType(desc string) (string, bool) {
	if !strings.HasPrefix(desc, "[") {
		return "", false
	}
	return desc[1:], true
}

// ClassNameFromReferenceDescriptor extracts "java/lang/String" out of
// "Ljava/lang/String;".
func ClassNameFromReferenceDescriptor(desc string) (string, bool) {
	if len(desc) < 2 || desc[0] != 'L' || desc[len(desc)-1] != ';' {
		return "", false
	}
	return desc[1 : len(desc)-1], true
}
