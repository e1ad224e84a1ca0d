/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

// Package excNames names the Java-visible throwable taxonomy (spec.md §7,
// second error universe). Each exception is an int code used internally
// for fast dispatch plus the standard-library class name the engine
// raises the matching heap object as.
package excNames

type ExceptionCode int

const (
	NullPointerException ExceptionCode = iota
	ArithmeticException
	ArrayIndexOutOfBoundsException
	ArrayStoreException
	ClassCastException
	CloneNotSupportedException
	ClassNotFoundException
	NoSuchMethodException
	NoSuchFieldException
	LinkageError
	NoClassDefFoundError
	IOException
	FileNotFoundException
	UnsupportedOperationException
	IllegalArgumentException
	IllegalStateException
	NegativeArraySizeException
	IndexOutOfBoundsException
	StringIndexOutOfBoundsException
	OutOfMemoryError
	StackOverflowError
	InterruptedException
	NumberFormatException
)

// JavaClassNames maps each code to the internal (slash-form) class name
// of the exception object the heap allocates when this exception fires.
var JavaClassNames = map[ExceptionCode]string{
	NullPointerException:           "java/lang/NullPointerException",
	ArithmeticException:            "java/lang/ArithmeticException",
	ArrayIndexOutOfBoundsException: "java/lang/ArrayIndexOutOfBoundsException",
	ArrayStoreException:            "java/lang/ArrayStoreException",
	ClassCastException:             "java/lang/ClassCastException",
	CloneNotSupportedException:     "java/lang/CloneNotSupportedException",
	ClassNotFoundException:         "java/lang/ClassNotFoundException",
	NoSuchMethodException:          "java/lang/NoSuchMethodException",
	NoSuchFieldException:           "java/lang/NoSuchFieldException",
	LinkageError:                   "java/lang/LinkageError",
	NoClassDefFoundError:           "java/lang/NoClassDefFoundError",
	IOException:                    "java/io/IOException",
	FileNotFoundException:          "java/io/FileNotFoundException",
	UnsupportedOperationException:  "java/lang/UnsupportedOperationException",
	IllegalArgumentException:       "java/lang/IllegalArgumentException",
	IllegalStateException:          "java/lang/IllegalStateException",
	NegativeArraySizeException:     "java/lang/NegativeArraySizeException",
	IndexOutOfBoundsException:      "java/lang/IndexOutOfBoundsException",
	StringIndexOutOfBoundsException: "java/lang/StringIndexOutOfBoundsException",
	OutOfMemoryError:               "java/lang/OutOfMemoryError",
	StackOverflowError:             "java/lang/StackOverflowError",
	InterruptedException:           "java/lang/InterruptedException",
	NumberFormatException:          "java/lang/NumberFormatException",
}

// JavaClassNameOf returns the class name for a code, or "" if unknown.
func JavaClassNameOf(code ExceptionCode) string {
	return JavaClassNames[code]
}

// CodeForClassName is the reverse lookup, used when the exception table
// search needs to know whether a thrown object's class matches a
// well-known code (e.g. to special-case finally blocks).
func CodeForClassName(className string) (ExceptionCode, bool) {
	for code, name := range JavaClassNames {
		if name == className {
			return code, true
		}
	}
	return 0, false
}
