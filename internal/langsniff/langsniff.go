// Package langsniff guesses the programming language of submitted code from
// ordered substring heuristics. It is intentionally a sniffer, not a parser:
// Python code that happens to contain both "import " and "#include"-like text
// will misclassify, and that tolerance is accepted.
package langsniff

import "strings"

type Language string

const (
	C      Language = "C"
	CPP    Language = "CPP"
	Java   Language = "JAVA"
	Python Language = "PYTHON"
)

// Detect returns the language guessed for code. Rule order matters because
// some rules match substrings that also appear in other languages' contexts;
// the first match wins and the default is C.
func Detect(code string) Language {
	switch {
	case strings.Contains(code, "public class") ||
		strings.Contains(code, "System.out.println") ||
		strings.Contains(code, "import java"):
		return Java
	case strings.Contains(code, "print(") ||
		strings.Contains(code, "def ") ||
		(strings.Contains(code, "import ") && !strings.Contains(code, "#include")):
		return Python
	case strings.Contains(code, "#include") &&
		(strings.Contains(code, "iostream") ||
			strings.Contains(code, "vector") ||
			strings.Contains(code, "string>")):
		return CPP
	case strings.Contains(code, "#include") &&
		(strings.Contains(code, "stdio.h") ||
			strings.Contains(code, "printf") ||
			strings.Contains(code, "scanf")):
		return C
	default:
		return C
	}
}
