package langsniff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		code string
		want Language
	}{
		{
			name: "java public class",
			code: "public class Main {\n  public static void main(String[] args) {}\n}",
			want: Java,
		},
		{
			name: "java println",
			code: "System.out.println(\"hello\");",
			want: Java,
		},
		{
			name: "java import",
			code: "import java.util.Scanner;",
			want: Java,
		},
		{
			name: "python def",
			code: "def sqr(n):\n    return n * n",
			want: Python,
		},
		{
			name: "python print call",
			code: "print(42)",
			want: Python,
		},
		{
			name: "python import without include",
			code: "import sys\nsys.exit(0)",
			want: Python,
		},
		{
			name: "cpp iostream",
			code: "#include <iostream>\nint main() { std::cout << 1; }",
			want: CPP,
		},
		{
			name: "cpp vector",
			code: "#include <vector>\nint main() {}",
			want: CPP,
		},
		{
			name: "c stdio printf",
			code: "#include <stdio.h>\nint main() { printf(\"x\"); return 0; }",
			want: C,
		},
		{
			name: "c scanf",
			code: "#include <stdio.h>\nint main() { int n; scanf(\"%d\", &n); }",
			want: C,
		},
		{
			name: "no rule matches defaults to C",
			code: "SELECT * FROM users;",
			want: C,
		},
		{
			name: "empty string defaults to C",
			code: "",
			want: C,
		},
		{
			name: "java wins even with python-looking content",
			code: "public class T {} // also contains print( and def ",
			want: Java,
		},
		{
			name: "python import plus include stays out of python rule",
			code: "import something\n#include <stdio.h>\nprintf(\"\");",
			want: C,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.code))
		})
	}
}

func TestDetectRuleOrder(t *testing.T) {
	// "public class" must win regardless of any other content.
	code := "#include <iostream>\npublic class Weird {}\nprint(1)"
	assert.Equal(t, Java, Detect(code))
}
