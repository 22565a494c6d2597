package logger

import "testing"

func TestRedactChatID(t *testing.T) {
	cases := map[string]string{
		"283745991": "28*****91",
		"123456":    "12**56",
		"abcd":      "****",
		"":          "****",
	}
	for in, want := range cases {
		if got := RedactChatID(in); got != want {
			t.Errorf("RedactChatID(%q) = %q, want %q", in, got, want)
		}
	}
}
