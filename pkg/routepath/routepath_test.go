package routepath

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	const origin = "http://app.test"
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "empty", input: "", want: origin + "/"},
		{name: "relative path", input: "/items/:3", want: origin + "/items/:3"},
		{name: "same origin", input: origin + "/list?page=%3A2", want: origin + "/list?page=%3A2"},
		{name: "origin only", input: origin, want: origin + "/"},
		{name: "query only", input: "?tab=info", want: origin + "/?tab=info"},
		{name: "hash route", input: origin + "/#/items/:5", want: origin + "/#/items/:5"},
		{name: "dot segments kept", input: "/a/../b", want: origin + "/a/../b"},
		{name: "backslash in query allowed", input: "/a?x=\\", want: origin + "/a?x=\\"},
		{name: "other origin", input: "http://evil.test/a", wantErr: ErrForeignOrigin},
		{name: "origin prefix trick", input: origin + ".evil.test/a", wantErr: ErrForeignOrigin},
		{name: "protocol relative", input: "//evil.test/a", wantErr: ErrForeignOrigin},
		{name: "not absolute path", input: "items", wantErr: ErrInvalidPath},
		{name: "backslash", input: "/a\\b", wantErr: ErrBackslashInPath},
		{name: "encoded nul", input: "/a%00b", wantErr: ErrNullByteInPath},
		{name: "bad escape", input: "/a%GG", wantErr: ErrInvalidPercentEscape},
		{name: "truncated escape", input: "/a%2", wantErr: ErrInvalidPercentEscape},
		{name: "escapes root", input: "/../secret", wantErr: ErrPathEscapesRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.input, origin)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Validate(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Validate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitPathAndQuery(t *testing.T) {
	tests := []struct {
		input, path, rest string
	}{
		{"/a/b", "/a/b", ""},
		{"/a?x=1", "/a", "?x=1"},
		{"/#/a?x=1", "/", "#/a?x=1"},
	}
	for _, tt := range tests {
		path, rest := SplitPathAndQuery(tt.input)
		if path != tt.path || rest != tt.rest {
			t.Errorf("SplitPathAndQuery(%q) = %q, %q", tt.input, path, rest)
		}
	}
}
