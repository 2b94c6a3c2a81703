package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePairs(t *testing.T) {
	got, err := parsePairs([]string{"id=:42", "tab=info", "open=:true", "empty="})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"id": 42, "tab": "info", "open": true, "empty": ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parsePairs mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parsePairs([]string{bad}); err == nil {
			t.Errorf("parsePairs(%q) should fail", bad)
		}
	}
}
