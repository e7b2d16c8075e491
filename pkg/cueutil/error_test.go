// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

func TestFormatError_NilError(t *testing.T) {
	t.Parallel()

	if got := FormatError(nil, "config.cue"); got != nil {
		t.Errorf("FormatError(nil) = %v, want nil", got)
	}
}

func TestFormatError_NonCUEError(t *testing.T) {
	t.Parallel()

	err := FormatError(errors.New("boom"), "config.cue")
	if err == nil || !strings.HasPrefix(err.Error(), "config.cue: ") {
		t.Errorf("expected file-prefixed error, got %v", err)
	}
}

func TestFormatError_SchemaMismatch(t *testing.T) {
	t.Parallel()

	ctx := cuecontext.New()
	schema := ctx.CompileString(`#Config: { server?: { port?: int } }`)
	user := ctx.CompileString(`server: port: "not a number"`)

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(user)
	verr := unified.Validate()
	if verr == nil {
		t.Fatal("expected a validation error")
	}

	err := FormatError(verr, "config.cue")
	if err == nil {
		t.Fatal("FormatError returned nil for a real CUE error")
	}
	if !strings.Contains(err.Error(), "config.cue") {
		t.Errorf("expected file path in message, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "server.port") {
		t.Errorf("expected JSON path in message, got %q", err.Error())
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     []string
		expected string
	}{
		{name: "empty", path: nil, expected: ""},
		{name: "single field", path: []string{"server"}, expected: "server"},
		{name: "nested fields", path: []string{"server", "port"}, expected: "server.port"},
		{name: "array index", path: []string{"providers", "0"}, expected: "providers[0]"},
		{name: "index then field", path: []string{"hooks", "1", "run"}, expected: "hooks[1].run"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatPath(tt.path); got != tt.expected {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 10), 10, "f.cue"); err != nil {
		t.Errorf("size at limit should pass, got %v", err)
	}
	if err := CheckFileSize(make([]byte, 11), 10, "f.cue"); err == nil {
		t.Error("size over limit should fail")
	}
}
