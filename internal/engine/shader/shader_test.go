package shader

import (
	"errors"
	"testing"
)

func TestTrimLog(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"nul terminated", []byte("0:3: error\n\x00"), "0:3: error"},
		{"garbage after nul", []byte("bad\x00junk"), "bad"},
		{"empty", []byte{0}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := trimLog(tt.in); got != tt.want {
				t.Errorf("trimLog() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompileError(t *testing.T) {
	var err error = &CompileError{Program: "mesh", Stage: StageFragment, Log: "0:1: syntax error"}
	if got, want := err.Error(), "mesh program: fragment: 0:1: syntax error"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var ce *CompileError
	if !errors.As(err, &ce) || ce.Stage != StageFragment {
		t.Errorf("errors.As() = %v", ce)
	}
}

func TestUniformUnknown(t *testing.T) {
	p := &Program{uniforms: map[string]int32{"uModel": 3}}
	if got := p.Uniform("uModel"); got != 3 {
		t.Errorf("Uniform(uModel) = %d, want 3", got)
	}
	if got := p.Uniform("uMissing"); got != -1 {
		t.Errorf("Uniform(uMissing) = %d, want -1", got)
	}
}

func TestDeleteZero(t *testing.T) {
	var nilProgram *Program
	nilProgram.Delete()
	(&Program{}).Delete()
}
