package langdetect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect_ForcedWins(t *testing.T) {
	t.Parallel()

	got := Detect("main.py", "Go", []byte("import os\n"))

	assert.Equal(t, "go", got)
}

func TestDetect_ByFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		want     string
	}{
		{filename: "main.go", want: "go"},
		{filename: "script.py", want: "python"},
		{filename: "app.rb", want: "ruby"},
		{filename: "lib.rs", want: "rust"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			t.Parallel()

			got := Detect(tt.filename, "", nil)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetect_ContentOnly(t *testing.T) {
	t.Parallel()

	sample := []byte("#!/usr/bin/env python3\nimport sys\n\ndef main():\n    pass\n")

	got := Detect("", "", sample)

	assert.Equal(t, "python", got)
}

func TestDetect_NothingToGoOn(t *testing.T) {
	t.Parallel()

	got := Detect("", "", nil)

	assert.Empty(t, got)
}

func TestDetect_OversizedSampleTrimmedAtLineBoundary(t *testing.T) {
	t.Parallel()

	// The shebang decides; the trailing bulk exceeds the sample limit
	// and its cut must not break detection.
	sample := []byte("#!/usr/bin/env python3\n" + strings.Repeat("x = 1\n", 10_000))

	got := Detect("", "", sample)

	assert.Equal(t, "python", got)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "Go", want: "go"},
		{in: "C++", want: "cpp"},
		{in: "C#", want: "csharp"},
		{in: "Objective-C", want: "objective-c"},
		{in: "Emacs Lisp", want: "emacs_lisp"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
