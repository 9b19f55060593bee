package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr string
		want LineRange
	}{
		{name: "empty is full", expr: "", want: LineRange{}},
		{name: "window", expr: "40:80", want: LineRange{Start: 40, End: 80}},
		{name: "open end", expr: "40:", want: LineRange{Start: 40}},
		{name: "open start", expr: ":80", want: LineRange{End: 80}},
		{name: "single line", expr: "7", want: LineRange{Start: 7, End: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseRange(tt.expr)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRange_Malformed(t *testing.T) {
	t.Parallel()

	exprs := []string{"abc", "40:xyz", "x:80", "-5:10", "1:2:3", "40::80"}

	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			t.Parallel()

			_, err := ParseRange(expr)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrBadRange)
		})
	}
}
