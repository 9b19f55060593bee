package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadRange indicates a malformed range expression.
var ErrBadRange = errors.New("malformed range")

// ParseRange parses a 1-based line range expression. Supported forms:
// "40:80" (window), "40:" (from line 40), ":80" (up to line 80),
// "7" (exactly line 7), "" (full input).
func ParseRange(expr string) (LineRange, error) {
	if expr == "" {
		return LineRange{}, nil
	}

	if !strings.Contains(expr, ":") {
		line, err := parseBound(expr)
		if err != nil {
			return LineRange{}, fmt.Errorf("%w: %q", ErrBadRange, expr)
		}

		return LineRange{Start: line, End: line}, nil
	}

	parts := strings.SplitN(expr, ":", 2)

	start, startErr := parseBound(parts[0])
	end, endErr := parseBound(parts[1])

	if startErr != nil || endErr != nil {
		return LineRange{}, fmt.Errorf("%w: %q (want N:M, N:, :M or N)", ErrBadRange, expr)
	}

	return LineRange{Start: start, End: end}, nil
}

// parseBound parses one bound; empty means open (zero).
func parseBound(s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("bad bound %q", s)
	}

	return n, nil
}
