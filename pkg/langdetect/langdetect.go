// Package langdetect identifies the programming language of a source,
// combining filename and content signals.
package langdetect

import (
	"strings"

	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/viewfang/pkg/textutil"
)

// sampleLimit caps how much content is handed to the classifier.
// Matches enry's own guidance: the first kilobytes decide.
const sampleLimit = 16 * 1024

// boundaryLookback is how far back from the sample limit a cut may move
// to land on a newline, so the classifier never sees a split line.
const boundaryLookback = 256

// Detect returns a lowercase language identifier for the given filename
// and content sample, or "" when nothing matches. A forced override
// wins unconditionally.
func Detect(filename, forced string, sample []byte) string {
	if forced != "" {
		return Normalize(forced)
	}

	if len(sample) > sampleLimit {
		sample = []byte(textutil.TruncateAtLineBoundary(string(sample), sampleLimit, boundaryLookback))
	}

	lang := enry.GetLanguage(filename, sample)
	if lang == "" {
		return ""
	}

	return Normalize(lang)
}

// Normalize maps a human language name to an identifier both the
// grammar table and the highlighting lexers accept. Names outside the
// grammar table still need to hit a chroma lexer alias, so symbols are
// rewritten rather than underscored.
func Normalize(lang string) string {
	lower := strings.ToLower(lang)

	switch lower {
	case "c++":
		return "cpp"
	case "c#":
		return "csharp"
	default:
		return strings.ReplaceAll(lower, " ", "_")
	}
}
