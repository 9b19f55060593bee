package structparse

import "regexp"

// fallbackPattern pairs a compiled line pattern with the declaration
// kind it detects.
type fallbackPattern struct {
	re   *regexp.Regexp
	kind Kind
}

// genericPatterns cover the keyword shapes shared by most languages.
// They run when no language-specific table exists; line-based matching
// is a best effort, documented as such, and deterministic.
var genericPatterns = []fallbackPattern{
	{regexp.MustCompile(`^\s*(import\s|from\s+\S+\s+import\s|#include\s|use\s|require\s|require\()`), KindImport},
	{regexp.MustCompile(`^\s*(pub\s+)?(class|struct|interface|trait|enum|module|type)\s+\w`), KindType},
	{regexp.MustCompile(`^\s*(pub\s+|export\s+|async\s+|static\s+)*(func|fn|def|function|sub|proc)\s+\w`), KindFunction},
	{regexp.MustCompile(`^\s*(const|val|let|var)\s+\w+\s*=`), KindValue},
}

// languagePatterns refine the generic table where keyword shapes differ
// enough to matter.
var languagePatterns = map[string][]fallbackPattern{
	"shell": {
		{regexp.MustCompile(`^\s*(source|\.)\s+\S`), KindImport},
		{regexp.MustCompile(`^\s*(function\s+\w+|\w+\s*\(\)\s*\{)`), KindFunction},
	},
	"php": {
		{regexp.MustCompile(`^\s*(use|require|require_once|include|include_once)\b`), KindImport},
		{regexp.MustCompile(`^\s*(abstract\s+|final\s+)?(class|interface|trait|enum)\s+\w`), KindType},
		{regexp.MustCompile(`^\s*(public\s+|private\s+|protected\s+|static\s+)*function\s+\w`), KindFunction},
	},
	"kotlin": {
		{regexp.MustCompile(`^\s*import\s`), KindImport},
		{regexp.MustCompile(`^\s*(data\s+|sealed\s+|open\s+|abstract\s+)*(class|interface|object|enum)\b`), KindType},
		{regexp.MustCompile(`^\s*(override\s+|suspend\s+|private\s+|public\s+|internal\s+)*fun\s+\w`), KindFunction},
		{regexp.MustCompile(`^\s*(const\s+)?(val|var)\s+\w`), KindValue},
	},
	"swift": {
		{regexp.MustCompile(`^\s*import\s`), KindImport},
		{regexp.MustCompile(`^\s*(public\s+|final\s+|open\s+)*(class|struct|protocol|enum|extension)\s+\w`), KindType},
		{regexp.MustCompile(`^\s*(public\s+|private\s+|static\s+|override\s+)*func\s+\w`), KindFunction},
	},
}

// FallbackExtract scans lines with per-language keyword heuristics and
// returns single-line declaration spans in source order. It is the path
// taken when no grammar is wired for the language.
func FallbackExtract(lines []string, language string) []Span {
	patterns, ok := languagePatterns[language]
	if !ok {
		patterns = genericPatterns
	}

	var spans []Span

	for idx, line := range lines {
		for _, pat := range patterns {
			if pat.re.MatchString(line) {
				spans = append(spans, Span{
					StartLine: idx,
					EndLine:   idx,
					Kind:      pat.kind,
				})

				break
			}
		}
	}

	return spans
}
