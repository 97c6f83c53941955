package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	commaRun      = regexp.MustCompile(`,(?:\s*,)+`)
	leadingComma  = regexp.MustCompile(`^\s*,`)
	trailingComma = regexp.MustCompile(`,\s*$`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	commaSpacing  = regexp.MustCompile(`\s*,\s*`)

	// Displacement passes, applied in order:
	// 1600CC -> 1.6L
	displacementCC = regexp.MustCompile(`(?i)\b(\d{3,4})CC\b`)
	// 1,6 -> 1.6 (decimal comma)
	decimalComma = regexp.MustCompile(`\b(\d),(\d)\b`)
	// 1.6 COMFORT -> 1.6L COMFORT (missing L suffix before an uppercase word)
	missingLiterSuffix = regexp.MustCompile(`\b(\d\.\d)(\s+[A-Z])`)
)

// Normalize canonicalizes a vehicle description.
//
// Basic normalization (always applied): uppercase fold, comma-run collapse,
// edge-comma stripping and whitespace cleanup.
//
// Full normalization additionally collapses consecutive duplicate fields,
// folds partner terminology through the rule tables, and rewrites engine
// displacement formats. Retrieval uses full normalization; arbitration sees
// the original text.
//
// Empty input returns the empty string. The function is pure: identical
// input and flag always yield identical output.
func Normalize(description string, full bool) string {
	if description == "" {
		return ""
	}

	normalized := strings.ToUpper(strings.TrimSpace(description))

	// Collapse comma runs and strip edge commas (always applied)
	normalized = commaRun.ReplaceAllString(normalized, ",")
	normalized = trailingComma.ReplaceAllString(normalized, "")
	normalized = leadingComma.ReplaceAllString(normalized, "")

	if full {
		normalized = collapseDuplicateFields(normalized)
		for _, table := range ruleTables {
			normalized = applyRules(normalized, table)
		}
		normalized = normalizeDisplacement(normalized)
	}

	// Whitespace cleanup (always applied)
	normalized = whitespaceRun.ReplaceAllString(normalized, " ")
	normalized = commaSpacing.ReplaceAllString(normalized, ", ")
	return strings.TrimSpace(normalized)
}

// collapseDuplicateFields drops comma-separated fields that repeat the
// immediately preceding retained field. Non-adjacent repeats are preserved.
func collapseDuplicateFields(text string) string {
	parts := strings.Split(text, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if len(result) == 0 || part != result[len(result)-1] {
			result = append(result, part)
		}
	}
	return strings.Join(result, ", ")
}

// applyRules rewrites every whole-word occurrence of each rule's pattern
// with its canonical token.
func applyRules(text string, rules []Rule) string {
	for _, r := range rules {
		text = r.Pattern.ReplaceAllString(text, r.Canonical)
	}
	return text
}

// normalizeDisplacement rewrites engine displacement to the N.NL format.
func normalizeDisplacement(text string) string {
	text = displacementCC.ReplaceAllStringFunc(text, func(match string) string {
		digits := displacementCC.FindStringSubmatch(match)[1]
		cc, err := strconv.Atoi(digits)
		if err != nil {
			return match
		}
		return fmt.Sprintf("%.1fL", float64(cc)/1000)
	})
	text = decimalComma.ReplaceAllString(text, "$1.$2")
	text = missingLiterSuffix.ReplaceAllString(text, "${1}L${2}")
	return text
}
