// Package refs extracts work item references from free text and manipulates
// the tag field of Azure DevOps work items.
package refs

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// workItemPattern matches Azure Boards work item references like "AB#1234".
var workItemPattern = regexp.MustCompile(`AB#(\d+)`)

// tagPrefix is the prefix of every environment tag this tool writes.
const tagPrefix = "DeployedEnv:"

// ExtractWorkItemIDs returns the distinct work item identifiers referenced in
// text in the form AB#<digits>, in ascending order. Empty or unmatched text
// yields an empty result; there are no error conditions.
func ExtractWorkItemIDs(text string) []int {
	ids := []int{}
	if text == "" {
		return ids
	}

	seen := make(map[int]bool)
	for _, match := range workItemPattern.FindAllStringSubmatch(text, -1) {
		id, err := strconv.Atoi(match[1])
		if err != nil || id <= 0 {
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	sort.Ints(ids)
	return ids
}

// EnvironmentTag builds the normalized deployment tag for an environment
// name, e.g. "dev" -> "DeployedEnv:DEV". Normalization is idempotent: the
// upper-cased segment of an already-normalized tag maps to the same tag.
func EnvironmentTag(environment string) string {
	return tagPrefix + strings.ToUpper(strings.TrimSpace(environment))
}

// ContainsTag reports whether the semicolon-separated tag field already
// carries the given tag. Containment is a substring test, matching the
// behavior of the work tracking UI's tag search; it can over-match on
// prefixes (e.g. DeployedEnv:DE inside DeployedEnv:DEV), which at worst
// skips an item instead of re-tagging it.
func ContainsTag(tagField, tag string) bool {
	if strings.TrimSpace(tagField) == "" {
		return false
	}
	return strings.Contains(tagField, tag)
}

// AppendTag returns the tag field value with tag appended. A blank field
// becomes exactly the tag; otherwise the tag is appended after a
// semicolon-space separator, preserving the existing tokens and their order.
func AppendTag(tagField, tag string) string {
	if strings.TrimSpace(tagField) == "" {
		return tag
	}
	return tagField + "; " + tag
}
