package manifest

import (
	"fmt"
	"regexp"
)

var pathVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// ResolveVars replaces ${name} references in s using the manifest's paths
// table. Unknown names are an error rather than silently left in place.
func ResolveVars(s string, paths map[string]string) (string, error) {
	var unknown string
	out := pathVarPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := pathVarPattern.FindStringSubmatch(m)[1]
		v, ok := paths[key]
		if !ok {
			if unknown == "" {
				unknown = key
			}
			return m
		}
		return v
	})
	if unknown != "" {
		return "", fmt.Errorf("unknown path variable ${%s}", unknown)
	}
	return out, nil
}
