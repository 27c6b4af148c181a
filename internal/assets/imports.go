package assets

import "strings"

// ExternalsReport compares the externals a configuration declared with the
// external imports esbuild actually emitted.
type ExternalsReport struct {
	// Unused are declared externals no output imports
	Unused []string
	// Undeclared are external imports matched by no declared external, such as
	// node builtins esbuild externalizes for the node platform
	Undeclared []string
}

// CheckExternals reports on declared against the last build's external imports.
func (p *Pipeline) CheckExternals(declared []string) (ExternalsReport, error) {
	imported, err := p.ExternalImports()
	if err != nil {
		return ExternalsReport{}, err
	}
	return compareExternals(declared, imported), nil
}

func compareExternals(declared, imported []string) ExternalsReport {
	var report ExternalsReport
	used := make(map[string]bool, len(declared))

	for _, path := range imported {
		matched := false
		for _, pattern := range declared {
			if matchExternal(pattern, path) {
				used[pattern] = true
				matched = true
			}
		}
		if !matched {
			report.Undeclared = append(report.Undeclared, path)
		}
	}

	for _, pattern := range declared {
		if !used[pattern] {
			report.Unused = append(report.Unused, pattern)
		}
	}
	return report
}

// matchExternal applies esbuild's external matching: a single "*" matches any
// run of characters, and a package name also covers its subpaths.
func matchExternal(pattern, path string) bool {
	if prefix, suffix, ok := strings.Cut(pattern, "*"); ok {
		return len(path) >= len(prefix)+len(suffix) &&
			strings.HasPrefix(path, prefix) && strings.HasSuffix(path, suffix)
	}
	return path == pattern || strings.HasPrefix(path, pattern+"/")
}
