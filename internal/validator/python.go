package validator

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/transformer"
)

// Python compatibility tokens
const (
	MinPythonCompatibility = "35"
	TwoOrThree             = "2or3"
)

var minPython = version.Must(version.NewVersion(MinPythonCompatibility))

// IsValidPythonCompatibility reports whether token names a supported
// Python 3 interpreter. Tokens are compact versions such as "36" or "311";
// anything that does not parse as a version is rejected. allowTwoOrThree
// additionally accepts the "2or3" literal of compiled transformers.
func IsValidPythonCompatibility(token string, allowTwoOrThree bool) bool {
	if allowTwoOrThree && token == TwoOrThree {
		return true
	}
	if !strings.HasPrefix(token, "3") {
		return false
	}
	v, err := version.NewVersion(token)
	if err != nil {
		return false
	}
	return v.GreaterThanOrEqual(minPython)
}

func checkPython(dialect transformer.Dialect, name, token string) error {
	if dialect.Scripted() {
		if token == "" || IsValidPythonCompatibility(token, false) {
			return nil
		}
		return domain.NewCompatibilityError(domain.CompatScriptedPython, name,
			fmt.Sprintf("'%s' Python compatibility must be >=%s.", name, MinPythonCompatibility))
	}
	if IsValidPythonCompatibility(token, true) {
		return nil
	}
	return domain.NewCompatibilityError(domain.CompatCompiledPython, name,
		fmt.Sprintf("'%s' Python compatibility must be '%s' or >=%s.", name, TwoOrThree, MinPythonCompatibility))
}
