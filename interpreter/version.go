package interpreter

import (
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/mod/semver"
)

type (
	// Version is the (major, minor, micro) tuple reported by the interpreter.
	Version struct {
		Major int
		Minor int
		Micro int
	}

	// MinVersion is a minimum interpreter version in the 3.Y format.
	MinVersion struct {
		Major int
		Minor int
	}
)

var (
	DefaultMinVersion = MinVersion{Major: 3, Minor: 8}

	minVersionRegex = regexp.MustCompile(`^(\d+)\.(\d+)$`)
)

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Micro)
}

func (v Version) semver() string {
	return "v" + v.String()
}

// Compatible reports whether v is at least min. Micro versions never matter.
func (v Version) Compatible(min MinVersion) bool {
	return semver.Compare(semver.MajorMinor(v.semver()), min.semver()) >= 0
}

func (mv *MinVersion) UnmarshalText(text []byte) error {
	m := minVersionRegex.FindStringSubmatch(string(text))
	if len(m) == 0 {
		return fmt.Errorf(`%s is not of the %s format`, string(text), minVersionRegex)
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return fmt.Errorf("major version of %q: %w", string(text), err)
	}

	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return fmt.Errorf("minor version of %q: %w", string(text), err)
	}

	mv.Major = major
	mv.Minor = minor

	return nil
}

func (mv MinVersion) MarshalText() ([]byte, error) {
	return []byte(mv.String()), nil
}

func (mv MinVersion) String() string {
	return fmt.Sprintf("%d.%d", mv.Major, mv.Minor)
}

func (mv MinVersion) semver() string {
	return "v" + mv.String()
}
