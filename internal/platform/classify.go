package platform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedPlatform indicates the host OS or architecture is not in the
// supported enumeration. No artifact exists for it, so installation aborts.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Classify maps a raw kernel name string and a raw machine-architecture
// string to a canonical Tag. It is a pure, synchronous classification with
// no fallback: unrecognized input fails with ErrUnsupportedPlatform.
func Classify(kernel, machine string) (Tag, error) {
	osName, err := classifyOS(kernel)
	if err != nil {
		return Tag{}, err
	}

	arch, err := classifyArch(machine)
	if err != nil {
		return Tag{}, err
	}

	return Tag{OS: osName, Arch: arch}, nil
}

// classifyOS maps a kernel name to a canonical OS identifier. Windows shows
// up under several guises (mingw, msys, cygwin) depending on the shell the
// installer runs from, so substring matching is used.
func classifyOS(kernel string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(kernel))

	switch {
	case strings.Contains(k, "linux"):
		return OSLinux, nil
	case strings.Contains(k, "darwin"):
		return OSDarwin, nil
	case strings.Contains(k, "mingw"),
		strings.Contains(k, "msys"),
		strings.Contains(k, "cygwin"),
		strings.Contains(k, "windows"):
		return OSWindows, nil
	default:
		return "", fmt.Errorf("%w: unrecognized operating system %q", ErrUnsupportedPlatform, kernel)
	}
}

// classifyArch maps a machine-architecture string to a canonical
// architecture identifier. Only amd64 and arm64 artifacts are published.
func classifyArch(machine string) (string, error) {
	m := strings.ToLower(strings.TrimSpace(machine))

	switch m {
	case "x86_64", "amd64":
		return ArchAMD64, nil
	case "aarch64", "arm64":
		return ArchARM64, nil
	default:
		return "", fmt.Errorf("%w: unrecognized architecture %q (supported: amd64, arm64)", ErrUnsupportedPlatform, machine)
	}
}

// familyMap maps distribution identifiers to their canonical family names.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

// normalizePlatform converts distro identifiers to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps a distribution family string to a canonical family name.
func mapFamily(family string) string {
	if canonical, ok := familyMap[normalizePlatform(family)]; ok {
		return canonical
	}
	return FamilyUnknown
}
