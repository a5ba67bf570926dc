package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using the Go runtime and gopsutil.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect classifies the current host and, on Linux, enriches the result with
// distribution details from gopsutil. Distro detection failure is not fatal:
// artifact selection depends only on the {os, arch} tag, so the detector
// degrades to tag-only information.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	tag, err := Classify(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return nil, fmt.Errorf("detect platform: %w", err)
	}

	info := &Info{Tag: tag}

	if tag.OS == OSLinux {
		platform, family, version, err := host.PlatformInformationWithContext(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
			}
			// Tag-only fallback.
			return info, nil
		}

		platform = normalizePlatform(platform)
		if platform != "" {
			info.Platform = platform
			info.Family = mapFamily(family)
			info.Version = normalizePlatform(version)
		}
	}

	return info, nil
}
