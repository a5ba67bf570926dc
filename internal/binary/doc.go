// Package binary downloads, verifies, extracts, and installs the meldoc CLI
// binary.
//
// # Pipeline
//
// The manager runs a strictly linear sequence: download the release archive
// to a private scratch directory, verify it against the release checksum
// manifest, extract it, locate the executable, and rename it atomically into
// the target directory. Nothing mutates the target directory before the
// rename step.
//
// # Verification Policy
//
// Checksum verification is best-effort by design: a release whose manifest
// is missing, or whose manifest lacks an entry for this artifact, installs
// with a warning. A manifest entry that IS present and disagrees with the
// downloaded bytes is fatal. When a GPG keyring is available, the manifest's
// detached signature is also checked, again best-effort.
//
// # Privileges
//
// Only the final copy/rename into an unwritable target directory runs
// elevated (sudo on Unix). Download, extraction, and verification always run
// as the invoking user.
package binary
