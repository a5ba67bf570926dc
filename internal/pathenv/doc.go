// Package pathenv makes an install directory reachable from the user's
// shell. On Unix that means appending an export line to a shell startup
// file; on Windows it means editing the Path value in the registry.
//
// Every operation here is best-effort from the installer's point of view:
// the binary is already on disk when PATH integration runs, so failures
// degrade to printed manual instructions rather than a failed install.
package pathenv
