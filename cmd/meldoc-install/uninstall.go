package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/meldoc-io/meldoc-cli/internal/pathenv"
	"github.com/meldoc-io/meldoc-cli/internal/platform"
	"github.com/meldoc-io/meldoc-cli/internal/receipt"
)

// UninstallFlags holds command-line flags for uninstall
type UninstallFlags struct {
	force     bool
	dryRun    bool
	keepState bool
	help      bool
}

// parseUninstallFlags parses command-line flags for the uninstall command
func parseUninstallFlags(args []string) (*UninstallFlags, error) {
	flags := &UninstallFlags{}

	for _, arg := range args {
		switch arg {
		case "--force", "-f":
			flags.force = true
		case "--dry-run":
			flags.dryRun = true
		case "--keep-state":
			flags.keepState = true
		case "--help", "-h":
			flags.help = true
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown flag: %s", arg)
			}
			return nil, fmt.Errorf("unexpected argument: %s", arg)
		}
	}

	return flags, nil
}

// printUninstallHelp prints help text for the uninstall command
func printUninstallHelp() {
	fmt.Println("Usage: meldoc-install uninstall [OPTIONS]")
	fmt.Println()
	fmt.Println("Remove an installed meldoc CLI")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --force, -f    Skip the confirmation prompt")
	fmt.Println("  --dry-run      Show what would be removed without removing")
	fmt.Println("  --keep-state   Preserve the installer state directory")
	fmt.Println("  --help, -h     Show this help message")
}

// RemovalPlan describes what the uninstaller will remove.
type RemovalPlan struct {
	BinaryPath  string
	InstallDir  string
	StateDir    string
	StateExists bool
	// PathIntegration mirrors the receipt's record; empty Method means
	// nothing to undo.
	PathIntegration receipt.PathIntegration
	// FromReceipt reports whether the plan came from a receipt rather than
	// filesystem probing.
	FromReceipt bool
}

// buildRemovalPlan locates the installation. The receipt is authoritative
// when present; without one (older installs, deleted state) the known
// default locations are probed for the binary.
func buildRemovalPlan(tag platform.Tag, sdir string) (*RemovalPlan, error) {
	plan := &RemovalPlan{StateDir: sdir}

	if _, err := os.Stat(sdir); err == nil {
		plan.StateExists = true
	}

	if rec, err := receipt.Load(sdir); err == nil {
		if _, err := os.Stat(rec.BinaryPath); err == nil {
			plan.BinaryPath = rec.BinaryPath
			plan.InstallDir = rec.InstallDir
			plan.PathIntegration = rec.PathIntegration
			plan.FromReceipt = true
			return plan, nil
		}
	}

	// Probing fallback: the env override plus both standard locations.
	destName := toolName + tag.ExeSuffix()
	var candidates []string
	if dir := os.Getenv("MELDOC_INSTALL_DIR"); dir != "" {
		candidates = append(candidates, dir)
	}
	if userDir, err := defaultInstallDir(tag, false); err == nil {
		candidates = append(candidates, userDir)
	}
	if !tag.IsWindows() {
		candidates = append(candidates, "/usr/local/bin")
	}

	for _, dir := range candidates {
		path := filepath.Join(dir, destName)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			plan.BinaryPath = path
			plan.InstallDir = dir
			return plan, nil
		}
	}

	return plan, nil
}

// showRemovalPlan displays what will be removed
func showRemovalPlan(plan *RemovalPlan, flags *UninstallFlags) {
	fmt.Println("The following will be removed:")
	fmt.Printf("  [×] Binary: %s\n", plan.BinaryPath)
	if plan.PathIntegration.Method == "rcfile" {
		fmt.Printf("  [×] PATH entry in %s\n", plan.PathIntegration.RCFile)
	} else if plan.PathIntegration.Method == "registry" {
		fmt.Printf("  [×] PATH entry (%s scope)\n", plan.PathIntegration.Scope)
	}
	if plan.StateExists {
		if flags.keepState {
			fmt.Printf("  [×] State directory: %s [WILL BE PRESERVED]\n", plan.StateDir)
		} else {
			fmt.Printf("  [×] State directory: %s\n", plan.StateDir)
		}
	}
}

// confirmRemoval asks for confirmation on stdin
func confirmRemoval() bool {
	fmt.Print("\nProceed? [y/N]: ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// removePathEntry undoes recorded PATH integration. Best-effort.
func removePathEntry(plan *RemovalPlan) {
	ref := plan.PathIntegration.RCFile
	if runtime.GOOS == "windows" {
		ref = plan.PathIntegration.Scope
	}

	removed, err := pathenv.Remove(plan.InstallDir, ref)
	if err != nil {
		fmt.Printf("⚠  Could not remove PATH entry: %v\n", err)
		return
	}
	if removed {
		fmt.Println("✓ Removed PATH entry")
	}
}

// runUninstall handles the `meldoc-install uninstall` subcommand
func runUninstall(args []string) error {
	flags, err := parseUninstallFlags(args)
	if err != nil {
		return err
	}
	if flags.help {
		printUninstallHelp()
		return nil
	}

	tag, err := platform.Classify(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}

	sdir, err := stateDir(tag)
	if err != nil {
		return fmt.Errorf("determine state directory: %w", err)
	}

	plan, err := buildRemovalPlan(tag, sdir)
	if err != nil {
		return err
	}

	// Nothing to remove is a clean exit, not a failure: the desired end
	// state (no installed meldoc) already holds.
	if plan.BinaryPath == "" && !plan.StateExists {
		fmt.Println("meldoc is not installed")
		return nil
	}

	showRemovalPlan(plan, flags)

	if flags.dryRun {
		fmt.Println("\nDry run: nothing was removed")
		return nil
	}

	if !flags.force && !confirmRemoval() {
		fmt.Println("Aborted")
		return nil
	}

	if plan.BinaryPath != "" {
		if err := os.Remove(plan.BinaryPath); err != nil && !os.IsNotExist(err) {
			if os.IsPermission(err) {
				return fmt.Errorf("remove %s: permission denied\nRe-run with elevated privileges (e.g. sudo) to remove it", plan.BinaryPath)
			}
			return fmt.Errorf("remove binary: %w", err)
		}
		fmt.Printf("✓ Removed %s\n", plan.BinaryPath)
	}

	if plan.PathIntegration.Method != "" && plan.PathIntegration.Method != "none" {
		removePathEntry(plan)
	}

	if plan.StateExists && !flags.keepState {
		if err := os.RemoveAll(plan.StateDir); err != nil {
			return fmt.Errorf("remove state directory: %w", err)
		}
		fmt.Printf("✓ Removed %s\n", plan.StateDir)
	}

	fmt.Println("\nmeldoc has been uninstalled")
	return nil
}
