package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	goversion "github.com/hashicorp/go-version"

	"github.com/meldoc-io/meldoc-cli/internal/binary"
	"github.com/meldoc-io/meldoc-cli/internal/lockfile"
	"github.com/meldoc-io/meldoc-cli/internal/pathenv"
	"github.com/meldoc-io/meldoc-cli/internal/platform"
	"github.com/meldoc-io/meldoc-cli/internal/receipt"
	"github.com/meldoc-io/meldoc-cli/internal/release"
	"github.com/meldoc-io/meldoc-cli/internal/scratch"
)

// InstallFlags holds command-line flags for install
type InstallFlags struct {
	global     bool
	force      bool
	quiet      bool
	noPathHint bool
	setupPath  bool
	help       bool
	dir        string
	version    string
	source     string
}

// parseInstallFlags parses command-line flags for the install command
func parseInstallFlags(args []string) (*InstallFlags, error) {
	flags := &InstallFlags{source: "static"}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--global", "-g":
			flags.global = true
		case "--force", "-f":
			flags.force = true
		case "--quiet", "-q":
			flags.quiet = true
		case "--no-path-hint", "--no-path-setup":
			flags.noPathHint = true
		case "--setup-path":
			flags.setupPath = true
		case "--help", "-h":
			flags.help = true
		case "--dir":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--dir requires a path argument")
			}
			i++
			flags.dir = args[i]
		case "--version":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--version requires a version argument")
			}
			i++
			flags.version = args[i]
		case "--source":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--source requires an argument (static or github)")
			}
			i++
			flags.source = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown flag: %s", arg)
			}
			return nil, fmt.Errorf("unexpected argument: %s", arg)
		}
	}

	if flags.source != "static" && flags.source != "github" {
		return nil, fmt.Errorf("invalid --source: %s (expected static or github)", flags.source)
	}

	return flags, nil
}

// printInstallHelp prints help text for the install command
func printInstallHelp() {
	fmt.Println("Usage: meldoc-install install [OPTIONS]")
	fmt.Println()
	fmt.Println("Download and install the meldoc CLI")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --global, -g       Install to the system-wide location (/usr/local/bin)")
	fmt.Println("  --dir <path>       Override the destination directory")
	fmt.Println("  --version <v>      Install an explicit version instead of the latest")
	fmt.Println("  --source <s>       Version source: static (default) or github")
	fmt.Println("  --force, -f        Overwrite an existing installation")
	fmt.Println("  --setup-path       Add the install directory to PATH automatically")
	fmt.Println("  --no-path-hint     Skip PATH setup and hints entirely")
	fmt.Println("  --quiet, -q        Suppress non-essential output")
	fmt.Println("  --help, -h         Show this help message")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  MELDOC_INSTALL_DIR Override the destination directory")
	fmt.Println("  MELDOC_KEYRING     GPG public keyring for checksum manifest signatures")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  meldoc-install install                     # Latest version to ~/.local/bin")
	fmt.Println("  meldoc-install install --global            # Latest version to /usr/local/bin")
	fmt.Println("  meldoc-install install --version v1.2.3    # Pin an explicit version")
}

// resolveVersion returns the version to install: the explicit flag when
// given (no network), otherwise a remote lookup via the selected source.
func resolveVersion(ctx context.Context, flags *InstallFlags) (release.Version, error) {
	if flags.version != "" {
		return release.Parse(flags.version)
	}

	var resolver release.Resolver
	if flags.source == "github" {
		resolver = release.NewGitHubResolver(releaseOwner, releaseRepo)
	} else {
		resolver = release.NewStaticResolver(defaultLatestURL)
	}
	return resolver.Resolve(ctx)
}

// reportAlreadyInstalled explains the no-op, comparing the requested version
// against the receipt's recorded one when available.
func reportAlreadyInstalled(path string, requested release.Version, sdir string) {
	fmt.Printf("✓ meldoc is already installed at %s\n", path)

	if rec, err := receipt.Load(sdir); err == nil && rec.Version != "" {
		installed, errI := goversion.NewVersion(rec.Version)
		want, errW := goversion.NewVersion(requested.Numeric)
		switch {
		case errI != nil || errW != nil:
			fmt.Printf("  Installed: %s, requested: %s\n", rec.Tag, requested.Tag)
		case installed.LessThan(want):
			fmt.Printf("  Installed %s is older than requested %s\n", rec.Tag, requested.Tag)
		case installed.GreaterThan(want):
			fmt.Printf("  Installed %s is newer than requested %s\n", rec.Tag, requested.Tag)
		default:
			fmt.Printf("  Installed version matches requested %s\n", requested.Tag)
		}
	}

	fmt.Println("  Re-run with --force to overwrite")
}

// setupPATH performs or suggests PATH integration for destDir. Failures are
// never fatal: the binary is already installed, so everything degrades to a
// printed manual instruction.
func setupPATH(flags *InstallFlags, tag platform.Tag, destDir string, rec *receipt.Receipt) {
	if flags.noPathHint {
		return
	}

	if pathenv.OnPath(destDir, os.Getenv("PATH"), tag.IsWindows()) {
		if !flags.quiet {
			fmt.Printf("✓ %s is already on your PATH\n", destDir)
		}
		return
	}

	// Automatic mutation is the default on Windows (matching the platform's
	// installer conventions) and opt-in elsewhere.
	if tag.IsWindows() || flags.setupPath {
		result, err := pathenv.Integrate(destDir, flags.global)
		if err != nil {
			fmt.Printf("⚠  PATH setup failed: %v\n", err)
			printManualPathHint(tag, destDir)
			return
		}
		switch {
		case result.AlreadyPresent:
			fmt.Printf("✓ %s is already configured on your PATH\n", destDir)
		case result.Method == "rcfile":
			fmt.Printf("✓ Added %s to PATH in %s\n", destDir, result.RCFile)
			fmt.Println("  Restart your shell (or source the file) to pick it up")
		case result.Method == "registry":
			fmt.Printf("✓ Added %s to the %s PATH\n", destDir, result.Scope)
			fmt.Println("  Open a new terminal to pick it up")
		}
		rec.PathIntegration = receipt.PathIntegration{
			Method: result.Method,
			RCFile: result.RCFile,
			Scope:  result.Scope,
		}
		return
	}

	printManualPathHint(tag, destDir)
}

func printManualPathHint(tag platform.Tag, destDir string) {
	fmt.Printf("⚠  %s is not on your PATH\n", destDir)
	if tag.IsWindows() {
		fmt.Println("  Add it via System Properties > Environment Variables, or run:")
		fmt.Printf("    setx PATH \"%%PATH%%;%s\"\n", destDir)
		return
	}
	fmt.Println("  Add this line to your shell rc file:")
	fmt.Printf("    %s\n", pathenv.ManualInstruction(destDir, pathenv.CurrentShell()))
	fmt.Println("  Or re-run with --setup-path to have it added for you")
}

// runInstall handles the `meldoc-install install` subcommand
func runInstall(args []string) error {
	flags, err := parseInstallFlags(args)
	if err != nil {
		return err
	}
	if flags.help {
		printInstallHelp()
		return nil
	}

	// Interrupts cancel in-flight downloads; deferred cleanup still runs.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Step 1: Detect platform
	detector := platform.NewDetector()
	info, err := detector.Detect(ctx)
	if err != nil {
		return err
	}
	if !flags.quiet {
		if distro := info.GetDistro(); distro != nil {
			fmt.Printf("✓ Detected %s (%s family, %s)\n", distro.ID, distro.Family, info.Arch)
		} else {
			fmt.Printf("✓ Detected %s-%s\n", info.OS, info.Arch)
		}
	}

	// Guard against a second installer run racing on the same state.
	sdir, err := stateDir(info.Tag)
	if err != nil {
		return fmt.Errorf("determine state directory: %w", err)
	}
	lock, err := lockfile.Acquire(sdir)
	if err != nil {
		return err
	}
	defer lock.Release()

	// Step 2: Resolve version
	version, err := resolveVersion(ctx, flags)
	if err != nil {
		return err
	}
	if !flags.quiet {
		fmt.Printf("✓ Resolved version %s\n", version.Tag)
	}

	destDir := flags.dir
	if destDir == "" {
		destDir, err = defaultInstallDir(info.Tag, flags.global)
		if err != nil {
			return fmt.Errorf("determine install directory: %w", err)
		}
	}
	destName := toolName + info.ExeSuffix()
	artifact := release.BuildArtifact(release.DefaultDownloadBase, toolName, version, info.Tag)

	// Step 3-5: Download, verify, extract, install
	sc, err := scratch.New(toolName)
	if err != nil {
		return err
	}
	defer sc.Cleanup()

	if !flags.quiet {
		fmt.Printf("Downloading %s...\n", artifact.Filename)
	}

	mgr := binary.NewManager(sc.Path())
	result, err := mgr.Install(ctx, binary.InstallOptions{
		Artifact:    artifact,
		Version:     version,
		Tag:         info.Tag,
		DestDir:     destDir,
		DestName:    destName,
		Force:       flags.force,
		Elevate:     !info.IsWindows(),
		KeyringPath: os.Getenv("MELDOC_KEYRING"),
	})
	if err != nil {
		if errors.Is(err, binary.ErrDownloadFailed) && ctx.Err() == nil {
			return fmt.Errorf("%w\nNo automatic retry is attempted; re-run the installer to try again", err)
		}
		return err
	}

	if result.AlreadyInstalled {
		reportAlreadyInstalled(result.Path, version, sdir)
		return nil
	}

	for _, warning := range result.Warnings {
		fmt.Printf("⚠  %s\n", warning)
	}
	if !flags.quiet && result.Verified != binary.VerificationNone {
		fmt.Printf("✓ Verified archive (%s)\n", result.Verified)
	}
	if result.Elevated {
		fmt.Println("✓ Installed with elevated privileges")
	}
	fmt.Printf("✓ Installed meldoc %s to %s\n", version.Tag, result.Path)

	// Step 6: PATH integration, recorded in the receipt
	rec := receipt.New(toolName)
	rec.Version = version.Numeric
	rec.Tag = version.Tag
	rec.Platform = info.Tag.String()
	rec.InstallDir = destDir
	rec.BinaryPath = result.Path
	rec.Verified = result.Verified.String()

	setupPATH(flags, info.Tag, destDir, rec)

	if err := rec.Save(sdir); err != nil {
		// The install itself succeeded; a receipt failure only degrades
		// the uninstaller to its probing fallback.
		fmt.Printf("⚠  Could not record install receipt: %v\n", err)
	}

	if !flags.quiet {
		fmt.Println()
		fmt.Printf("Run '%s --help' to get started.\n", toolName)
	}

	return nil
}
