package main

import (
	"fmt"
	"os"
)

// Version will be set at build time via -ldflags
var Version = "v0.0.1-dev"

func main() {
	// Handle subcommands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version":
			fmt.Printf("meldoc-install %s\n", Version)
			return
		case "install":
			if err := runInstall(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "uninstall":
			if err := runUninstall(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "--help", "-h", "help":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n", os.Args[1])
			printUsage()
			os.Exit(1)
		}
	}

	printUsage()
}

func printUsage() {
	fmt.Println("meldoc-install - installer for the meldoc CLI")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  meldoc-install install [options]    Download and install the meldoc CLI")
	fmt.Println("  meldoc-install uninstall [options]  Remove an installed meldoc CLI")
	fmt.Println("  meldoc-install --version            Show installer version")
	fmt.Println()
	fmt.Println("Run 'meldoc-install install --help' for installation options.")
}
