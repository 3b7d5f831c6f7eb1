// Package main is the entry point for poshell.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/arvalan/poshell/internal/config"
	"github.com/arvalan/poshell/internal/shell"
	"github.com/arvalan/poshell/internal/shellenv"
	"github.com/joho/godotenv"
)

const version = "0.1.0"

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("poshell version %s\n", version)
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "--help" || os.Args[1] == "-h") {
		printUsage()
		os.Exit(0)
	}

	rcFile := shellenv.Home() + "/.poshellrc.env"
	_ = godotenv.Load(rcFile) // optional; absence is not an error

	sh, err := shell.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "poshell: %v\n", err)
		os.Exit(1)
	}

	os.Exit(sh.Run(context.Background()))
}

func printUsage() {
	fmt.Println("poshell - an interactive command shell")
	fmt.Println("")
	fmt.Println("Usage: poshell [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -h, --help     Show this help message")
	fmt.Println("  -v, --version  Show version information")
	fmt.Println("")
	fmt.Printf("Configuration is loaded from %s\n", config.ConfigPath())
}
