package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hdoo42/mock-veeam-server/internal/bootstrap"
	"github.com/hdoo42/mock-veeam-server/internal/config"
	"github.com/hdoo42/mock-veeam-server/internal/version"
)

func main() {
	// Define flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	host := flag.String("host", "", "Listen host (overrides MOCK_HOST)")
	port := flag.Int("port", 0, "Listen port (overrides MOCK_PORT)")
	tokenLifetime := flag.Int(
		"token-lifetime",
		0,
		"Access token lifetime in seconds (overrides MOCK_TOKEN_LIFETIME)",
	)
	logFile := flag.String("log-file", "", "Request log file path (overrides MOCK_LOG_FILE)")
	flag.Usage = printUsage
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		version.PrintVersion()
		os.Exit(0)
	}

	// Load configuration; flags override environment
	cfg := config.Load()
	if *host != "" {
		cfg.Host = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *tokenLifetime != 0 {
		cfg.TokenLifetime = time.Duration(*tokenLifetime) * time.Second
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}

	if err := bootstrap.Run(cfg); err != nil {
		log.Fatalf("Failed to start mock server: %v", err)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s [OPTIONS]\n\n", os.Args[0])
	fmt.Println("Mock Veeam REST API server for exporter integration tests")
	fmt.Println("\nOptions:")
	fmt.Println("  --host HOST              Listen host (default 127.0.0.1)")
	fmt.Println("  --port PORT              Listen port (default 9999)")
	fmt.Println("  --token-lifetime SECS    Access token lifetime (default 20)")
	fmt.Println("  --log-file PATH          Request log path (default /tmp/mock_veeam_server.log)")
	fmt.Println("  -v, --version            Show version information")
	fmt.Println("  -h, --help               Show this help message")
}
