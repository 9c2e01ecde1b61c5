// pool-cli is a command-line admin and inspection tool for the
// shielded pool.
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("pool-cli v%s\n", version)

	case "help":
		printUsage()

	case "status":
		cmdStatus()

	case "tree":
		if len(os.Args) < 3 {
			fmt.Println("Usage: pool-cli tree <subcommand>")
			fmt.Println("Subcommands: status, root")
			os.Exit(1)
		}
		cmdTree(os.Args[2:])

	case "config":
		if len(os.Args) < 3 {
			fmt.Println("Usage: pool-cli config <subcommand>")
			fmt.Println("Subcommands: show, set-deposit-limit <amount>")
			os.Exit(1)
		}
		cmdConfig(os.Args[2:])

	case "transact":
		if len(os.Args) < 3 {
			fmt.Println("Usage: pool-cli transact <subcommand>")
			fmt.Println("Subcommands: submit, status <nullifier>")
			os.Exit(1)
		}
		cmdTransact(os.Args[2:])

	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("pool-cli - admin and inspection tool for the shielded pool")
	fmt.Println()
	fmt.Println("Usage: pool-cli <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  version     Show version information")
	fmt.Println("  help        Show this help message")
	fmt.Println("  status      Show node status")
	fmt.Println("  tree        Merkle tree operations (status, root)")
	fmt.Println("  config      Global config operations (show, set-deposit-limit)")
	fmt.Println("  transact    Submit or inspect transact calls (submit, status)")
	fmt.Println()
	fmt.Println("Run 'pool-cli tree', 'pool-cli config' or 'pool-cli transact' without a subcommand to list its subcommands.")
}

func cmdStatus() {
	fmt.Println("Connecting to shielded pool node...")
	// TODO: connect to the daemon's RPC and fetch live status; the
	// daemon does not yet expose one outside of direct package use.
	fmt.Println("Node Status:")
	fmt.Println("  Version:", version)
	fmt.Println("  Network: local")
}

func cmdTree(args []string) {
	if len(args) == 0 {
		return
	}

	switch args[0] {
	case "status":
		fmt.Println("Tree Status:")
		fmt.Println("  (connect to a running daemon to inspect live state)")

	case "root":
		fmt.Println("Current root: (connect to a running daemon to inspect live state)")

	default:
		fmt.Printf("Unknown tree command: %s\n", args[0])
	}
}

func cmdConfig(args []string) {
	if len(args) == 0 {
		return
	}

	switch args[0] {
	case "show":
		fmt.Println("Global Config:")
		fmt.Println("  (connect to a running daemon to inspect live state)")

	case "set-deposit-limit":
		if len(args) < 2 {
			fmt.Println("Usage: pool-cli config set-deposit-limit <amount>")
			return
		}
		fmt.Printf("Requesting deposit limit change to %s (requires authority signature)\n", args[1])

	default:
		fmt.Printf("Unknown config command: %s\n", args[0])
	}
}

func cmdTransact(args []string) {
	if len(args) == 0 {
		return
	}

	switch args[0] {
	case "submit":
		fmt.Println("Transact submission is not implemented by this CLI.")
		fmt.Println("Submit proofs via the client-side prover (out of this core's scope).")

	case "status":
		if len(args) < 2 {
			fmt.Println("Usage: pool-cli transact status <nullifier>")
			return
		}
		fmt.Printf("Nullifier %s: unknown (connect to a running daemon to inspect live state)\n", args[1])

	default:
		fmt.Printf("Unknown transact command: %s\n", args[0])
	}
}
