package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"golang.org/x/term"

	"github.com/neotoxic-off/glacier/internal/crypto"
)

const keyFile = "encryption.key"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "generate":
		generateCmd(args)
	case "show":
		showCmd(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("glacier-keygen - Glacier encryption key management")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  glacier-keygen generate [flags]  - Generate a new encryption key")
	fmt.Println("  glacier-keygen show [flags]      - Print a key's hex encoding")
	fmt.Println()
	fmt.Println("Run 'glacier-keygen <command> -h' for command-specific help")
}

func generateCmd(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	outputDir := fs.String("output-dir", crypto.GetDefaultKeystorePath(), "Key storage directory")
	noPassphrase := fs.Bool("no-passphrase", false, "Generate without passphrase protection")
	force := fs.Bool("force", false, "Overwrite an existing key")
	fs.Parse(args)

	if err := os.MkdirAll(*outputDir, 0700); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	keyPath := filepath.Join(*outputDir, keyFile)

	if !*force {
		if _, err := os.Stat(keyPath); !os.IsNotExist(err) {
			fmt.Println("Encryption key already exists.")
			fmt.Print("Overwrite existing key? [y/N]: ")
			var response string
			fmt.Scanln(&response)
			if response != "y" && response != "Y" {
				fmt.Println("Aborted.")
				return
			}
		}
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate key: %v\n", err)
		os.Exit(1)
	}

	var passphrase string
	if !*noPassphrase {
		fmt.Print("Enter passphrase (leave empty for no encryption): ")
		passphraseBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read passphrase: %v\n", err)
			os.Exit(1)
		}
		passphrase = string(passphraseBytes)

		if passphrase != "" {
			fmt.Print("Confirm passphrase: ")
			confirmBytes, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to read passphrase: %v\n", err)
				os.Exit(1)
			}
			if passphrase != string(confirmBytes) {
				fmt.Fprintln(os.Stderr, "Passphrases do not match.")
				os.Exit(1)
			}
		}
	}

	if err := crypto.SaveKey(key, keyPath, passphrase); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save key: %v\n", err)
		os.Exit(1)
	}
	if passphrase == "" {
		keyPath += ".insecure"
	}

	fmt.Println("Encryption key generated successfully!")
	fmt.Println()
	fmt.Println("ENCRYPTION_KEY (hex, for the glacier environment):")
	fmt.Printf("  %s\n", hex.EncodeToString(key))
	fmt.Println()
	fmt.Println("Key stored in:")
	fmt.Printf("  %s\n", keyPath)

	if passphrase == "" {
		fmt.Println()
		fmt.Println("WARNING: key stored WITHOUT encryption (insecure)")
	}
}

func showCmd(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	keysDir := fs.String("keys-dir", crypto.GetDefaultKeystorePath(), "Key storage directory")
	insecure := fs.Bool("insecure", false, "Read the unencrypted .insecure key file")
	fs.Parse(args)

	keyPath := filepath.Join(*keysDir, keyFile)
	var passphrase string

	if *insecure {
		keyPath += ".insecure"
	} else {
		fmt.Print("Enter passphrase: ")
		passphraseBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read passphrase: %v\n", err)
			os.Exit(1)
		}
		passphrase = string(passphraseBytes)
	}

	key, err := crypto.LoadKey(keyPath, passphrase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("ENCRYPTION_KEY (hex):")
	fmt.Printf("  %s\n", hex.EncodeToString(key))
}
