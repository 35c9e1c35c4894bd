// store-key: saves a deployer private key in the OS keychain and prints the
// reference to use as key_ref (or TOKENDEPLOY_KEY_REF).
//
//	go run ./scripts/store-key deployer
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Mohsinsiddi/tokendeploy/internal/config"
	"github.com/Mohsinsiddi/tokendeploy/internal/ui"
	"github.com/Mohsinsiddi/tokendeploy/internal/wallet"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: store-key <name>")
		os.Exit(2)
	}
	if err := store(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, ui.Err(err.Error()))
		os.Exit(1)
	}
}

func store(name string) error {
	key, err := readKey()
	if err != nil {
		return err
	}
	signer, err := wallet.NewSignerFromHex(key)
	if err != nil {
		return err
	}
	ref, err := wallet.DefaultKeystore().Store(name, key)
	if err != nil {
		return err
	}
	fmt.Println(ui.Success(fmt.Sprintf("Stored key for %s", ui.Addr(signer.Address().Hex()))))
	fmt.Printf("key_ref: %s\n", ref)
	fmt.Println(ui.Meta("set key_ref in tokendeploy.json or " + config.EnvPrefix + "_KEY_REF"))
	return nil
}

// readKey reads the key without echo on a terminal, or one line from piped stdin.
func readKey() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Private key (hex): ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading key: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading key: %w", err)
	}
	return strings.TrimSpace(line), nil
}
