package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rovshanmuradov/solana-wallet-tracker/internal/config"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/wallet"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

func keystoreCommands() *cli.Command {
	return &cli.Command{
		Name:  "keystore",
		Usage: "Manage the encrypted wallet keystore",
		Subcommands: []*cli.Command{
			keystoreImportCommand(),
			keystoreAddressCommand(),
		},
	}
}

func keystoreImportCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Encrypt a base58 private key into a new keystore file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Usage: "Keystore path (defaults to keystore_path from config)",
			},
		},
		Action: func(c *cli.Context) error {
			path, err := keystorePath(c, "out")
			if err != nil {
				return err
			}

			secret, err := readHidden("Private key (base58): ")
			if err != nil {
				return err
			}
			w, err := wallet.NewWallet(strings.TrimSpace(string(secret)))
			clear(secret)
			if err != nil {
				return fmt.Errorf("invalid private key: %w", err)
			}
			defer w.Wipe()

			pass, err := readHidden("Passphrase: ")
			if err != nil {
				return err
			}
			defer clear(pass)
			confirm, err := readHidden("Repeat passphrase: ")
			if err != nil {
				return err
			}
			defer clear(confirm)
			if !bytes.Equal(pass, confirm) {
				return errors.New("passphrases do not match")
			}

			if err := wallet.NewKeystore(path).Save(w, pass); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Saved %s to %s\n", w.PublicKey, path)
			return nil
		},
	}
}

func keystoreAddressCommand() *cli.Command {
	return &cli.Command{
		Name:  "address",
		Usage: "Print the wallet address stored in a keystore",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "in",
				Usage: "Keystore path (defaults to keystore_path from config)",
			},
		},
		Action: func(c *cli.Context) error {
			path, err := keystorePath(c, "in")
			if err != nil {
				return err
			}
			addr, err := wallet.NewKeystore(path).Address()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, addr)
			return nil
		},
	}
}

func keystorePath(c *cli.Context, flag string) (string, error) {
	if p := c.String(flag); p != "" {
		return p, nil
	}
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg.KeystorePath, nil
}

// readHidden reads one line from the terminal without echo.
func readHidden(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal: run the command interactively")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(raw) == 0 {
		clear(raw)
		return nil, errors.New("input cannot be empty")
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	clear(raw)
	return out, nil
}
