package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/idlock/idlock/pkg/identity"
)

var version = "dev"

func main() {
	var (
		helpFlag    bool
		tuiFlag     bool
		versionFlag bool
	)
	flags := flag.NewFlagSet("idlock", flag.ContinueOnError)
	flags.BoolVarP(&helpFlag, "help", "h", false, "Prints this usage information.")
	flags.BoolVarP(&tuiFlag, "tui", "t", false, "Prompt for the rescue code with a full-screen form instead of a plain no-echo prompt.")
	flags.BoolVar(&versionFlag, "version", false, "Prints the idlock version.")
	flags.Usage = func() {
		fmt.Printf(`
idlock manages an identity file whose master secret, the identity unlock key, is protected by a rescue code.
A rescue code is 24 digits, generated fresh every time the unlock key changes. It is shown exactly once and never stored: write it down.
Losing the current rescue code means the unlock key, and everything derived from it, is unrecoverable.

USAGE:  idlock COMMAND FILE

COMMANDS:
    new       Create a new identity file and print its first rescue code.
    rotate    Replace the unlock key. Requires the current rescue code, prints the new one.
    recover   Recover the identity's working keys with the rescue code.
    mnemonic  Print the unlock key as a 24-word paper-backup phrase. Requires the rescue code.

FLAGS:
%s
SECURITY:
    Entering a wrong rescue code is reported and nothing else happens; the identity file is never modified by a failed attempt.
Key derivation is deliberately slow (memory-hard, several passes), so expect each rescue-code check to take a few seconds.
`, flags.FlagUsages())
	}
	if len(os.Args) == 1 {
		flags.Usage()
		return
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		flags.Usage()
		fatal("Error parsing flags: %v", err)
	}
	if helpFlag {
		flags.Usage()
		return
	}
	if versionFlag {
		echo("idlock %s", version)
		return
	}
	if flags.NArg() != 2 {
		flags.Usage()
		fatal("Expected COMMAND and FILE arguments")
	}

	var (
		command = flags.Arg(0)
		file    = flags.Arg(1)
		err     error
	)
	switch command {
	case "new":
		err = newIdentity(file)
	case "rotate":
		err = rotateIdentity(file, tuiFlag)
	case "recover":
		err = recoverIdentity(file, tuiFlag)
	case "mnemonic":
		err = printMnemonic(file, tuiFlag)
	default:
		flags.Usage()
		fatal("Unknown command %q", command)
	}
	if err != nil {
		fatal("%v", err)
	}
}

func newIdentity(file string) error {
	id, keys, code, err := identity.New()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(file, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()
	if err := id.Save(out); err != nil {
		return err
	}
	echo("Identity created: %s", file)
	echo("Signing public key: %s", hex.EncodeToString(keys.SigningPublicKey))
	showRescueCode(code)
	return nil
}

func rotateIdentity(file string, tui bool) error {
	id, err := loadIdentity(file)
	if err != nil {
		return err
	}
	current, err := readRescueCode("Current rescue code: ", tui)
	if err != nil {
		return err
	}
	code, keys, err := id.Rotate(current)
	if err != nil {
		return err
	}
	out, err := os.CreateTemp(filepath.Dir(file), ".idlock-*")
	if err != nil {
		return err
	}
	if err := id.Save(out); err != nil {
		_ = out.Close()
		_ = os.Remove(out.Name())
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(out.Name())
		return err
	}
	if err := os.Rename(out.Name(), file); err != nil {
		_ = os.Remove(out.Name())
		return err
	}
	echo("Unlock key rotated. The old rescue code no longer works.")
	echo("Signing public key: %s", hex.EncodeToString(keys.SigningPublicKey))
	showRescueCode(code)
	return nil
}

func recoverIdentity(file string, tui bool) error {
	id, err := loadIdentity(file)
	if err != nil {
		return err
	}
	code, err := readRescueCode("Rescue code: ", tui)
	if err != nil {
		return err
	}
	keys, err := id.Recover(code)
	if err != nil {
		return err
	}
	echo("Rescue code verified.")
	echo("Signing public key: %s", hex.EncodeToString(keys.SigningPublicKey))
	return nil
}

func printMnemonic(file string, tui bool) error {
	id, err := loadIdentity(file)
	if err != nil {
		return err
	}
	code, err := readRescueCode("Rescue code: ", tui)
	if err != nil {
		return err
	}
	iuk, err := id.Unlock.RecoverUnlockKey(code)
	if err != nil {
		return err
	}
	mnemonic, err := identity.ExportMnemonic(iuk)
	if err != nil {
		return err
	}
	echo("Paper backup phrase (equivalent to the unlock key, store it safely):")
	echo("%s", mnemonic)
	return nil
}

func loadIdentity(file string) (*identity.Identity, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return identity.Load(data)
}

func showRescueCode(code string) {
	echo("")
	echo("Rescue code (shown once, never stored):")
	echo("    %s", code)
	echo("")
	echo("Write it down now. Without it the unlock key cannot be recovered.")
}

func fatal(msg string, args ...any) {
	echo(msg, args...)
	os.Exit(1)
}

func echo(msg string, args ...any) {
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Printf(msg, args...)
}
