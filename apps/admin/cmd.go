package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db  *sql.DB
	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run database migrations (up, down, status, ...)")
	fmt.Println("  hashpassword - hash the back-office admin password. The password will be prompted next.")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "hashpassword":
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			cli.printUsage()
			return errHelp
		}
		return cli.hashPassword(string(pwd))
	default:
		cli.printUsage()
		return errHelp
	}
}
