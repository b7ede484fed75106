package main

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashPassword prints the bcrypt hash to configure as the back-office admin
// credential (adminPasswordHash).
func (cli *commandLine) hashPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cli.out, "%s\n", hash)
	return err
}
