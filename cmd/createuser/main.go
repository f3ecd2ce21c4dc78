// Command createuser bootstraps the fixed set of staff accounts with the
// shared default password, lists existing accounts, or force-resets every
// password back to the default. It only talks to the credential store.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/g3company/healthclinic/internal/db"
	"github.com/g3company/healthclinic/internal/services"
)

const defaultPassword = "g3company!@#"

var defaultAccounts = []services.CreateUserInput{
	{Username: "admin", Email: "admin@healthclinic.local", FullName: "System Administrator", Role: "admin", Phone: "204-555-0100"},
	{Username: "nurse.maria", Email: "maria@healthclinic.local", FullName: "Maria Gonzales", Role: "nurse", Phone: "204-555-0103"},
	{Username: "admin.billing", Email: "billing@healthclinic.local", FullName: "Billing Administrator", Role: "admin", Phone: "204-555-0104"},
	{Username: "nurse.emily", Email: "emily@healthclinic.local", FullName: "Emily Rodriguez", Role: "nurse", Phone: "204-555-0106"},
}

var (
	listFlag  = flag.Bool("list", false, "List all staff accounts and exit")
	resetFlag = flag.Bool("reset-passwords", false, "Reset every password to the default and exit")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	conn, err := db.ConnectAndMigrate()
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	creds := services.NewCredentialStore(conn)

	switch {
	case *listFlag:
		if err := listAccounts(creds); err != nil {
			log.Fatal().Err(err).Msg("listing accounts failed")
		}
	case *resetFlag:
		if err := resetPasswords(creds); err != nil {
			log.Fatal().Err(err).Msg("resetting passwords failed")
		}
	default:
		createDefaults(creds)
		if err := listAccounts(creds); err != nil {
			log.Fatal().Err(err).Msg("listing accounts failed")
		}
	}
}

func createDefaults(creds *services.CredentialStore) {
	created, skipped := 0, 0
	for _, in := range defaultAccounts {
		in.Password = defaultPassword
		if _, err := creds.CreateUser(in); err != nil {
			if errors.Is(err, services.ErrDuplicateIdentifier) {
				fmt.Printf("user %q already exists, skipping\n", in.Username)
				skipped++
				continue
			}
			log.Fatal().Err(err).Str("username", in.Username).Msg("creating account failed")
		}
		fmt.Printf("created %-20s | %-10s | %s\n", in.Username, in.Role, in.FullName)
		created++
	}
	fmt.Printf("\ncreated: %d, skipped: %d\n\n", created, skipped)
}

func listAccounts(creds *services.CredentialStore) error {
	users, err := creds.ListUsers()
	if err != nil {
		return err
	}
	w := os.Stdout
	fmt.Fprintf(w, "%-20s %-12s %-30s %s\n", "Username", "Role", "Full Name", "Status")
	for _, u := range users {
		status := "Active"
		if !u.IsActive {
			status = "Inactive"
		}
		fmt.Fprintf(w, "%-20s %-12s %-30s %s\n", u.Username, u.Role, u.FullName, status)
	}
	fmt.Fprintf(w, "total: %d\n", len(users))
	return nil
}

func resetPasswords(creds *services.CredentialStore) error {
	users, err := creds.ListUsers()
	if err != nil {
		return err
	}
	for _, u := range users {
		if err := creds.SetPassword(u.ID, defaultPassword); err != nil {
			return err
		}
		fmt.Printf("reset password for %s\n", u.Username)
	}
	fmt.Printf("all %d passwords reset\n", len(users))
	return nil
}
