package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"holdem-server/internal/config"
	"holdem-server/internal/util"
	"holdem-server/pkg/db"
	"holdem-server/pkg/table"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

var command = flag.String("c", "user", "specifies the command (user, credit, admin)")
var userID = flag.Int64("user", 0, "the user ID for credit and admin")
var amount = flag.Int("amount", 0, "the amount to credit (credit)")
var revoke = flag.Bool("revoke", false, "remove admin instead of granting it (admin)")

func main() {
	flag.Parse()

	ctx := context.Background()
	store := table.NewPostgresStore(db.Instance())

	switch *command {
	case "user":
		createUser(ctx, store)
	case "credit":
		requireUser()
		if *amount == 0 {
			logrus.Fatal("-amount is required")
		}

		if err := store.CreditBank(ctx, *userID, *amount); err != nil {
			logrus.WithError(err).Fatal("could not credit the bank")
		}

		u, err := store.GetUserByID(ctx, *userID)
		if err != nil {
			logrus.WithError(err).Fatal("could not load user")
		}

		fmt.Printf("User %s now has %d\n", u.Username, u.Bank)
	case "admin":
		requireUser()
		if err := store.SetIsAdmin(ctx, *userID, !*revoke); err != nil {
			logrus.WithError(err).Fatal("could not update user")
		}

		fmt.Printf("User %d updated\n", *userID)
	default:
		logrus.Fatalf("unknown command: %s", *command)
	}
}

func requireUser() {
	if *userID <= 0 {
		logrus.Fatal("-user is required")
	}
}

func createUser(ctx context.Context, store table.Store) {
	username := getUsername()
	password := getPassword()
	if password == "" {
		os.Exit(1)
	}

	u, err := store.CreateUser(ctx, username, password, config.Instance().StartingBank)
	if err != nil {
		logrus.WithError(err).Fatal("could not create user")
	}

	fmt.Printf("Created user %s (%d)\n", u.Username, u.ID)

	promote, err := getInput("Make admin (Y/n)")
	if err != nil {
		logrus.WithError(err).Fatal("could not get answer")
	}

	if promote == "" || strings.ToLower(promote)[0] == 'y' {
		if err := store.SetIsAdmin(ctx, u.ID, true); err != nil {
			logrus.WithError(err).Fatal("could not promote user to admin")
		}

		fmt.Printf("User promoted to admin\n")
	}
}

func getUsername() string {
	def := util.RandomUsername()
	name, err := getInput(fmt.Sprintf("Username [%s]", def))
	if err != nil {
		logrus.WithError(err).Fatal("could not read username")
	}

	if name == "" {
		return def
	}

	return name
}

func getPassword() string {
	for {
		fmt.Print("Password: ")
		pwBytes, err := term.ReadPassword(0)
		if err != nil {
			continue
		}
		fmt.Println("")

		password := strings.TrimRight(string(pwBytes), "\r\n")

		if password == "" {
			return ""
		}

		if len(password) < 6 {
			_, _ = fmt.Fprintf(os.Stderr, "password must be 6 or more characters\n")
			continue
		}

		return password
	}
}

func getInput(question string) (string, error) {
	fmt.Printf("%s: ", question)
	reader := bufio.NewReader(os.Stdin)
	str, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}

	return strings.TrimRight(str, "\r\n"), nil
}
