// fintrack-admin performs operator tasks directly against the database:
// bootstrapping the first admin, listing accounts and pruning the
// revocation ledger.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/pflag"

	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/repos"
	"fintrack/internal/services"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "fintrack-admin: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	global := pflag.NewFlagSet("fintrack-admin", pflag.ContinueOnError)
	global.SetInterspersed(false)
	envFile := global.String("env-file", ".env", "dotenv file loaded before reading the environment")
	global.Usage = func() { printUsage(global) }
	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	rest := global.Args()
	if len(rest) == 0 {
		printUsage(global)
		return errors.New("missing command")
	}

	config.LoadEnvFile(*envFile)
	cfg := config.Load()
	applog.Setup(io.Discard, "error")

	db, err := repos.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	return dispatch(context.Background(), db, rest[0], rest[1:], stdout)
}

func dispatch(ctx context.Context, db *sqlx.DB, cmd string, args []string, stdout io.Writer) error {
	users := repos.NewUserRepo(db)
	switch cmd {
	case "set-role":
		return setRole(ctx, services.NewAdminService(users, nil), args, stdout)
	case "list-users":
		return listUsers(ctx, users, stdout)
	case "prune-revoked":
		return pruneRevoked(ctx, repos.NewRevokedTokenRepo(db), stdout)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func setRole(ctx context.Context, admin *services.AdminService, args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("set-role", pflag.ContinueOnError)
	email := fs.String("email", "", "account email")
	role := fs.String("role", "", "guest, user or admin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *role == "" {
		return errors.New("set-role requires --email and --role")
	}
	u, err := admin.SetRoleByEmail(ctx, *email, *role)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s is now %s\n", u.Email, u.Role)
	return nil
}

func listUsers(ctx context.Context, users *repos.UserRepo, stdout io.Writer) error {
	list, err := users.List(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tROLE\tCURRENCY")
	for _, u := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Email, u.Role, u.Currency)
	}
	return w.Flush()
}

func pruneRevoked(ctx context.Context, ledger *repos.RevokedTokenRepo, stdout io.Writer) error {
	n, err := ledger.Prune(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "removed %d expired entries\n", n)
	return nil
}

func printUsage(fs *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Usage: fintrack-admin [--env-file FILE] <command> [flags]

Commands:
  set-role --email EMAIL --role ROLE   change an account's role (guest, user, admin)
  list-users                           print every account
  prune-revoked                        drop revoked tokens that have expired

Flags:
%s`, fs.FlagUsages())
}
