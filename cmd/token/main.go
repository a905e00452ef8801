// Command token issues an operator JWT accepted by the server when it runs
// with the same --jwt-secret.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/amartinez/cuentasclaritas/internal/auth"
)

func main() {
	fs := ff.NewFlagSet("cuentas-token")
	var (
		jwtSecret = fs.StringLong("jwt-secret", "", "HS256 secret shared with the server")
		subject   = fs.StringLong("subject", "operator", "Token subject")
		ttl       = fs.DurationLong("ttl", 24*time.Hour, "How long the token stays valid")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("CUENTAS"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		if errors.Is(err, ff.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *jwtSecret == "" {
		fmt.Fprintln(os.Stderr, "error: --jwt-secret (or CUENTAS_JWT_SECRET) is required")
		os.Exit(1)
	}

	token, err := auth.NewJWTManager(*jwtSecret, *ttl).Generate(*subject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
