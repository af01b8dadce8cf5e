// Command tokengen prints an access token for the HTTP API signed
// with TOKEN_SIGNING_KEY.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/adanyl0v/tasklist/internal/app"
)

func main() {
	subject := flag.String("subject", "owner", "token subject")
	flag.Parse()

	app.InitDefaultLoggerWithOutput(os.Stderr)
	app.MustReadEnv()

	token, expiresAt := app.MustIssueToken(*subject)
	fmt.Println(token)
	logger := app.Logger()
	logger.Info().
		Time("expires_at", expiresAt).
		Msg("printed access token")
}
