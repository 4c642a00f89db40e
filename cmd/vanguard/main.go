// Command vanguard generates AI-assisted security audits from a free-text
// description of a target system.
//
// Usage:
//
//	vanguard audit "E-commerce app with Node.js backend, MongoDB, S3 storage"
//	echo "WordPress blog" | vanguard audit --format markdown --output audit.md
//	vanguard schema --variant standard
//	vanguard worker --config vanguard.yaml
//	vanguard submit "Django REST API with PostgreSQL"
//
// The backend credential is read from API_KEY (or GEMINI_API_KEY), optionally
// via a .env file in the working directory.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := newRootCommand(app).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
