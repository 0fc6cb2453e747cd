// Command flowctl inspects and canonicalizes question class trees outside
// the dashboard, e.g. before seeding a database or reviewing an export.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
