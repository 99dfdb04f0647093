// Command meetsched schedules meetings without double-booking and moves them
// to and from iCalendar files.
package main

import (
	"os"

	"github.com/roach88/meetsched/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
