/*
gatekeeper serves a login page: browsers sign in through the configured vendor,
and the page shows who is signed in.

Configure it with the environment variables listed in package ranger.
*/
package main

import (
	"fmt"
	"os"

	"github.com/xy-planning-network/gatekeeper/ranger"
)

func main() {
	// construct a Ranger using all defaults.
	rng, err := ranger.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// start the web server until receiving a signal to stop.
	if err := rng.Guide(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
