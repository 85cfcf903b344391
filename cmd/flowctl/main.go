package main

import (
	"fmt"
	"os"
)

func main() {
	app := &AppContext{}
	flags := &rootFlags{}

	rootCmd := newRootCmd(app, flags)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
