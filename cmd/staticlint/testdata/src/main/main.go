package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	os.Exit(cli())
}

func run() error {
	defer fmt.Println("done")
	os.Exit(2) // want "os.Exit\\(\\) outside of main: return an error instead"
	return nil
}

func cli() int {
	exit := func() { os.Exit(3) } // want "os.Exit\\(\\) outside of main: return an error instead"
	_ = exit
	return 0
}
