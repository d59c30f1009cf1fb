package main

import "github.com/clinicode/rxscan/cmd/rxscan/cmd"

func main() {
	cmd.Execute()
}
