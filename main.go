package main

import "github.com/vibast-solutions/ms-go-lubycash/cmd"

func main() {
	cmd.Execute()
}
