package main

import "github.com/budgetwise/pricepipe/cmd"

func main() {
	cmd.Execute()
}
