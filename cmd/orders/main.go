package main

import "github.com/matthieukhl/orders/internal/cmd"

func main() {
	cmd.Execute()
}
