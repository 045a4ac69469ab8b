package main

import "github.com/Layr-Labs/stake-vault/cmd"

func main() {
	cmd.Execute()
}
