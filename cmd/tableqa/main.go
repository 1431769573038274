package main

import "github.com/dbsmedya/tableqa/cmd/tableqa/cmd"

func main() {
	cmd.Execute()
}
