package main

import "github.com/dbsmedya/dbmover/cmd/dbmover/cmd"

func main() {
	cmd.Execute()
}
