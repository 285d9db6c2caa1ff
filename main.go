package main

import "github.com/techforgyms/techforgyms_backend/cmd"

func main() {
	cmd.Execute()
}
