package main

import "internlink_backend/cmd"

func main() {
	cmd.Execute()
}
