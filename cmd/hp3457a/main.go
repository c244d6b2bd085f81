// cmd/hp3457a/main.go
package main

import "github.com/tamzrod/hp3457a-dumper/cmd/hp3457a/cmd"

func main() {
	cmd.Execute()
}
