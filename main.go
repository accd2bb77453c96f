package main

import "github.com/danprat/ABSEN-DESA/cmd"

func main() {
	cmd.Execute()
}
