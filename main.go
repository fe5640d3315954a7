package main

import (
	"github.com/tanpawarit/goodfoods-reservation-agent/cmd"
	_ "github.com/tanpawarit/goodfoods-reservation-agent/pkg/logger/autoload"
)

func main() {
	cmd.Execute()
}
