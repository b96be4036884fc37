package main

import (
	"github.com/megaloader/megaloader/cmd"
	"github.com/megaloader/megaloader/config"
	"github.com/megaloader/megaloader/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())
	cmd.Execute()
}
