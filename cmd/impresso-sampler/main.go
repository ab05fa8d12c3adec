package main

import (
	"impresso-sampler/cmd/impresso-sampler/commands"
	"impresso-sampler/lib/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()
	commands.ExecuteContext(ctx)
}
