package printer

import (
	"context"
	"os"
)

// ConsolePrinter is used when a context carries no writer.
var ConsolePrinter = New(os.Stdout)

func Ctx(ctx context.Context) *Printer {
	return ConsolePrinter.Ctx(ctx)
}
