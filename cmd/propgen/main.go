// Command propgen writes a markdown reference of every interface's property
// table, generated from the protocol registry so the document can never drift
// from the code.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Diffraction-Limited/goboltwood/internal/protocol/amalgam"
	"github.com/Diffraction-Limited/goboltwood/internal/protocol/registry"
	"github.com/Diffraction-Limited/goboltwood/internal/protocol/threshold"
)

func main() {
	output := flag.String("output", "", "output path (defaults to stdout)")
	flag.Parse()

	out := io.Writer(os.Stdout)
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		out = f
	}

	write(out)
}

func write(out io.Writer) {
	fmt.Fprintln(out, "# Property reference")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Generated by `go run ./cmd/propgen`. Do not edit by hand.")

	for _, iface := range registry.Interfaces() {
		fmt.Fprintf(out, "\n## %s (`%s`)\n\n", iface, iface.Token())
		fmt.Fprintln(out, "| Property | Token | Access | Kind |")
		fmt.Fprintln(out, "|---|---|---|---|")
		for _, p := range registry.Properties(iface) {
			fmt.Fprintf(out, "| `%s` | `%s` | %s | %s |\n", p.Key, p.Token, p.Perm, p.Kind)
		}

		if schema, err := amalgam.Schema(iface); err == nil {
			fmt.Fprintf(out, "\n`ALL` dump field order (%d fields):\n\n", len(schema))
			for i, f := range schema {
				fmt.Fprintf(out, "%d. `%s` (%s)\n", i+1, f.Name, f.Kind)
			}
		}
	}

	fmt.Fprintf(out, "\n## Threshold transitions\n\n")
	fmt.Fprintln(out, "Fixed payload order; each transition contributes a value token and a 0/1 trigger token.")
	fmt.Fprintln(out)
	for i, tr := range threshold.Order {
		fmt.Fprintf(out, "%d. `%s`\n", i+1, tr)
	}
}
