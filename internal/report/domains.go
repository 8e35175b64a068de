package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/eigerco/numericoverflow/internal/harness"
)

// WriteDomains lists the numeric domains with their bounds.
func WriteDomains(w io.Writer, domains []harness.Domain, f Format) error {
	switch f {
	case FormatText:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tFAMILY\tBITS\tMIN\tMAX\tALIASES")
		for _, d := range domains {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
				d.Name, d.Family, d.Bits, d.Min, d.Max, strings.Join(d.Aliases, ","))
		}
		return tw.Flush()
	case FormatJSON, FormatYAML:
		return encode(w, domains, f)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
