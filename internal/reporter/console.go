package reporter

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/sumit756492/Hidden-File-Detector/internal/findings"
)

// Console renders findings as tagged terminal lines, mirroring the classic
// CTF-tool output: [DIR], [HIDDEN], [FLAG?] and [DECODED] markers.
type Console struct {
	out io.Writer

	dir     *color.Color
	hidden  *color.Color
	flag    *color.Color
	decoded *color.Color
	dim     *color.Color
}

// NewConsole builds a console reporter writing to out. Color is suppressed
// automatically when out is not a terminal (the color package handles the
// detection) or when NO_COLOR is set.
func NewConsole(out io.Writer) *Console {
	return &Console{
		out:     out,
		dir:     color.New(color.FgBlue),
		hidden:  color.New(color.FgYellow),
		flag:    color.New(color.FgRed),
		decoded: color.New(color.FgGreen, color.Bold),
		dim:     color.New(color.Faint),
	}
}

// Render prints every finding followed by a one-line summary.
func (c *Console) Render(list []findings.Finding) {
	if len(list) == 0 {
		fmt.Fprintln(c.out, "No hidden files or suspicious items found.")
		return
	}

	for _, f := range list {
		switch f.Type {
		case findings.TypeHiddenDir:
			fmt.Fprintf(c.out, "%s  %s\n", c.dir.Sprint("[DIR]"), f.Path)
		case findings.TypeHiddenFile:
			fmt.Fprintf(c.out, "%s  %s (%s)\n", c.hidden.Sprint("[HIDDEN]"), f.Path, humanSize(f.Size))
			c.preview(f)
		case findings.TypePotentialFlag:
			fmt.Fprintf(c.out, "%s  %s (%s)\n", c.flag.Sprint("[FLAG?]"), f.Path, humanSize(f.Size))
			c.preview(f)
		case findings.TypeEncodedContent:
			label := f.Codec
			if f.Codec == "caesar" {
				label = fmt.Sprintf("%s shift=%d", f.Codec, f.Shift)
			}
			fmt.Fprintf(c.out, "%s %s (%s, %s)\n", c.decoded.Sprint("[DECODED]"), f.Path, label, f.Plausibility)
			fmt.Fprintf(c.out, "          %s\n", excerpt(f.Decoded))
		}
	}

	summary := BuildSummary(list, list[0].Timestamp())
	fmt.Fprintf(c.out, "\nFound %d suspicious items (%d hidden files, %d hidden dirs, %d potential flags, %d decoded).\n",
		summary.Total,
		summary.ByType[findings.TypeHiddenFile],
		summary.ByType[findings.TypeHiddenDir],
		summary.ByType[findings.TypePotentialFlag],
		summary.ByType[findings.TypeEncodedContent],
	)
}

func (c *Console) preview(f findings.Finding) {
	if f.Preview == "" {
		return
	}
	fmt.Fprintf(c.out, "          %s\n", c.dim.Sprint(excerpt(f.Preview)))
}
