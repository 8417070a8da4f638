package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/entrhq/dbgsession/pkg/session"
)

type showOptions struct {
	color string
	raw   bool
}

func newShowCmd(c *cli) *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show [target]",
		Short: "Print a session file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.sessionPath(args)
			if err != nil {
				return err
			}
			return runShow(cmd.OutOrStdout(), path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.color, "color", "auto", "highlight JSON: auto, always, never")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print only the JSON document")
	return cmd
}

func runShow(out io.Writer, path string, opts *showOptions) error {
	doc, err := session.ReadDocument(path)
	if err != nil {
		return err
	}

	if !opts.raw {
		writeSummary(out, path, doc)
	}

	data, err := doc.Encode()
	if err != nil {
		return err
	}

	if !useColor(out, opts.color) {
		_, err = out.Write(data)
		return err
	}
	return quick.Highlight(out, string(data), "json", "terminal256", "monokai")
}

func writeSummary(out io.Writer, path string, doc *session.Document) {
	plugins := make([]string, 0, len(doc.PluginData))
	for id := range doc.PluginData {
		plugins = append(plugins, id)
	}
	sort.Strings(plugins)
	if len(plugins) == 0 {
		plugins = append(plugins, "none")
	}

	fmt.Fprintln(out, headerStyle.Render(path))
	fmt.Fprintf(out, "%s %d\n", keyStyle.Render("version:"), doc.Version)
	fmt.Fprintf(out, "%s %s\n", keyStyle.Render("saved:  "), doc.Timestamp)
	fmt.Fprintf(out, "%s %d\n", keyStyle.Render("objects:"), len(doc.Objects))
	fmt.Fprintf(out, "%s %s\n\n", keyStyle.Render("plugins:"), strings.Join(plugins, ", "))
}

func useColor(out io.Writer, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := out.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
