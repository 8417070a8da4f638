package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/entrhq/dbgsession/pkg/annotation"
	"github.com/entrhq/dbgsession/pkg/region"
	"github.com/entrhq/dbgsession/pkg/session"
)

type listOptions struct {
	kinds   []string
	include []string
	exclude []string
}

func newListCmd(c *cli) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list [target]",
		Short: "List the comments and labels of a session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.sessionPath(args)
			if err != nil {
				return err
			}
			return c.runList(cmd.OutOrStdout(), path, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.kinds, "kind", "k", nil, "only list these kinds (comment, label)")
	cmd.Flags().StringSliceVar(&opts.include, "module", nil, "module glob patterns to include")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "module glob patterns to exclude")
	return cmd
}

func (c *cli) runList(out io.Writer, path string, opts *listOptions) error {
	matcher, err := c.matcher(opts)
	if err != nil {
		return err
	}

	regions, err := c.regions()
	if err != nil {
		return err
	}

	store := session.New(regions, session.WithLogger(c.logger.With("session")))
	defer store.Close()

	if err := store.Load(path); err != nil {
		return err
	}

	// rebase everything the module map can place
	store.Comments()
	store.Labels()

	items := matcher.Filter(store.Annotations())
	if len(items) == 0 {
		fmt.Fprintln(out, keyStyle.Render("no annotations"))
		return nil
	}

	fmt.Fprintln(out, renderAnnotations(items, regions))
	return nil
}

func (c *cli) matcher(opts *listOptions) (*annotation.Matcher, error) {
	include := opts.include
	if len(include) == 0 {
		include = c.cfg.Filter.Include
	}
	exclude := opts.exclude
	if len(exclude) == 0 {
		exclude = c.cfg.Filter.Exclude
	}

	m, err := annotation.NewMatcher(include, exclude)
	if err != nil {
		return nil, err
	}

	var kinds []annotation.Kind
	for _, tag := range opts.kinds {
		k, ok := annotation.ParseKind(tag)
		if !ok {
			return nil, fmt.Errorf("unknown annotation kind %q", tag)
		}
		kinds = append(kinds, k)
	}
	return m.WithKinds(kinds...), nil
}

func renderAnnotations(items []*annotation.Annotation, regions region.Resolver) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		Headers("KIND", "MODULE", "OFFSET", "ADDRESS", "TEXT")

	for _, a := range items {
		offset, addr := region.FormatAddress(a.Address()), pendingStyle.Render("pending")
		if a.Restored() {
			addr = restoredStyle.Render(region.FormatAddress(a.Address()))
			offset = "-"
			if r, ok := regions.FindByAddress(a.Address()); ok {
				offset = region.FormatAddress(r.Relative(a.Address()))
			}
		}
		t.Row(a.Kind().String(), a.Module(), offset, addr, a.Text())
	}
	return t.String()
}
