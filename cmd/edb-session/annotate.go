package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/entrhq/dbgsession/pkg/annotation"
	"github.com/entrhq/dbgsession/pkg/region"
	"github.com/entrhq/dbgsession/pkg/session"
)

type annotateOptions struct {
	address string
	comment string
	label   string
}

func newAnnotateCmd(c *cli) *cobra.Command {
	opts := &annotateOptions{}

	cmd := &cobra.Command{
		Use:   "annotate [target]",
		Short: "Attach a comment or label to an address and save the session",
		Long: `annotate adds a comment or label at an absolute address. The module map
must contain the module holding the address so the annotation can be stored
relative to it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.sessionPath(args)
			if err != nil {
				return err
			}
			return c.runAnnotate(cmd.OutOrStdout(), path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.address, "address", "a", "", "absolute address in hex")
	cmd.Flags().StringVarP(&opts.comment, "comment", "c", "", "comment text")
	cmd.Flags().StringVarP(&opts.label, "label", "l", "", "label name")
	cmd.MarkFlagRequired("address")
	cmd.MarkFlagsMutuallyExclusive("comment", "label")
	cmd.MarkFlagsOneRequired("comment", "label")
	return cmd
}

func (c *cli) runAnnotate(out io.Writer, path string, opts *annotateOptions) error {
	addr, err := region.ParseAddress(opts.address)
	if err != nil {
		return err
	}

	regions, err := c.regions()
	if err != nil {
		return err
	}

	owner, ok := regions.FindByAddress(addr)
	if !ok {
		return errors.New("no module in the module map contains " + region.FormatAddress(addr))
	}

	store := session.New(regions, session.WithLogger(c.logger.With("session")))
	defer store.Close()

	if err := store.Load(path); err != nil {
		return err
	}

	a := annotation.NewComment(addr, opts.comment)
	if opts.label != "" {
		a = annotation.NewLabel(addr, opts.label)
	}
	a.SetModule(owner.Name)
	store.Add(a)

	if err := store.Save(path); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s at %s+%s\n",
		restoredStyle.Render("added"), a.Kind(), owner.Name, region.FormatAddress(owner.Relative(addr)))
	return nil
}
