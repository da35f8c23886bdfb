package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-tplworker/pkg/catalog"
)

func newListCmd(a *app) *cobra.Command {
	var kinds bool

	cmd := &cobra.Command{
		Use:   "list [engines]",
		Short: "List active engines and their kinds",
		Long: `Prints one "name<TAB>kind" line per engine in the active catalog. The
optional argument filters the list the same way the worker does. With
--kinds, prints the engine kinds a catalog entry may use instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if kinds {
				for _, kind := range catalog.NewKinds().List() {
					if _, err := fmt.Fprintln(a.stdout, kind); err != nil {
						return err
					}
				}
				return nil
			}

			cfg, logger, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			c, err := catalog.Load(cfg.Catalog)
			if err != nil {
				return err
			}
			w, err := a.newWorker(cfg, c, logger)
			if err != nil {
				return err
			}

			active := map[string]struct{}{}
			for _, name := range w.Active().Names() {
				active[name] = struct{}{}
			}
			for _, entry := range c.Engines {
				if _, ok := active[entry.Name]; !ok {
					continue
				}
				if _, err := fmt.Fprintf(a.stdout, "%s\t%s\n", entry.Name, entry.Kind); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&kinds, "kinds", false, "list the available engine kinds")
	return cmd
}
