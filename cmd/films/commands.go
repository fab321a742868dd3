package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"ghibli-films-service/internal/model"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List films, from the cache when it is still fresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.films.Activate(cmd.Context()); err != nil {
				return err
			}
			return printFilms(os.Stdout, a.films.State(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one film",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.films.Activate(cmd.Context()); err != nil {
				return err
			}
			film, ok := a.films.Find(args[0])
			if !ok {
				return fmt.Errorf("film %s not found", args[0])
			}
			fmt.Printf("%s\n%s\n\n%s\n", film.Name, film.Image, film.Description)
			return nil
		},
	}
}

func newReloadCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "reload",
		Short: "Drop the cached snapshot and fetch the films again",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.films.Reload(cmd.Context()); err != nil {
				return err
			}
			return printFilms(os.Stdout, a.films.State(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the cached snapshot",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show age and freshness of the cached snapshot",
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cfg)
				if err != nil {
					return err
				}
				defer a.Close()

				p, ok := a.cache.Read(cmd.Context())
				if !ok {
					fmt.Printf("%s: empty\n", a.cache.Key())
					return nil
				}
				age := time.Since(time.UnixMilli(p.SavedAt)).Truncate(time.Second)
				fmt.Printf("%s: %d films, age %s, fresh=%v (ttl %s)\n",
					a.cache.Key(), len(p.Items), age, a.cache.IsFresh(p), a.cache.TTL())
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the cached snapshot",
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cfg)
				if err != nil {
					return err
				}
				defer a.Close()

				if err := a.cache.Invalidate(cmd.Context()); err != nil {
					return err
				}
				fmt.Printf("%s cleared\n", a.cache.Key())
				return nil
			},
		},
	)
	return cmd
}

func printFilms(w io.Writer, st model.State, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st.Films)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tIMAGE")
	for _, f := range st.Films {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.IDString(), f.Name, f.Image)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d films (source: %s)\n", len(st.Films), st.Source)
	return nil
}
