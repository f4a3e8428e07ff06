package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/robalobadob/musicwordle/internal/songs"
)

func newSongsCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "songs",
		Short: "List the song table (answers included)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := songs.Load(cfg.songsFile)
			if err != nil {
				return err
			}
			return listSongs(cmd, cat)
		},
	}
}

func listSongs(cmd *cobra.Command, cat *songs.Catalog) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, a := range cat.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Song, a.Letters(), strings.Join(a.Sequence, " "))
	}
	return tw.Flush()
}
