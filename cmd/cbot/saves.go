package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var savesStore string

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "Inspect the save store",
}

var savesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved tasks",
	Args:  cobra.NoArgs,
	RunE:  runSavesList,
}

var savesShowCmd = &cobra.Command{
	Use:   "show owner",
	Short: "Show one saved task",
	Args:  cobra.ExactArgs(1),
	RunE:  runSavesShow,
}

var savesRmCmd = &cobra.Command{
	Use:   "rm owner...",
	Short: "Delete saved tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSavesRm,
}

func init() {
	savesCmd.PersistentFlags().StringVar(&savesStore, "store", "", "save store path (default [save].path)")
	savesCmd.AddCommand(savesListCmd, savesShowCmd, savesRmCmd)
}

func runSavesList(cmd *cobra.Command, args []string) error {
	cfg, manifest, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(storePath(savesStore, cfg, manifest))
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no saved tasks")
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OWNER\tSCRIPT\tENTRY\tSIZE\tSAVED")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", rec.Owner, rec.Name, rec.Entry,
			humanize.Bytes(uint64(rec.Size())), humanize.Time(rec.SavedAt))
	}
	return tw.Flush()
}

func runSavesShow(cmd *cobra.Command, args []string) error {
	cfg, manifest, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(storePath(savesStore, cfg, manifest))
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "owner:       %s\n", rec.Owner)
	fmt.Fprintf(out, "script:      %s (%s)\n", rec.Name, humanize.Bytes(uint64(len(rec.Source))))
	fmt.Fprintf(out, "entry:       %s\n", rec.Entry)
	fmt.Fprintf(out, "fingerprint: %s\n", rec.Fingerprint)
	fmt.Fprintf(out, "saved:       %s (%s)\n", rec.SavedAt.Format("2006-01-02 15:04:05"), humanize.Time(rec.SavedAt))
	fmt.Fprintf(out, "state:       %s\n", humanize.Bytes(uint64(len(rec.Data))))
	fmt.Fprintf(out, "robot:       pos=(%.2f, %.2f) heading=%.1f energy=%.0f%% clock=%.2fs\n",
		rec.Bot.Pos.X, rec.Bot.Pos.Y, rec.Bot.Heading, rec.Bot.Energy*100, rec.Bot.Clock)
	return nil
}

func runSavesRm(cmd *cobra.Command, args []string) error {
	cfg, manifest, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(storePath(savesStore, cfg, manifest))
	if err != nil {
		return err
	}
	defer store.Close()

	for _, owner := range args {
		if err := store.Delete(owner); err != nil {
			return fmt.Errorf("%s: %w", owner, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", owner)
	}
	return nil
}
