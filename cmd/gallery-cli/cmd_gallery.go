package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/elseibo-mission/gallery-server/pkg/uploader"
)

var listCmd = &cobra.Command{
	Use:       "list [admin|guest]",
	Short:     "List a gallery, newest first",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"admin", "guest"},
	RunE:      runList,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [admin|guest] [filename]",
	Short: "Delete an image from a gallery",
	Long:  `Remove the object from storage. Guest deletions also drop the owner record.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runDelete,
}

func init() {
	listCmd.Flags().Bool("json", false, "Print the raw listing as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	switch args[0] {
	case string(uploader.ClassAdmin):
		urls, err := client.ListAdmin(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON {
			return json.NewEncoder(out).Encode(urls)
		}
		for _, u := range urls {
			fmt.Fprintln(out, u)
		}
		fmt.Fprintf(out, "%d images\n", len(urls))
	case string(uploader.ClassGuest):
		images, err := client.ListGuest(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON {
			return json.NewEncoder(out).Encode(images)
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "OWNER\tFILENAME\tURL")
		for _, img := range images {
			fmt.Fprintf(w, "%s\t%s\t%s\n", img.Owner, img.Filename, img.URL)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d images\n", len(images))
	default:
		return fmt.Errorf("unknown gallery %q (want admin or guest)", args[0])
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	class, err := parseClass(args[0])
	if err != nil {
		return err
	}
	if class == uploader.ClassSiteAsset {
		return fmt.Errorf("site assets cannot be deleted from the gallery")
	}
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	if err := client.Delete(cmd.Context(), class, args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s from the %s gallery\n", args[1], class)
	return nil
}
