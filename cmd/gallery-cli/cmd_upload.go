package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/elseibo-mission/gallery-server/pkg/uploader"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload photos and videos",
	Long: `Upload files through presign, direct PUT and finalize.

Files over the size limit for the chosen type abort the batch before anything is sent.
HEIC photos are converted to JPEG first when possible.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

// errPartialUpload makes the exit status non-zero when some files failed.
var errPartialUpload = errors.New("some files failed to upload")

func init() {
	uploadCmd.Flags().StringP("type", "t", "guest", "Upload type (admin, guest or site_asset)")
	uploadCmd.Flags().String("owner", "", "Display name recorded for guest uploads")
	uploadCmd.Flags().Int("concurrency", uploader.DefaultPoolSize, "Files uploaded at once")
	uploadCmd.Flags().Bool("no-transcode", false, "Upload HEIC files as they are")
}

func runUpload(cmd *cobra.Command, args []string) error {
	rawClass, _ := cmd.Flags().GetString("type")
	owner, _ := cmd.Flags().GetString("owner")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	noTranscode, _ := cmd.Flags().GetBool("no-transcode")

	class, err := parseClass(rawClass)
	if err != nil {
		return err
	}

	files := make([]uploader.File, 0, len(args))
	for _, path := range args {
		file, err := uploader.FileFromPath(path)
		if err != nil {
			return err
		}
		files = append(files, file)
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	opts := []uploader.BatchOption{
		uploader.WithOwner(owner),
		uploader.WithPoolSize(concurrency),
		uploader.WithLogger(newLogger(cmd)),
		uploader.WithProgress(func(p uploader.Progress) {
			fmt.Fprintf(out, "Uploaded %s\n", p)
		}),
	}
	if noTranscode {
		opts = append(opts, uploader.WithTranscoder(nil))
	}

	result, err := uploader.NewBatchUploader(client, class, opts...).Upload(cmd.Context(), files)
	if err != nil {
		return err
	}
	return printBatchResult(cmd, result)
}

func printBatchResult(cmd *cobra.Command, result *uploader.BatchResult) error {
	out := cmd.OutOrStdout()
	for _, u := range result.Succeeded {
		fmt.Fprintf(out, "  ok    %s -> %s\n", u.Name, u.URL)
	}
	for _, f := range result.Failed {
		fmt.Fprintf(out, "  fail  %s: %v\n", f.Name, f.Err)
	}

	switch result.Outcome() {
	case uploader.OutcomeSuccess:
		fmt.Fprintf(out, "All %d files uploaded\n", len(result.Succeeded))
		return nil
	case uploader.OutcomePartial:
		fmt.Fprintf(out, "%d uploaded, %d failed. Retry with: %s\n",
			len(result.Succeeded), len(result.Failed), strings.Join(result.FailedNames(), " "))
		return errPartialUpload
	default:
		fmt.Fprintf(out, "No files uploaded\n")
		return errPartialUpload
	}
}
