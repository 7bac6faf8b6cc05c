package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/docscan/internal/export"
	"github.com/MeKo-Tech/docscan/internal/utils"
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export <output.pdf> <image>...",
	Short: "Assemble scanned images into a single PDF",
	Long: `Combine previously captured scans into one PDF document, one page per
image, in the order given.

Examples:
  docscan export scans.pdf page1.jpg page2.jpg
  docscan export --title "Contract" contract.pdf scan_*.jpg`,
	Args:         cobra.MinimumNArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath := args[0]
		inputs := args[1:]

		for _, path := range inputs {
			if !utils.IsSupportedImage(path) {
				return fmt.Errorf("unsupported image file: %s", path)
			}
		}

		cfg := GetConfig()
		opts := export.DefaultOptions()
		opts.Title = cfg.Output.PDFTitle
		if cmd.Flags().Changed("title") {
			opts.Title, _ = cmd.Flags().GetString("title")
		}
		opts.JPEGQuality = cfg.Scan.JPEGQuality

		if err := export.PDFFromFiles(inputs, outPath, opts); err != nil {
			return err
		}

		pages, err := export.PageCount(outPath)
		if err != nil {
			return fmt.Errorf("written PDF is unreadable: %w", err)
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d pages)\n", outPath, pages)
		return err
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("title", "", "PDF document title (default: output.pdf_title config)")
}
