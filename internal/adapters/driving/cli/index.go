package cli

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

var (
	indexURL   string
	indexTitle string
	indexMIME  string
)

var indexCmd = &cobra.Command{
	Use:   "index [file...]",
	Short: "Index files or standard input as pages",
	Long: `Indexes one or more files the same way the browser extension indexes pages.
Use "-" to read from standard input; --url is then required.

The content type comes from --mime or the file extension, and defaults to
plain text. HTML and PDF files are converted to text first.

Examples:
  webrecall index notes.txt
  webrecall index --url https://go.dev/doc --title "Go docs" page.html
  curl -s https://example.com | webrecall index --url https://example.com --mime text/html -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexURL, "url", "", "page URL (default file:// path)")
	indexCmd.Flags().StringVar(&indexTitle, "title", "", "page title")
	indexCmd.Flags().StringVar(&indexMIME, "mime", "", "content type (default from extension)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if len(args) > 1 && indexURL != "" {
		return errors.New("--url can only be used with a single file")
	}

	svc, err := loadServices(cmd)
	if err != nil {
		return err
	}

	var failed int
	for _, arg := range args {
		page, err := readPage(cmd, arg)
		if err != nil {
			return err
		}

		res, err := svc.Ingest.Ingest(cmd.Context(), page)
		if err != nil {
			cmd.PrintErrf("%s: %v\n", arg, err)
			failed++
			continue
		}
		switch res.Status {
		case domain.IngestIndexed:
			cmd.Printf("Indexed %s (%d chunks)\n", page.URL, res.Chunks)
			if res.Warning != "" {
				cmd.PrintErrf("warning: %s\n", res.Warning)
			}
		default:
			cmd.Printf("Skipped %s: %s\n", page.URL, res.Message)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func readPage(cmd *cobra.Command, arg string) (domain.Page, error) {
	page := domain.Page{URL: indexURL, Title: indexTitle, MIMEType: indexMIME}

	if arg == "-" {
		if page.URL == "" {
			return page, errors.New("--url is required when reading standard input")
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return page, fmt.Errorf("reading standard input: %w", err)
		}
		page.Content = data
		return page, nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return page, fmt.Errorf("reading %s: %w", arg, err)
	}
	page.Content = data

	if page.URL == "" {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return page, fmt.Errorf("resolving %s: %w", arg, err)
		}
		page.URL = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	}
	if page.Title == "" {
		page.Title = filepath.Base(arg)
	}
	if page.MIMEType == "" {
		page.MIMEType = mime.TypeByExtension(filepath.Ext(arg))
	}
	return page, nil
}
