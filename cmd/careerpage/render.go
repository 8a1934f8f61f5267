package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/jonathan/careerpage/internal/db"
	"github.com/jonathan/careerpage/internal/rendering"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	renderOutputFile string
	renderPreview    bool
)

var renderCmd = &cobra.Command{
	Use:   "render <company-slug>",
	Short: "Render a company's careers page to HTML",
	Long:  "Renders the careers page of a company straight from the database, for static hosting or debugging. Unpublished companies need --preview.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "", "Path to output HTML file (default: stdout)")
	renderCmd.Flags().BoolVar(&renderPreview, "preview", false, "Render the owner preview, published or not")
	rootCmd.AddCommand(renderCmd)
}

// pageSource is the slice of the database the render command reads.
type pageSource interface {
	GetCompanyBySlug(ctx context.Context, slug string) (*db.Company, error)
	ListJobs(ctx context.Context, companyID uuid.UUID, filters db.JobFilters) ([]db.Job, error)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	out := cmd.OutOrStdout()
	if renderOutputFile != "" {
		f, err := os.Create(renderOutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if err := renderPage(cmd.Context(), database, out, args[0], cfg.PublicBaseURL, renderPreview); err != nil {
		return err
	}
	if renderOutputFile != "" {
		logger.Info("careers page written", zap.String("slug", args[0]), zap.String("path", renderOutputFile))
	}
	return nil
}

// renderPage writes the careers page, or the preview, of slug to w.
func renderPage(ctx context.Context, src pageSource, w io.Writer, slug, baseURL string, preview bool) error {
	company, err := src.GetCompanyBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if company == nil {
		return fmt.Errorf("company %q not found", slug)
	}

	if preview {
		return rendering.RenderPreviewPage(w, company)
	}
	if !company.IsPublished {
		return fmt.Errorf("company %q is not published (use --preview)", slug)
	}

	jobs, err := src.ListJobs(ctx, company.ID, db.JobFilters{})
	if err != nil {
		return err
	}
	return rendering.RenderCareersPage(w, company, jobs, rendering.PageOptions{BaseURL: baseURL})
}
