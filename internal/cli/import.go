package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jask/payrecon/internal/service"
)

func newImportCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE...",
		Short: "Import one or more CSV/XLSX files",
		Long: `Each file is copied into the upload directory and imported from there; the
copy is removed afterwards. Rows without an identification are skipped and a
failing row never stops the rest of the file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			var failed []string
			for _, path := range args {
				res, err := importOne(ctx, root.app, path)
				if err != nil && res.RunID == "" {
					return fmt.Errorf("%s: %w", filepath.Base(path), err)
				}
				printResult(out, res)
				if err != nil {
					return fmt.Errorf("%s: import aborted: %w", filepath.Base(path), err)
				}
				if res.Failed > 0 {
					failed = append(failed, res.File)
				}
			}
			if len(failed) > 0 {
				return fmt.Errorf("rows failed in %s", strings.Join(failed, ", "))
			}
			return nil
		},
	}
}

// importOne spools path into the upload directory and imports the copy.
func importOne(ctx context.Context, app *App, path string) (service.Result, error) {
	spool, err := spoolFile(app.Config.Import.UploadDir, path)
	if err != nil {
		return service.Result{}, err
	}
	return app.Importer.ImportFile(ctx, spool, filepath.Base(path))
}

func spoolFile(dir, path string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir upload dir: %w", err)
	}
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst := filepath.Join(dir, uuid.NewString()+strings.ToLower(filepath.Ext(path)))
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("spool %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", errors.Join(fmt.Errorf("spool %s", filepath.Base(path)), err)
	}
	return dst, nil
}
