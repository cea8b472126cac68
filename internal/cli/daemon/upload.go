package daemon

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/everlightos/federation/internal/app"
	"github.com/everlightos/federation/internal/config"
	"github.com/everlightos/federation/internal/service"
)

var uploadContentTypes = map[string]string{
	".md":  "text/markdown",
	".txt": "text/plain",
}

// ObjectWriter stores one object in the bucket.
type ObjectWriter interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

type uploadResult struct {
	Keys     []string
	Uploaded int
	Failed   int
}

// UploadCmd pushes local chunk files into the bulk ingestion folder.
func UploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload [dir]",
		Short: "Upload chunk files to the bucket",
		Long: `Upload every .md and .txt file in dir (default ./voyagers-chunks) to
<prefix>/<filename> in the configured bucket, ready for /api/ingest-voyagers.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUpload,
	}

	cmd.Flags().String("prefix", "", "Bucket folder (default FEDERATION_BULK_FOLDER)")
	cmd.Flags().Bool("dry-run", false, "List the keys that would be written without uploading")

	return cmd
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dir := "./" + cfg.BulkFolder
	if len(args) == 1 {
		dir = args[0]
	}
	prefix, _ := cmd.Flags().GetString("prefix")
	if prefix == "" {
		prefix = cfg.BulkFolder
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	var writer ObjectWriter
	if !dryRun {
		s3, err := app.NewObjectStore(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if s3 == nil {
			return fmt.Errorf("object store not configured: set FEDERATION_S3_ENDPOINT and credentials")
		}
		if err := s3.EnsureBucket(cmd.Context()); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		writer = s3
	}

	out := cmd.OutOrStdout()
	res, err := uploadDir(cmd.Context(), writer, dir, prefix, out)
	if err != nil {
		return err
	}

	if dryRun {
		for _, k := range res.Keys {
			fmt.Fprintf(out, "%s/%s\n", cfg.S3Bucket, k)
		}
		return nil
	}

	fmt.Fprintln(out)
	color.New(color.FgGreen).Fprintf(out, "Uploaded %d file(s)\n", res.Uploaded)
	if res.Failed > 0 {
		color.New(color.FgRed).Fprintf(out, "Failed %d file(s)\n", res.Failed)
	}
	if res.Uploaded > 0 {
		fmt.Fprintln(out, "Ingest them with:")
		color.New(color.FgCyan).Fprintf(out, "  curl -X POST <api-url>/api/ingest-voyagers -d '{\"folder_path\":\"%s\",\"max_files\":%d}'\n",
			strings.TrimRight(prefix, "/"), res.Uploaded)
	}
	return nil
}

// chunkFiles lists the uploadable files of dir in name order.
func chunkFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := uploadContentTypes[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// uploadDir writes every chunk file under prefix. A nil writer only
// computes the keys. Per-file failures are counted.
func uploadDir(ctx context.Context, w ObjectWriter, dir, prefix string, progress io.Writer) (uploadResult, error) {
	names, err := chunkFiles(dir)
	if err != nil {
		return uploadResult{}, err
	}

	res := uploadResult{Keys: make([]string, 0, len(names))}
	for _, name := range names {
		res.Keys = append(res.Keys, path.Join(strings.TrimRight(service.FolderPrefix(prefix), "/"), name))
	}
	if w == nil || len(names) == 0 {
		return res, nil
	}

	bar := progressbar.NewOptions(len(names),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription(color.BlueString("uploading")),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowCount(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetRenderBlankState(true),
	)

	for i, name := range names {
		key := res.Keys[i]
		body, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			err = w.Put(ctx, key, body, uploadContentTypes[strings.ToLower(filepath.Ext(name))])
		}
		if err != nil {
			res.Failed++
			fmt.Fprintf(progress, "\n%s %s: %v\n", color.RedString("failed"), key, err)
		} else {
			res.Uploaded++
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	return res, nil
}
