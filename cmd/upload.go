package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kozaktomas/koya-pay/internal/constants"
	"github.com/kozaktomas/koya-pay/internal/media"
	"github.com/kozaktomas/koya-pay/internal/workflow"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <path> [path...]",
	Short: "Upload photos for recognition",
	Long: `Upload photos to the Koya Pay service for recognition.

Each path is either an image file or a folder. Folders are scanned for images
(non-recursive unless -r is given). Every file runs through its own upload
workflow; a failed file does not stop the others.
Supported formats: jpg, jpeg, png, gif, heic, heif, webp, bmp

Example:
  koya upload face.jpg
  koya upload /path/to/photos
  koya upload -r -j 8 /path/to/photos
  koya upload --skip-duplicates /path/to/burst`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().BoolP("recursive", "r", false, "Search for photos recursively in subdirectories")
	uploadCmd.Flags().IntP("jobs", "j", constants.BatchUploadWorkers, "Number of parallel uploads")
	uploadCmd.Flags().Bool("skip-duplicates", false, "Skip files that look identical to an earlier file in the batch")
}

// isImageFile checks if a file has a supported image extension
func isImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	supported := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".heic": true,
		".heif": true,
		".webp": true,
		".bmp":  true,
	}
	return supported[ext]
}

// collectImages expands the given paths into a list of image files.
func collectImages(paths []string, recursive bool) ([]string, error) {
	var filePaths []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", path, err)
		}
		if !info.IsDir() {
			filePaths = append(filePaths, path)
			continue
		}

		if recursive {
			err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && isImageFile(d.Name()) {
					filePaths = append(filePaths, p)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("cannot walk folder %s: %w", path, err)
			}
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read folder %s: %w", path, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && isImageFile(entry.Name()) {
				filePaths = append(filePaths, filepath.Join(path, entry.Name()))
			}
		}
	}
	return filePaths, nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	recursive := mustGetBool(cmd, "recursive")
	skipDuplicates := mustGetBool(cmd, "skip-duplicates")
	jobs := mustGetInt(cmd, "jobs")
	if jobs < 1 {
		jobs = 1
	}

	filePaths, err := collectImages(args, recursive)
	if err != nil {
		return err
	}
	if len(filePaths) == 0 {
		fmt.Println("No image files found.")
		return nil
	}

	var (
		files    []media.FileHandle
		failures []string
	)
	for _, filePath := range filePaths {
		file, err := media.FromPath(filePath)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", filepath.Base(filePath), err))
			continue
		}
		files = append(files, file)
	}

	if skipDuplicates {
		var dropped []string
		files, dropped = media.Dedupe(files)
		for _, name := range dropped {
			fmt.Printf("Skipping duplicate: %s\n", name)
		}
	}

	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	_, client, err := newClient(logger)
	if err != nil {
		return err
	}

	fmt.Printf("Uploading %d image(s) to %s\n\n", len(files), client.Url)

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Uploading"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	var (
		mu       sync.Mutex
		messages []string
	)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(jobs)

	for _, file := range files {
		g.Go(func() error {
			defer bar.Add(1) //nolint:errcheck

			name := file.Name
			upload := workflow.NewUpload(client, logger)
			defer upload.Dispose()

			upload.Select(file)
			_ = upload.Submit(ctx)

			st := upload.State()
			mu.Lock()
			defer mu.Unlock()
			if st.Status == workflow.UploadSucceeded {
				messages = append(messages, fmt.Sprintf("%s: %s", name, st.Message))
			} else {
				failures = append(failures, fmt.Sprintf("%s: %s", name, st.Message))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Println()

	for _, msg := range messages {
		fmt.Printf("Uploaded: %s\n", msg)
	}
	for _, msg := range failures {
		fmt.Printf("Failed: %s\n", msg)
	}

	fmt.Printf("\nDone: %d uploaded, %d failed\n", len(messages), len(failures))
	if len(messages) == 0 {
		return fmt.Errorf("no files were uploaded successfully")
	}
	return nil
}
