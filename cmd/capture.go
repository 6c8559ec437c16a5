package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/kozaktomas/koya-pay/internal/camera"
	"github.com/kozaktomas/koya-pay/internal/config"
	"github.com/kozaktomas/koya-pay/internal/workflow"
	"github.com/spf13/cobra"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a still image from the camera",
	Long: `Capture a still image from a camera snapshot folder.

A webcam tool (fswebcam, motion, ffmpeg -update 1) keeps writing snapshots
into --dir; the newest one is scaled onto the capture canvas and saved as PNG.
With --upload the image is also sent to the service for recognition.

Examples:
  koya capture --dir /run/webcam --out face.png
  koya capture --dir /run/webcam --out face.png --upload`,
	Args: cobra.NoArgs,
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.Flags().String("dir", "", "Snapshot folder (default CAMERA_DIR)")
	captureCmd.Flags().String("out", "", "Write the captured PNG to this file")
	captureCmd.Flags().Bool("upload", false, "Upload the captured image")
	captureCmd.Flags().Duration("wait", 0, "How long to wait for the first snapshot (default KOYA_TIMEOUT_SECONDS)")
}

func runCapture(cmd *cobra.Command, args []string) error {
	out := mustGetString(cmd, "out")
	doUpload := mustGetBool(cmd, "upload")
	if out == "" && !doUpload {
		return errors.New("nothing to do: pass --out, --upload or both")
	}

	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	cfg := config.Load()
	dir := mustGetString(cmd, "dir")
	if dir == "" {
		dir = cfg.Camera.Dir
	}
	if dir == "" {
		return errors.New("no snapshot folder: pass --dir or set CAMERA_DIR")
	}
	wait := mustGetDuration(cmd, "wait")
	if wait <= 0 {
		wait = cfg.Koya.Timeout
	}

	cam := camera.New(camera.NewDirSource(dir, logger), camera.NewPNGCapture(cfg.Camera.Width, cfg.Camera.Height), logger)
	defer cam.Close()

	startCtx, cancel := context.WithTimeout(cmd.Context(), wait)
	defer cancel()
	if err := cam.Start(startCtx); err != nil {
		return err
	}

	if _, err := cam.Capture(); err != nil {
		return err
	}
	if err := cam.Stop(); err != nil {
		return err
	}
	file, err := cam.Use()
	if err != nil {
		return err
	}

	if out != "" {
		if err := os.WriteFile(out, file.Data, 0o600); err != nil {
			return fmt.Errorf("failed to save capture: %w", err)
		}
		fmt.Printf("Saved %dx%d capture to %s (%d bytes)\n", cfg.Camera.Width, cfg.Camera.Height, out, file.Size())
	}

	if !doUpload {
		return nil
	}

	_, client, err := newClient(logger)
	if err != nil {
		return err
	}
	upload := workflow.NewUpload(client, logger)
	defer upload.Dispose()

	upload.Select(file)
	if err := upload.Submit(cmd.Context()); err != nil {
		return fmt.Errorf("%s", upload.State().Message)
	}
	fmt.Printf("Uploaded %s: %s\n", file.Name, upload.State().Message)
	return nil
}
