package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"mosaic/internal/image_list"
	"mosaic/internal/logger"
	"mosaic/internal/mosaic"
)

func main() {
	app := &cli.App{
		Name:    "mosaic",
		Usage:   "render photomosaics from a sprite server",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"MOSAIC_LOG_LEVEL"},
				Value:   "info",
				Usage:   "debug, info, warn or error",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "render",
				Usage:     "Render the mosaic of an image, or of every image in a directory",
				ArgsUsage: "IMAGE|DIRECTORY",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "api",
						EnvVars: []string{"MOSAIC_API"},
						Value:   mosaic.DefaultAPIBaseURL,
						Usage:   "sprite server base URL",
					},
					&cli.IntFlag{
						Name:    "tile-width",
						EnvVars: []string{"MOSAIC_TILE_WIDTH"},
						Value:   mosaic.DefaultTileWidth,
						Usage:   "tile width in pixels",
					},
					&cli.IntFlag{
						Name:    "tile-height",
						EnvVars: []string{"MOSAIC_TILE_HEIGHT"},
						Value:   mosaic.DefaultTileHeight,
						Usage:   "tile height in pixels",
					},
					&cli.StringSliceFlag{
						Name:    "mime",
						EnvVars: []string{"MOSAIC_MIME_TYPES"},
						Usage:   "accepted input MIME types (subset of " + strings.Join(mosaic.BaselineMimeTypes, ", ") + ")",
					},
					&cli.DurationFlag{
						Name:    "fetch-timeout",
						EnvVars: []string{"MOSAIC_FETCH_TIMEOUT"},
						Value:   mosaic.DefaultFetchTimeout,
						Usage:   "timeout for one sprite request",
					},
					&cli.DurationFlag{
						Name:    "worker-timeout",
						EnvVars: []string{"MOSAIC_WORKER_TIMEOUT"},
						Value:   mosaic.DefaultWorkerTimeout,
						Usage:   "timeout for the color reduction of one row",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: "png",
						Usage: "output format, png or gif",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "output file, or directory when rendering a directory",
					},
				},
				Action: render,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func render(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	zlog, err := logger.New(c.String("log-level"), "console")
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer zlog.Sync()

	client, err := mosaic.NewClient(mosaic.Options{
		TileWidth:         c.Int("tile-width"),
		TileHeight:        c.Int("tile-height"),
		APIBaseURL:        c.String("api"),
		AcceptedMimeTypes: c.StringSlice("mime"),
		FetchTimeout:      c.Duration("fetch-timeout"),
		WorkerTimeout:     c.Duration("worker-timeout"),
	}, &http.Client{}, mosaic.NewLogIndicator(zlog), zlog)
	if err != nil {
		return cli.Exit(err, 1)
	}

	input := c.Args().First()
	format := c.String("format")
	if format != "png" && format != "gif" {
		return cli.Exit(fmt.Sprintf("unsupported output format: %s", format), 1)
	}

	info, err := os.Stat(input)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if !info.IsDir() {
		out := c.String("out")
		if out == "" {
			out = outputPath(input, filepath.Dir(input), format)
		}
		if err := renderFile(c, client, zlog, input, out, format); err != nil {
			return cli.Exit(err, 1)
		}
		return nil
	}

	outDir := c.String("out")
	if outDir == "" {
		outDir = input
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return cli.Exit(err, 1)
	}

	scanner := image_list.New(input, client.Config(), zlog)
	if err := scanner.Scan(); err != nil {
		return cli.Exit(err, 1)
	}

	// Each image is a separate run; the first failure stops the batch.
	for _, img := range scanner.GetImages() {
		if strings.Contains(img.Name, "-mosaic.") {
			continue
		}
		out := outputPath(img.Path, outDir, format)
		if err := renderFile(c, client, zlog, img.Path, out, format); err != nil {
			return cli.Exit(fmt.Errorf("%s: %w", img.Name, err), 1)
		}
	}
	return nil
}

func renderFile(c *cli.Context, client *mosaic.Client, zlog *zap.Logger, input, output, format string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	result, runErr := client.HandleFile(c.Context, data)
	if result == nil {
		return runErr
	}

	// Rows drawn before a failure are still written out.
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := mosaic.EncodeOutput(f, result, format); err != nil {
		return err
	}

	zlog.Info("Wrote mosaic", zap.String("path", output), zap.Bool("complete", runErr == nil))
	return runErr
}

func outputPath(input, dir, format string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+"-mosaic."+format)
}
