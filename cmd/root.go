// Package cmd provides the command line interface.
package cmd

import (
	"fmt"
	"log"
	"os"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/app"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/version"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/ui/mainwindow"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/ui/prefs"
)

var cfg app.Config

var rootCmd = &cobra.Command{
	Use:   "glassbid-measure",
	Short: "Measure glass dimensions from calibrated shop drawings",
	Long: `glassbid-measure opens a rasterized shop-drawing page, lets the
estimator calibrate its pixel scale against a known dimension, and
records measured glass dimensions to the bid's task list.

With --image it runs offline against a local drawing file instead of a
server job.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.ImagePath == "" {
			if cfg.ServerURL == "" || cfg.JobID == "" {
				return fmt.Errorf("either --image or both --server and --job are required")
			}
		}

		log.SetFlags(log.LstdFlags | log.Lshortfile)
		log.Printf("starting glassbid-measure v%s", version.Version)

		sess := app.NewSession(cfg)
		appPrefs := prefs.Load()

		fyneApp := fyneapp.New()
		fyneApp.Settings().SetTheme(&app.MeasureTheme{})

		win := mainwindow.New(fyneApp, sess, appPrefs)
		win.SetOnClosed(win.SavePreferences)
		win.Start()
		win.ShowAndRun()
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&cfg.ServerURL, "server", "", "base URL of the bid server")
	rootCmd.Flags().StringVar(&cfg.Token, "token", "", "bearer token for the bid server")
	rootCmd.Flags().StringVar(&cfg.JobID, "job", "", "job id to measure")
	rootCmd.Flags().IntVar(&cfg.PageNum, "page", 1, "drawing page number")
	rootCmd.Flags().IntVar(&cfg.DPI, "dpi", 300, "requested rasterization density")
	rootCmd.Flags().StringVar(&cfg.MeasuredBy, "user", "", "name recorded on completed tasks")
	rootCmd.Flags().StringVar(&cfg.ImagePath, "image", "", "local drawing image for offline use")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
