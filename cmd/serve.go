package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	httpHdlr "shelfscan/handler/http"
	"shelfscan/src/core/analysis"
	"shelfscan/src/core/jobs"
	"shelfscan/src/infrastructure/imagefetch"
	"shelfscan/src/infrastructure/log"
	"shelfscan/src/infrastructure/recognition"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the shelf analysis server",
	Long: `The serve command starts an HTTP server that accepts shelf image
analysis requests, processes them in the background and serves job status
polls.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	settingDefaultConfig()
}

func runServer(cmd *cobra.Command, args []string) error {
	// Initialize the recognition engine and orchestrator
	engine := recognition.NewTesseractEngine(recognition.TesseractConfig{
		Languages:   viper.GetStringSlice("ocr.languages"),
		TessdataDir: viper.GetString("ocr.tessdata_dir"),
	})
	analyzer := analysis.NewAnalyzer(engine)

	// Initialize image fetchers; MinIO is optional
	var minioFetcher imagefetch.Fetcher
	if viper.GetBool("minio.enabled") {
		mf, err := imagefetch.NewMinioFetcher(
			viper.GetString("minio.endpoint"),
			viper.GetString("minio.access_key"),
			viper.GetString("minio.secret_key"),
			viper.GetBool("minio.use_ssl"),
		)
		if err != nil {
			log.Error(err, "Failed to create minio fetcher")
			return err
		}
		minioFetcher = mf
	}
	fetcher := imagefetch.NewDispatcher(imagefetch.NewHTTPFetcher(nil), minioFetcher)

	// Initialize the job service
	jobService, err := jobs.NewService(
		jobs.NewRegistry(),
		fetcher,
		analyzer,
		viper.GetDuration("fetch.timeout"),
		viper.GetDuration("jobs.retention"),
	)
	if err != nil {
		log.Error(err, "Failed to create job service")
		return err
	}

	// Start the background worker
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go func() {
		if err := jobService.Run(workerCtx); err != nil {
			log.Error(err, "Job worker stopped")
		}
	}()
	<-jobService.Running()

	// Request id node for the HTTP middleware
	node, err := snowflake.NewNode(1)
	if err != nil {
		log.Error(err, "Failed to create snowflake node")
		return err
	}

	// Setup gin router
	r := gin.Default()
	r.Use(httpHdlr.RequestID(node))

	// Register routes
	httpHdlr.NewAnalysisHandler(jobService).RegisterRoutes(r)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + viper.GetString("server.port"),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "Failed to start server")
		}
	}()
	log.Info("shelf analysis server started", "port", viper.GetString("server.port"))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Parse shutdown timeout
	timeout := viper.GetDuration("server.shutdown_timeout")
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "Server forced to shutdown")
	}

	// Stop the background worker after the HTTP surface is drained
	stopWorker()
	if err := jobService.Close(); err != nil {
		log.Error(err, "Failed to close job service")
	}

	log.Info("Server exited")
	return nil
}
