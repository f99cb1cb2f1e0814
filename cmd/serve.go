package cmd

import (
	"fmt"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vitrine/internal/apihandlers"
)

var (
	serveAddr string // Listen address
	servePort int    // Listen port
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run Vitrine as an HTTP API server",
	Long: `Starts an HTTP server exposing catalog search, query interpretation and
search history via a RESTful API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		router := gin.Default() // Includes logger and recovery middleware

		apiHandler := apihandlers.NewAPIHandler(appInstance)

		v1 := router.Group("/api/v1")
		{
			v1.GET("/search", apiHandler.SearchHandler)
			v1.POST("/interpret", apiHandler.InterpretHandler)

			productGroup := v1.Group("/products")
			{
				productGroup.GET("", apiHandler.ListProductsHandler)
				productGroup.GET("/:id", apiHandler.GetProductHandler)
			}

			v1.GET("/searches", apiHandler.SearchHistoryHandler)
		}

		router.GET("/health", apiHandler.HealthHandler)

		port := servePort
		if !cmd.Flags().Changed("port") {
			port = appInstance.Config.Server.Port
		}
		listenAddr := fmt.Sprintf("%s:%d", serveAddr, port)
		log.Infof("Starting Vitrine API server on http://%s", listenAddr)

		// router.Run blocks unless an error occurs
		if err := router.Run(listenAddr); err != nil {
			log.Errorf("Failed to run API server: %v", err)
			return fmt.Errorf("failed to run API server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost", "Address to listen on (e.g., '0.0.0.0' for all interfaces)")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides server.port from config)")
}
