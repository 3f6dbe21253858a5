package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	_ "github.com/go-sql-driver/mysql"

	"github.com/clientdesk/crm-core/api"
	"github.com/clientdesk/crm-core/config"
	"github.com/clientdesk/crm-core/pkg/otellib"
	"github.com/clientdesk/crm-core/repository"
	"github.com/clientdesk/crm-core/service/catalog"
	"github.com/clientdesk/crm-core/service/directory"
	"github.com/clientdesk/crm-core/service/engagement"
)

func main() {
	rootCmd := cobra.Command{
		Use: "server",
	}
	rootCmd.AddCommand(
		startServerCommand(),
	)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Println(err)
	}
}

func startServerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "start the server",
		Run: func(cmd *cobra.Command, args []string) {
			startServer()
		},
	}
}

func startServer() {
	conf := config.Load()
	logger := config.NewLogger(conf.Log)

	tracerProvider, shutdown := otellib.InitOtel("crm-core-api", "local", conf.Jaeger)
	defer shutdown()

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	db := conf.MySQL.MustConnect()
	provider := repository.NewProvider(db)

	contactRepo := repository.NewContact()
	relationshipRepo := repository.NewRelationship()
	campaignRepo := repository.NewCampaign()
	responseRepo := repository.NewCampaignResponse()
	productRepo := repository.NewProduct()
	subscriptionRepo := repository.NewSubscription()

	now := time.Now

	server := api.NewServer(
		directory.NewService(provider, contactRepo, relationshipRepo, campaignRepo, now),
		engagement.NewService(provider, campaignRepo, responseRepo, contactRepo, relationshipRepo, now),
		catalog.NewService(provider, productRepo, subscriptionRepo, contactRepo, now),
	)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("crm-core-api", otelecho.WithTracerProvider(tracerProvider)))
	e.Use(contextLoggerMiddleware(logger))
	e.Use(requestLogMiddleware())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	server.Register(e)

	startHTTPServer(conf, e, logger)
}

// contextLoggerMiddleware attaches the logger to each request context so
// handlers can extract it enriched with the active trace.
func contextLoggerMiddleware(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := otellib.ToContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func requestLogMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogMethod:  true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			otellib.Extract(c.Request().Context()).Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}

func startHTTPServer(conf config.Config, e *echo.Echo, logger *zap.Logger) {
	fmt.Println("HTTP:", conf.Server.HTTP.ListenString())

	go func() {
		err := e.Start(conf.Server.HTTP.ListenString())
		if err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	//--------------------------------
	// Graceful Shutdown
	//--------------------------------
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, os.Kill)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := e.Shutdown(ctx)
	if err != nil {
		panic(err)
	}
	logger.Info("shutdown HTTP server successfully")
}
