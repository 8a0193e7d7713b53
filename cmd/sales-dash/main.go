package main

import (
	"fmt"
	"os"

	"github.com/diillson/sales-dashboard-go/internal/adapter/driven/aws"
	"github.com/diillson/sales-dashboard-go/internal/adapter/driven/charts"
	"github.com/diillson/sales-dashboard-go/internal/adapter/driven/config"
	"github.com/diillson/sales-dashboard-go/internal/adapter/driven/export"
	"github.com/diillson/sales-dashboard-go/internal/adapter/driven/sink"
	"github.com/diillson/sales-dashboard-go/internal/adapter/driven/source"
	"github.com/diillson/sales-dashboard-go/internal/adapter/driving/cli"
	"github.com/diillson/sales-dashboard-go/internal/application/usecase"
	"github.com/diillson/sales-dashboard-go/pkg/console"
	"github.com/diillson/sales-dashboard-go/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	// Inicializa os repositórios
	awsRepo := aws.NewAWSRepository()
	exportRepo := export.NewExportRepository()
	chartRepo := charts.NewRenderer()
	configRepo := config.NewConfigRepository()
	consoleImpl := console.NewConsole()

	// Inicializa o caso de uso
	dashboardUseCase := usecase.NewDashboardUseCase(
		source.NewFactory(),
		exportRepo,
		chartRepo,
		configRepo,
		awsRepo,
		sink.NewFactory(awsRepo),
		consoleImpl,
	)

	// Define o caso de uso no aplicativo CLI
	app.SetDashboardUseCase(dashboardUseCase)

	// Executa o aplicativo
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
