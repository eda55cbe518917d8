// @title HistoMed Atlas API
// @version 1.0
// @description Servidor backend da plataforma HistoMed Atlas para estudantes de Histologia.

// @contact.name Suporte HistoMed
// @contact.email suporte@histomed.app

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"github.com/imanoela-sketch/apphistomed/internal/app"
	"github.com/imanoela-sketch/apphistomed/internal/config"
	"github.com/imanoela-sketch/apphistomed/pkg/logger"
)

func main() {
	// Parâmetros de linha de comando
	migrateOnly := flag.Bool("migrate-only", false, "apenas executa a migração do banco e sai")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		log.Println("Migração do banco concluída, encerrando")
		return
	}

	application.Run()
}
