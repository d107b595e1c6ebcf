package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Nossos pacotes de infraestrutura e utilitários
	"gohotel/config"
	"gohotel/internal/pkg/cache"
	"gohotel/internal/pkg/database"
	"gohotel/internal/pkg/logger"
	"gohotel/internal/pkg/middleware"
	"gohotel/internal/pkg/validation"

	// Handlers e roteador central
	"gohotel/internal/api/client"
	"gohotel/internal/api/person"
	"gohotel/internal/api/reservation"
	"gohotel/internal/api/room"
	"gohotel/internal/api/router"
	"gohotel/internal/api/staff"

	// Acesso a Dados
	"gohotel/internal/repository/arearepo"
	"gohotel/internal/repository/clientrepo"
	"gohotel/internal/repository/consumptionrepo"
	"gohotel/internal/repository/emailrepo"
	"gohotel/internal/repository/employeerepo"
	"gohotel/internal/repository/personrepo"
	"gohotel/internal/repository/phonerepo"
	"gohotel/internal/repository/reservationrepo"
	"gohotel/internal/repository/roomrepo"
	"gohotel/internal/repository/servicerepo"

	// Lógica de Negócio
	"gohotel/internal/service/clientservice"
	"gohotel/internal/service/personservice"
	"gohotel/internal/service/reservationservice"
	"gohotel/internal/service/roomservice"
	"gohotel/internal/service/staffservice"
)

func main() {
	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	// Sem .env seguimos com as variáveis do ambiente do sistema (ex: Docker).
	if err := godotenv.Load(); err != nil {
		log.Println("Aviso: arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e Logger
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Configuração inválida: %v", err)
	}

	var appLog logger.Logger
	if cfg.IsProduction() {
		appLog = logger.NewLogger(cfg.LogLevel)
	} else {
		appLog = logger.NewConsoleLogger(cfg.LogLevel)
	}
	if zl, ok := appLog.(*logger.ZapLogger); ok {
		defer zl.Sync()
	}
	appLog.Info("Inicializando serviço GoHotel.", map[string]interface{}{"env": cfg.Environment})

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DSN(), cfg.DBMaxOpenConns)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão PostgreSQL estabelecida.", map[string]interface{}{"max_open_conns": cfg.DBMaxOpenConns})

	// B. Cache (Redis) para o rate limiter
	var limiter func(http.Handler) http.Handler
	if cfg.RedisAddr != "" {
		cacheClient := cache.NewRedisClient(cfg.RedisAddr)
		defer cacheClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := cacheClient.Ping(pingCtx); err != nil {
			appLog.Warn("Redis indisponível; o rate limiter vai liberar as requisições até ele voltar.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
		} else {
			appLog.Info("Conexão Redis estabelecida.", map[string]interface{}{"addr": cfg.RedisAddr})
		}
		cancel()

		limiter = middleware.RateLimiter(cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod, appLog)
	}

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler

	// A. Repositórios
	persons := personrepo.NewPersonRepository(db, cfg.DBTimeout, appLog)
	phones := phonerepo.NewPhoneRepository(db, cfg.DBTimeout, appLog)
	emails := emailrepo.NewEmailRepository(db, cfg.DBTimeout, appLog)
	clients := clientrepo.NewClientRepository(db, cfg.DBTimeout, persons, emails, appLog)
	areas := arearepo.NewAreaRepository(db, cfg.DBTimeout, appLog)
	employees := employeerepo.NewEmployeeRepository(db, cfg.DBTimeout, persons, appLog)
	rooms := roomrepo.NewRoomRepository(db, cfg.DBTimeout, appLog)
	catalog := servicerepo.NewServiceRepository(db, cfg.DBTimeout, appLog)
	reservations := reservationrepo.NewReservationRepository(db, cfg.DBTimeout, appLog)
	consumptions := consumptionrepo.NewConsumptionRepository(db, cfg.DBTimeout, appLog)
	appLog.Debug("Repositórios inicializados.", nil)

	// B. Serviços
	v := validation.New()
	personSvc := personservice.NewService(persons, phones, v, appLog)
	clientSvc := clientservice.NewService(clients, emails, v, appLog)
	staffSvc := staffservice.NewService(employees, areas, v, appLog)
	roomSvc := roomservice.NewService(rooms, catalog, v, appLog)
	reservationSvc := reservationservice.NewService(reservations, consumptions, appLog)
	appLog.Debug("Serviços inicializados.", nil)

	// C. Handlers e roteador
	r := router.NewRouter(appLog, limiter,
		person.NewHandler(personSvc, appLog),
		client.NewHandler(clientSvc, appLog),
		staff.NewHandler(staffSvc, appLog),
		room.NewHandler(roomSvc, appLog),
		reservation.NewHandler(reservationSvc, appLog),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 4. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Servidor GoHotel ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
