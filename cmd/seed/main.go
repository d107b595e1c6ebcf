package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"gohotel/config"
	"gohotel/internal/domain"
	apperror "gohotel/internal/errors"
	"gohotel/internal/pkg/database"
	"gohotel/internal/pkg/logger"
	"gohotel/internal/pkg/validation"
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
	"gohotel/internal/service/clientservice"
	"gohotel/internal/service/personservice"
	"gohotel/internal/service/reservationservice"
	"gohotel/internal/service/roomservice"
	"gohotel/internal/service/staffservice"
)

type services struct {
	persons      *personservice.Service
	clients      *clientservice.Service
	staff        *staffservice.Service
	rooms        *roomservice.Service
	reservations *reservationservice.Service
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Aviso: arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	var timeout time.Duration
	flag.DurationVar(&timeout, "timeout", time.Minute, "tempo máximo para o cenário completo")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Configuração inválida: %v", err)
	}
	appLog := logger.NewConsoleLogger(cfg.LogLevel)
	if zl, ok := appLog.(*logger.ZapLogger); ok {
		defer zl.Sync()
	}

	db, err := database.NewPostgresDB(cfg.DSN(), cfg.DBMaxOpenConns)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()

	persons := personrepo.NewPersonRepository(db, cfg.DBTimeout, appLog)
	emails := emailrepo.NewEmailRepository(db, cfg.DBTimeout, appLog)
	v := validation.New()
	svc := services{
		persons: personservice.NewService(persons, phonerepo.NewPhoneRepository(db, cfg.DBTimeout, appLog), v, appLog),
		clients: clientservice.NewService(clientrepo.NewClientRepository(db, cfg.DBTimeout, persons, emails, appLog), emails, v, appLog),
		staff: staffservice.NewService(employeerepo.NewEmployeeRepository(db, cfg.DBTimeout, persons, appLog),
			arearepo.NewAreaRepository(db, cfg.DBTimeout, appLog), v, appLog),
		rooms: roomservice.NewService(roomrepo.NewRoomRepository(db, cfg.DBTimeout, appLog),
			servicerepo.NewServiceRepository(db, cfg.DBTimeout, appLog), v, appLog),
		reservations: reservationservice.NewService(reservationrepo.NewReservationRepository(db, cfg.DBTimeout, appLog),
			consumptionrepo.NewConsumptionRepository(db, cfg.DBTimeout, appLog), appLog),
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := run(ctx, svc, appLog); err != nil {
		appLog.Fatal("Cenário de demonstração falhou.", err)
	}
	appLog.Info("Cenário de demonstração concluído.", nil)
}

// run executa o cenário de demonstração. Registros que já existem de uma
// execução anterior são aceitos, então o comando pode ser repetido.
func run(ctx context.Context, svc services, log logger.Logger) error {
	// Áreas e funcionário
	if _, err := svc.staff.CreateArea(ctx, domain.Area{ID: 10, Name: "Tecnología"}); skip(err, log) != nil {
		return err
	}
	if _, err := svc.staff.CreateArea(ctx, domain.Area{ID: 20, Name: "Recepción"}); skip(err, log) != nil {
		return err
	}
	employee := domain.Employee{
		Person:   domain.Person{Cedula: 99887766, FirstName: "Luis", FirstSurname: "Rojas", SecondSurname: "Díaz"},
		Position: "Técnico",
		AreaID:   10,
	}
	if _, err := svc.staff.HireEmployee(ctx, employee); skip(err, log) != nil {
		return err
	}
	if _, err := svc.staff.UpdateEmployee(ctx, employee.Cedula, "Receptionist", 20); err != nil {
		return err
	}
	staffed, err := svc.staff.ListEmployees(ctx, staffservice.EmployeeFilter{WithDetails: true})
	if err != nil {
		return err
	}
	log.Info("Funcionários com área.", map[string]interface{}{"count": len(staffed)})

	// Cliente com e-mails e telefones
	client := domain.Client{
		Person: domain.Person{
			Cedula: 12345678, FirstName: "Juan", MiddleName: "Carlos", FirstSurname: "Pérez", SecondSurname: "González",
			Street: "Calle 10", Avenue: "Carrera 20", Number: "30-45", Complement: "Apto 301",
		},
		Emails: []string{"juan.perez@mail.com"},
	}
	if _, err := svc.clients.CreateClient(ctx, client); skip(err, log) != nil {
		return err
	}
	if err := svc.clients.ReplaceEmails(ctx, client.Cedula, []string{"juan.perez@mail.com", "jperez@hotel.com"}); err != nil {
		return err
	}
	if err := svc.persons.ReplacePhones(ctx, client.Cedula, []int64{3001234567, 3109876543}); err != nil {
		return err
	}
	byDomain, err := svc.clients.FindClientsByDomain(ctx, "mail.com")
	if err != nil {
		return err
	}
	log.Info("Clientes com e-mail em mail.com.", map[string]interface{}{"cedulas": byDomain})

	// Quartos e catálogo
	if _, err := svc.rooms.CreateRoom(ctx, domain.Room{Number: 101, Category: "Suite", NightlyRate: decimal.NewFromInt(250000)}); skip(err, log) != nil {
		return err
	}
	if _, err := svc.rooms.CreateService(ctx, domain.Service{ID: 100, Name: "Spa", Description: "Masaje relajante", Cost: decimal.NewFromInt(150000)}); skip(err, log) != nil {
		return err
	}

	// Reserva, consumos e total
	arrival := domain.DateOf(time.Now())
	res := domain.Reservation{
		ReservationKey: domain.ReservationKey{Cedula: client.Cedula, RoomNumber: 101, ArrivalDate: arrival},
		DepartureDate:  arrival.AddDays(3),
		MaxCancelHours: 48,
	}
	if _, err := svc.reservations.CreateReservation(ctx, res); skip(err, log) != nil {
		return err
	}
	if err := svc.rooms.ChangeStatus(ctx, 101, "Ocupada"); err != nil {
		return err
	}

	for _, at := range []domain.ClockTime{domain.NewClockTime(10, 0, 0), domain.NewClockTime(18, 30, 0)} {
		c := domain.Consumption{ConsumptionKey: domain.ConsumptionKey{
			Date:        arrival,
			Time:        at,
			ArrivalDate: arrival,
			RoomNumber:  101,
			Cedula:      client.Cedula,
			ServiceID:   100,
		}}
		if _, err := svc.reservations.RegisterConsumption(ctx, c); skip(err, log) != nil {
			return err
		}
	}

	total, err := svc.reservations.ReservationTotal(ctx, res.Key())
	if err != nil {
		return err
	}
	log.Info("Total de consumos da reserva.", map[string]interface{}{"total": total.StringFixed(2)})

	stats, err := svc.reservations.ConsumptionStats(ctx)
	if err != nil {
		return err
	}
	for _, s := range stats {
		log.Info("Estatística de consumo.", map[string]interface{}{"service": s.ServiceName, "quantity": s.Quantity, "total": s.Total.StringFixed(2)})
	}

	active, err := svc.reservations.ListReservations(ctx, reservationservice.ReservationFilter{Active: true})
	if err != nil {
		return err
	}
	log.Info("Reservas ativas.", map[string]interface{}{"count": len(active)})
	return nil
}

// skip trata conflito de chave como "já cadastrado" e devolve nil.
func skip(err error, log logger.Logger) error {
	if apperror.IsConflict(err) {
		log.Warn("Registro já existe, seguindo.", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return err
}
