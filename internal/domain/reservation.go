package domain

import "github.com/shopspring/decimal"

// ReservationKey é a chave natural de Reserva: não existe id gerado.
type ReservationKey struct {
	Cedula      int64 `json:"cedula"`
	RoomNumber  int32 `json:"roomNumber"`
	ArrivalDate Date  `json:"arrivalDate"`
}

// Reservation representa a tabela Reserva.
type Reservation struct {
	ReservationKey
	DepartureDate  Date  `json:"departureDate"`
	MaxCancelHours int32 `json:"maxCancelHours"`

	// Preenchidos apenas por FindAllWithDetails.
	Client *Client `json:"client,omitempty"`
	Room   *Room   `json:"room,omitempty"`
}

// Key devolve a chave natural da reserva.
func (r Reservation) Key() ReservationKey {
	return r.ReservationKey
}

// ConsumptionKey é a chave de seis colunas de ConsumoAdicional: a chave da
// reserva, o serviço e o instante do consumo.
type ConsumptionKey struct {
	Date        Date      `json:"date"`
	Time        ClockTime `json:"time"`
	ArrivalDate Date      `json:"arrivalDate"`
	RoomNumber  int32     `json:"roomNumber"`
	Cedula      int64     `json:"cedula"`
	ServiceID   int64     `json:"serviceId"`
}

// ReservationKey devolve a chave da reserva à qual o consumo é cobrado.
func (k ConsumptionKey) ReservationKey() ReservationKey {
	return ReservationKey{Cedula: k.Cedula, RoomNumber: k.RoomNumber, ArrivalDate: k.ArrivalDate}
}

// Consumption representa um serviço cobrado de uma reserva num instante.
type Consumption struct {
	ConsumptionKey

	// Preenchido apenas por FindAllWithDetails.
	Service *Service `json:"service,omitempty"`
}

// Key devolve a chave completa do consumo.
func (c Consumption) Key() ConsumptionKey {
	return c.ConsumptionKey
}

// ConsumptionStat agrega os consumos de um serviço.
type ConsumptionStat struct {
	ServiceID   int64           `json:"serviceId"`
	ServiceName string          `json:"serviceName"`
	Quantity    int64           `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}
