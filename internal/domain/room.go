package domain

import "github.com/shopspring/decimal"

// RoomStatusAvailable é o estado usado por convenção para quartos livres.
// O estado é texto livre e qualquer transição é permitida.
const RoomStatusAvailable = "Disponible"

// Room representa a tabela Habitacion.
type Room struct {
	Number      int32           `json:"number" validate:"gt=0"`
	Category    string          `json:"category" validate:"required,max=50"`
	Status      string          `json:"status" validate:"required,max=30"`
	NightlyRate decimal.Decimal `json:"nightlyRate"`
}

// IsAvailable informa se o quarto está no estado convencional de disponível.
func (r Room) IsAvailable() bool {
	return r.Status == RoomStatusAvailable
}

// Service é um item do catálogo de serviços adicionais (tabela Servicio).
type Service struct {
	ID          int64           `json:"id" validate:"gt=0"`
	Name        string          `json:"name" validate:"required,max=50"`
	Description string          `json:"description" validate:"max=200"`
	Cost        decimal.Decimal `json:"cost"`
}
