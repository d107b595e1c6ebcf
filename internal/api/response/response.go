package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"gohotel/internal/domain"
	apperror "gohotel/internal/errors"
	"gohotel/internal/pkg/logger"
	"gohotel/internal/pkg/middleware"
)

// Send processa o resultado do serviço e envia a resposta padronizada ao cliente.
// Com err nil, data é codificado com successStatus; caso contrário o erro é
// traduzido por apperror.MapToHTTPStatus para domain.ErrorResponse.
func Send(w http.ResponseWriter, r *http.Request, log logger.Logger, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil && successStatus != http.StatusNoContent {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				log.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	// TRATAMENTO DE ERROS
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		log.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		fields := map[string]interface{}{"path": r.URL.Path}
		if id, ok := middleware.RequestIDFromContext(r.Context()); ok {
			fields["request_id"] = id
		}
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), fields)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{Code: status, Category: category, Message: message})
}

// Decode lê o corpo JSON em dst. Campos desconhecidos são rejeitados.
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &apperror.ValidationError{Msg: "Payload inválido. Verifique o formato JSON.", Err: err}
	}
	return nil
}

// PathInt64 lê um parâmetro inteiro do caminho ({cedula}, {id}...).
func PathInt64(r *http.Request, name string) (int64, error) {
	return parseInt64(name, r.PathValue(name))
}

// PathInt32 lê um parâmetro inteiro de 32 bits do caminho, como o número do quarto.
func PathInt32(r *http.Request, name string) (int32, error) {
	raw := r.PathValue(name)
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, &apperror.ValidationError{Msg: fmt.Sprintf("%s: número inválido %q", name, raw), Err: err}
	}
	return int32(n), nil
}

// PathDate lê uma data AAAA-MM-DD do caminho.
func PathDate(r *http.Request, name string) (domain.Date, error) {
	return parseDate(name, r.PathValue(name))
}

// PathClock lê uma hora HH:MM:SS do caminho.
func PathClock(r *http.Request, name string) (domain.ClockTime, error) {
	raw := r.PathValue(name)
	c, err := domain.ParseClockTime(raw)
	if err != nil {
		return domain.ClockTime{}, &apperror.ValidationError{Msg: fmt.Sprintf("%s: hora inválida %q", name, raw), Err: err}
	}
	return c, nil
}

// QueryInt64 lê um filtro inteiro opcional da query string. Ausente vale zero.
func QueryInt64(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	return parseInt64(name, raw)
}

// QueryDate lê uma data opcional da query string. Ausente vale a data zero.
func QueryDate(r *http.Request, name string) (domain.Date, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return domain.Date{}, nil
	}
	return parseDate(name, raw)
}

// QueryBool informa se o filtro booleano está ligado (true, 1, yes).
func QueryBool(r *http.Request, name string) bool {
	b, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && b
}

// ReservationKey monta a chave natural a partir de {cedula}/{room}/{arrival}.
func ReservationKey(r *http.Request) (domain.ReservationKey, error) {
	cedula, err := PathInt64(r, "cedula")
	if err != nil {
		return domain.ReservationKey{}, err
	}
	room, err := PathInt32(r, "room")
	if err != nil {
		return domain.ReservationKey{}, err
	}
	arrival, err := PathDate(r, "arrival")
	if err != nil {
		return domain.ReservationKey{}, err
	}
	return domain.ReservationKey{Cedula: cedula, RoomNumber: room, ArrivalDate: arrival}, nil
}

func parseInt64(name, raw string) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &apperror.ValidationError{Msg: fmt.Sprintf("%s: número inválido %q", name, raw), Err: err}
	}
	return n, nil
}

func parseDate(name, raw string) (domain.Date, error) {
	d, err := domain.ParseDate(raw)
	if err != nil {
		return domain.Date{}, &apperror.ValidationError{Msg: fmt.Sprintf("%s: data inválida %q", name, raw), Err: err}
	}
	return d, nil
}
